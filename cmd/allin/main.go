package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/patrickkosasih/allin-engine/internal/bot"
	"github.com/patrickkosasih/allin-engine/internal/config"
	"github.com/patrickkosasih/allin-engine/internal/deck"
	"github.com/patrickkosasih/allin-engine/internal/engine"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1A7431")).
			Padding(0, 1).
			Bold(true)

	boardStyle  = lipgloss.NewStyle().Bold(true)
	winnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1C40F")).Bold(true)
	actionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#BBBBBB"))
)

type CLI struct {
	Config   string `short:"c" help:"Path to HCL game config" default:"allin.hcl" type:"path"`
	LogLevel string `help:"Override the configured log level" enum:"debug,info,warn,error," default:""`

	Play     PlayCmd     `cmd:"" default:"1" help:"Play one table with console output"`
	Simulate SimulateCmd `cmd:"" help:"Run many tables concurrently and report results"`
}

type PlayCmd struct {
	Deals int `short:"n" help:"Override the configured number of deals" default:"0"`
}

type SimulateCmd struct {
	Tables int `short:"t" help:"Number of tables to run in parallel" default:"8"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("allin"),
		kong.Description("No-limit hold'em betting engine playground"),
	)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	if cli.LogLevel != "" {
		cfg.Game.LogLevel = cli.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config", "error", err)
	}

	level, err := log.ParseLevel(cfg.Game.LogLevel)
	if err != nil {
		log.Fatal("Invalid log level", "error", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch ctx.Command() {
	case "play":
		err = runPlay(runCtx, cfg, cli.Play, logger)
	case "simulate":
		err = runSimulate(runCtx, cfg, cli.Simulate, logger)
	default:
		err = fmt.Errorf("unknown command %q", ctx.Command())
	}
	if err != nil {
		log.Fatal("Game failed", "error", err)
	}

	ctx.Exit(0)
}

func runPlay(ctx context.Context, cfg *config.Config, cmd PlayCmd, logger *log.Logger) error {
	fmt.Println(titleStyle.Render(" ♠ ♥ all-in engine ♦ ♣ "))
	fmt.Println()

	deals := cfg.Game.Deals
	if cmd.Deals > 0 {
		deals = cmd.Deals
	}

	bus := engine.NewBus()
	table := engine.NewTable(cfg.Game.SmallBlind,
		engine.WithTableRNG(gameRNG(cfg.Game.Seed)),
		engine.WithTableEventBus(bus),
		engine.WithTableLogger(logger),
	)
	bus.Subscribe(newConsoleObserver(table))

	runner, err := seatPlayers(table, cfg, logger)
	if err != nil {
		return err
	}

	played, err := runner.Play(ctx, deals)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("%d deal(s) played. Final standings:\n", played)
	printStandings(table.Accounts())
	return nil
}

func runSimulate(ctx context.Context, cfg *config.Config, cmd SimulateCmd, logger *log.Logger) error {
	type result struct {
		played int
		stacks map[string]int
	}
	results := make([]result, cmd.Tables)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < cmd.Tables; i++ {
		g.Go(func() error {
			seed := cfg.Game.Seed
			if seed != 0 {
				seed += int64(i)
			}
			table := engine.NewTable(cfg.Game.SmallBlind,
				engine.WithTableRNG(gameRNG(seed)),
				engine.WithTableLogger(logger),
			)
			runner, err := seatPlayers(table, cfg, logger)
			if err != nil {
				return err
			}

			played, err := runner.Play(ctx, cfg.Game.Deals)
			if err != nil {
				return err
			}

			stacks := make(map[string]int)
			for _, a := range table.Accounts() {
				stacks[a.Name] = a.Chips
			}
			results[i] = result{played: played, stacks: stacks}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	totalDeals := 0
	profit := make(map[string]int)
	for _, p := range cfg.Players {
		profit[p.Name] = 0
	}
	for _, r := range results {
		totalDeals += r.played
		for _, p := range cfg.Players {
			profit[p.Name] += r.stacks[p.Name] - p.BuyIn
		}
	}

	fmt.Printf("%d tables, %d deals in %s\n\n", cmd.Tables, totalDeals, time.Since(start).Round(time.Millisecond))

	names := make([]string, 0, len(profit))
	for name := range profit {
		names = append(names, name)
	}
	sort.Slice(names, func(a, b int) bool { return profit[names[a]] > profit[names[b]] })
	for _, name := range names {
		fmt.Printf("  %-12s %+d\n", name, profit[name])
	}
	return nil
}

// seatPlayers builds a runner with each configured player bound to its
// strategy.
func seatPlayers(table *engine.Table, cfg *config.Config, logger *log.Logger) (*bot.Runner, error) {
	runner := bot.NewRunner(table,
		bot.WithDelay(time.Duration(cfg.Game.DelayMS)*time.Millisecond),
		bot.WithLogger(logger),
	)
	for _, p := range cfg.Players {
		strategy, err := buildStrategy(p.Strategy)
		if err != nil {
			return nil, err
		}
		if err := runner.Seat(p.Name, p.BuyIn, strategy); err != nil {
			return nil, fmt.Errorf("seating %q: %w", p.Name, err)
		}
	}
	return runner, nil
}

func buildStrategy(name string) (bot.Strategy, error) {
	switch name {
	case "call":
		return bot.CallingStation{}, nil
	case "aggressive":
		return bot.NewAggressor(0.7), nil
	case "random":
		return bot.NewRandom(), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

func gameRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func printStandings(accounts []*engine.Account) {
	sorted := make([]*engine.Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Chips > sorted[b].Chips })
	for i, a := range sorted {
		fmt.Printf("  %d. %-12s %d chips\n", i+1, a.Name, a.Chips)
	}
}

// consoleObserver renders engine events for the terminal.
type consoleObserver struct {
	table *engine.Table
}

func newConsoleObserver(table *engine.Table) *consoleObserver {
	return &consoleObserver{table: table}
}

func (o *consoleObserver) OnEvent(event engine.Event) {
	switch event.Kind {
	case engine.EventDealStarted:
		fmt.Println(boardStyle.Render("--- new deal ---"))
	case engine.EventPlayerAction:
		fmt.Println(actionStyle.Render(fmt.Sprintf("%s %s (%d)", o.name(event.Seat), event.Message, event.Amount)))
	case engine.EventNewRound, engine.EventRoundSkipped:
		board := ""
		if deal := o.table.Deal(); deal != nil {
			board = " " + deck.Format(deal.Community())
		}
		fmt.Println(boardStyle.Render(fmt.Sprintf("*** %s ***%s pot %d", event.Message, board, event.Amount)))
	case engine.EventDealEnded:
		fmt.Println(winnerStyle.Render(fmt.Sprintf("%s (+%d)", event.Message, event.Amount)))
		fmt.Println()
	case engine.EventPlayerEliminated:
		fmt.Println(actionStyle.Render(event.Message + " is eliminated"))
	}
}

func (o *consoleObserver) name(seat int) string {
	deal := o.table.Deal()
	if deal == nil || seat < 0 || seat >= len(deal.Accounts()) {
		return fmt.Sprintf("seat %d", seat)
	}
	return deal.Accounts()[seat].Name
}
