package bot

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/patrickkosasih/allin-engine/internal/engine"
)

// Runner drives a table of strategies. It owns the single logical
// thread of control the engine requires: one action at a time, rounds
// advanced once finished, deals finished and restarted until the game
// is over. Thinking-time pacing goes through an injected clock so tests
// never sleep.
type Runner struct {
	table      *engine.Table
	strategies map[string]Strategy // keyed by account ID, stable across seat shifts
	clock      quartz.Clock
	delay      time.Duration
	logger     *log.Logger
}

// RunnerOption configures a Runner during creation.
type RunnerOption func(*Runner)

// WithClock sets the clock used for pacing. Defaults to the real clock.
func WithClock(clock quartz.Clock) RunnerOption {
	return func(r *Runner) { r.clock = clock }
}

// WithDelay sets the pause before each bot decision. Zero (the default)
// plays as fast as possible.
func WithDelay(delay time.Duration) RunnerOption {
	return func(r *Runner) { r.delay = delay }
}

// WithLogger sets the runner's logger.
func WithLogger(logger *log.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a runner over the given table.
func NewRunner(table *engine.Table, opts ...RunnerOption) *Runner {
	r := &Runner{
		table:      table,
		strategies: make(map[string]Strategy),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = quartz.NewReal()
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	r.logger = r.logger.WithPrefix("runner")
	return r
}

// Seat adds a player to the table and binds a strategy to it.
func (r *Runner) Seat(name string, chips int, strategy Strategy) error {
	account, err := r.table.AddPlayer(name, chips)
	if err != nil {
		return err
	}
	r.strategies[account.ID] = strategy
	return nil
}

// Table returns the table being driven.
func (r *Runner) Table() *engine.Table { return r.table }

// PlayDeal runs one complete deal from blinds to payout and clears it
// from the table.
func (r *Runner) PlayDeal(ctx context.Context) error {
	deal, err := r.table.StartDeal()
	if err != nil {
		return fmt.Errorf("starting deal: %w", err)
	}

	for !deal.Ended() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if deal.RoundFinished() || deal.SkipNextRounds() {
			if err := deal.AdvanceRound(); err != nil {
				return fmt.Errorf("advancing round: %w", err)
			}
			continue
		}

		if err := r.pace(ctx); err != nil {
			return err
		}

		seat := deal.Turn()
		account := deal.Accounts()[seat]
		strategy, ok := r.strategies[account.ID]
		if !ok {
			return fmt.Errorf("no strategy bound for player %q", account.Name)
		}

		action := strategy.Act(r.view(deal, seat))
		result := deal.Apply(action)
		if result != engine.Success {
			// A misbehaving strategy checks or calls instead, which is
			// always legal on its turn.
			r.logger.Warn("illegal action from strategy",
				"player", account.Name, "action", action.Kind.String(), "result", result.String())
			if result = deal.Apply(engine.CheckCall()); result != engine.Success {
				return fmt.Errorf("fallback call rejected for %q: %s", account.Name, result)
			}
		}
	}

	if err := r.table.FinishDeal(); err != nil {
		return fmt.Errorf("finishing deal: %w", err)
	}
	return nil
}

// Play runs up to maxDeals deals, stopping early when fewer than two
// players remain. Returns the number of deals completed.
func (r *Runner) Play(ctx context.Context, maxDeals int) (int, error) {
	for played := 0; ; played++ {
		if played >= maxDeals || len(r.table.Accounts()) < 2 {
			return played, nil
		}
		if err := r.PlayDeal(ctx); err != nil {
			return played, err
		}
	}
}

func (r *Runner) pace(ctx context.Context) error {
	if r.delay <= 0 {
		return nil
	}
	timer := r.clock.NewTimer(r.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) view(deal *engine.Deal, seat int) View {
	hand := deal.Hands()[seat]
	account := deal.Accounts()[seat]

	minRaise := 2 * deal.CurrentBet()
	if bigBlind := 2 * deal.SmallBlind(); minRaise < bigBlind {
		minRaise = bigBlind
	}

	potTotal := deal.RoundPot()
	for _, p := range deal.Pots() {
		potTotal += p
	}

	return View{
		Seat:       seat,
		HoleCards:  hand.HoleCards,
		Community:  deal.Community(),
		Chips:      account.Chips,
		Committed:  hand.Bet,
		CurrentBet: deal.CurrentBet(),
		MinRaise:   minRaise,
		BigBlind:   2 * deal.SmallBlind(),
		PotTotal:   potTotal,
	}
}
