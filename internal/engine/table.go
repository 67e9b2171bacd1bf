package engine

import (
	"errors"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
)

var (
	// ErrDealInProgress is returned when an operation needs the table
	// idle (or a finished deal) but a deal is still being played.
	ErrDealInProgress = errors.New("a deal is in progress")

	// ErrSeatTaken is returned when a player name is already seated.
	ErrSeatTaken = errors.New("player name already seated")
)

// Table runs a sequence of deals over a persistent set of accounts:
// it rotates the dealer, starts deals, and removes busted players when
// a deal finishes. Like the Deal, it is synchronous and unlocked; the
// caller serializes access.
type Table struct {
	accounts   []*Account
	dealer     int
	smallBlind int
	deal       *Deal

	rng    *rand.Rand
	eval   Evaluator
	bus    Bus
	logger *log.Logger
}

// TableOption configures a Table during creation.
type TableOption func(*Table)

// WithTableRNG sets the random source used to shuffle each deal's deck.
func WithTableRNG(rng *rand.Rand) TableOption {
	return func(t *Table) { t.rng = rng }
}

// WithTableEvaluator sets the hand evaluator passed to each deal.
func WithTableEvaluator(e Evaluator) TableOption {
	return func(t *Table) { t.eval = e }
}

// WithTableEventBus sets the bus shared by the table and its deals.
func WithTableEventBus(bus Bus) TableOption {
	return func(t *Table) { t.bus = bus }
}

// WithTableLogger sets the table's logger.
func WithTableLogger(logger *log.Logger) TableOption {
	return func(t *Table) { t.logger = logger }
}

// NewTable creates an empty table with the given small blind (the big
// blind is twice it).
func NewTable(smallBlind int, opts ...TableOption) *Table {
	t := &Table{
		smallBlind: smallBlind,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.eval == nil {
		t.eval = StandardEvaluator{}
	}
	if t.bus == nil {
		t.bus = NewBus()
	}
	if t.logger == nil {
		t.logger = log.New(io.Discard)
	}
	t.logger = t.logger.WithPrefix("table")
	return t
}

// AddPlayer seats a new account with the given buy-in. Players cannot
// join mid-deal.
func (t *Table) AddPlayer(name string, chips int) (*Account, error) {
	if t.InProgress() {
		return nil, ErrDealInProgress
	}
	for _, a := range t.accounts {
		if a.Name == name {
			return nil, ErrSeatTaken
		}
	}

	account := NewAccount(name, chips)
	account.Seat = len(t.accounts)
	t.accounts = append(t.accounts, account)

	t.logger.Debug("player joined", "name", name, "seat", account.Seat, "chips", chips)
	t.bus.Publish(Event{Kind: EventPlayerJoined, Seat: account.Seat, NextSeat: -1, Amount: chips, Message: name})
	return account, nil
}

// StartDeal constructs and starts a deal over the seated accounts. An
// ended deal must be cleared with FinishDeal first.
func (t *Table) StartDeal() (*Deal, error) {
	if t.deal != nil {
		return nil, ErrDealInProgress
	}

	deal, err := NewDeal(t.accounts, t.dealer, t.smallBlind,
		WithRNG(t.rng),
		WithEvaluator(t.eval),
		WithEventBus(t.bus),
		WithLogger(t.logger),
	)
	if err != nil {
		return nil, err
	}

	t.deal = deal
	deal.Start()
	return deal, nil
}

// FinishDeal tears down an ended deal: busted players are removed,
// seats are compacted, and the dealer button moves to the next
// surviving seat.
func (t *Table) FinishDeal() error {
	if t.deal == nil || !t.deal.Ended() {
		return ErrDealInProgress
	}

	// Pick the button's next holder before seats shift.
	var nextDealer *Account
	n := len(t.accounts)
	for i := 1; i <= n; i++ {
		candidate := t.accounts[(t.dealer+i)%n]
		if candidate.Chips > 0 {
			nextDealer = candidate
			break
		}
	}

	survivors := t.accounts[:0]
	for _, a := range t.accounts {
		if a.Chips == 0 {
			t.logger.Debug("player eliminated", "name", a.Name, "seat", a.Seat)
			t.bus.Publish(Event{Kind: EventPlayerEliminated, Seat: a.Seat, NextSeat: -1, Message: a.Name})
			continue
		}
		survivors = append(survivors, a)
	}
	t.accounts = survivors
	for i, a := range t.accounts {
		a.Seat = i
	}

	t.dealer = 0
	if nextDealer != nil {
		t.dealer = nextDealer.Seat
	}
	t.deal = nil

	t.bus.Publish(Event{Kind: EventTableReset, Seat: -1, NextSeat: t.dealer})
	return nil
}

// InProgress reports whether a deal is currently being played.
func (t *Table) InProgress() bool {
	return t.deal != nil && !t.deal.Ended()
}

// Accounts returns the seated accounts in seat order.
func (t *Table) Accounts() []*Account { return t.accounts }

// Dealer returns the current dealer seat.
func (t *Table) Dealer() int { return t.dealer }

// SmallBlind returns the table's small blind amount.
func (t *Table) SmallBlind() int { return t.smallBlind }

// Deal returns the deal being played, or nil.
func (t *Table) Deal() *Deal { return t.deal }

// Bus returns the event bus shared by the table and its deals.
func (t *Table) Bus() Bus { return t.bus }
