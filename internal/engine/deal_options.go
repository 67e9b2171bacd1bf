package engine

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/patrickkosasih/allin-engine/internal/deck"
)

// DealOption configures a Deal during creation.
type DealOption func(*dealConfig)

// dealConfig holds all configuration for creating a deal.
type dealConfig struct {
	rng    *rand.Rand
	deck   *deck.Deck
	eval   Evaluator
	bus    Bus
	logger *log.Logger
}

// WithRNG sets the random source used to shuffle the deck. Tests pass a
// seeded source for deterministic card order.
func WithRNG(rng *rand.Rand) DealOption {
	return func(c *dealConfig) {
		c.rng = rng
	}
}

// WithDeck sets a specific pre-built deck, overriding the RNG for deck
// creation. Intended for tests that stack known cards.
func WithDeck(d *deck.Deck) DealOption {
	return func(c *dealConfig) {
		c.deck = d
	}
}

// WithEvaluator sets the hand evaluator. Defaults to StandardEvaluator.
func WithEvaluator(e Evaluator) DealOption {
	return func(c *dealConfig) {
		c.eval = e
	}
}

// WithEventBus sets the bus the deal publishes events on.
func WithEventBus(bus Bus) DealOption {
	return func(c *dealConfig) {
		c.bus = bus
	}
}

// WithLogger sets the deal's logger. Defaults to a discarding logger.
func WithLogger(logger *log.Logger) DealOption {
	return func(c *dealConfig) {
		c.logger = logger
	}
}

func (c *dealConfig) applyDefaults() {
	if c.deck == nil {
		c.deck = deck.NewDeck(c.rng)
	}
	if c.eval == nil {
		c.eval = StandardEvaluator{}
	}
	if c.bus == nil {
		c.bus = NewBus()
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
}
