// Package bot provides decision strategies and the driver loop that
// plays them against each other. The engine itself never blocks or
// schedules; the Runner here is the external caller that polls the
// turn, collects a decision and advances rounds.
package bot

import (
	rand "math/rand/v2"
	"time"

	"github.com/patrickkosasih/allin-engine/internal/deck"
	"github.com/patrickkosasih/allin-engine/internal/engine"
)

// View is the game state a strategy is shown when asked to act.
type View struct {
	Seat       int
	HoleCards  [2]deck.Card
	Community  []deck.Card
	Chips      int
	Committed  int // chips already in for this round
	CurrentBet int // amount to match to call
	MinRaise   int // minimum legal raise-to amount
	BigBlind   int
	PotTotal   int
}

// Strategy decides one action for the seat to act.
type Strategy interface {
	Act(view View) engine.Action
}

// CallingStation always checks or calls, never raises, never folds.
type CallingStation struct{}

// Act implements Strategy.
func (CallingStation) Act(View) engine.Action {
	return engine.CheckCall()
}

// Aggressor raises the minimum amount at a fixed frequency and calls
// otherwise.
type Aggressor struct {
	rng       *rand.Rand
	frequency float64
}

// NewAggressor creates an aggressor raising at the given frequency
// (0 to 1).
func NewAggressor(frequency float64) *Aggressor {
	return &Aggressor{
		rng:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		frequency: frequency,
	}
}

// Act implements Strategy.
func (a *Aggressor) Act(view View) engine.Action {
	if view.Chips > 0 && a.rng.Float64() < a.frequency {
		return engine.BetRaiseTo(view.MinRaise)
	}
	return engine.CheckCall()
}

// Random picks uniformly between folding, calling and a minimum raise.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random strategy.
func NewRandom() *Random {
	return &Random{
		rng: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
}

// NewSeededRandom creates a random strategy with a deterministic seed.
func NewSeededRandom(seed uint64) *Random {
	return &Random{
		rng: rand.New(rand.NewPCG(seed, 0)),
	}
}

// Act implements Strategy.
func (r *Random) Act(view View) engine.Action {
	switch r.rng.IntN(3) {
	case 0:
		// Folding a free option is pointless; check instead.
		if view.CurrentBet <= view.Committed {
			return engine.CheckCall()
		}
		return engine.Fold()
	case 1:
		return engine.CheckCall()
	default:
		if view.Chips == 0 {
			return engine.CheckCall()
		}
		return engine.BetRaiseTo(view.MinRaise)
	}
}
