package engine

import (
	"github.com/patrickkosasih/allin-engine/internal/deck"
)

// Hand is the per-deal, per-seat transient state. A Hand is owned by
// exactly one Deal and refers to its player only by seat index, never by
// pointer, so the deal and the table's account list stay decoupled.
type Hand struct {
	Seat      int
	HoleCards [2]deck.Card

	// Bet is the amount committed in the current betting round. It is
	// drained into pots when the round settles and resets to zero.
	Bet int

	Folded bool
	AllIn  bool
	Called bool

	// PotIndex is the highest-indexed pot this hand may win, fixed when
	// the hand goes all-in at a given commitment level. -1 means the
	// hand is eligible for every pot.
	PotIndex int

	// Rank is the score of the best hand over hole plus community cards,
	// recomputed whenever the board changes. Higher wins.
	Rank int

	Winnings   int
	PotsWon    []int
	LastAction string
}

// Live reports whether the hand can still act: not folded and not all-in.
func (h *Hand) Live() bool {
	return !h.Folded && !h.AllIn
}
