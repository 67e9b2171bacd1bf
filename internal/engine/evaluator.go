package engine

import (
	"github.com/patrickkosasih/allin-engine/internal/deck"
	"github.com/patrickkosasih/allin-engine/internal/eval"
)

// Evaluator scores a set of 5 to 7 cards into a totally ordered
// strength: higher is better, ties are exactly equal values. It must be
// a pure function of the cards.
type Evaluator interface {
	Rank(cards []deck.Card) int
	Describe(cards []deck.Card) string
}

// StandardEvaluator scores hands with the package evaluator.
type StandardEvaluator struct{}

// Rank implements Evaluator.
func (StandardEvaluator) Rank(cards []deck.Card) int {
	return int(eval.Rank(cards))
}

// Describe implements Evaluator.
func (StandardEvaluator) Describe(cards []deck.Card) string {
	return eval.Describe(cards)
}
