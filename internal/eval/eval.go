// Package eval scores poker hands. It adapts the paulhankin/poker
// evaluator to the engine's card type and exposes a totally ordered
// score: higher is stronger, equal scores are exact ties.
package eval

import (
	"fmt"

	"github.com/paulhankin/poker"

	"github.com/patrickkosasih/allin-engine/internal/deck"
)

// Score is a comparable hand strength. Higher wins.
type Score int16

// Rank scores the best 5-card hand from 5, 6 or 7 cards.
// It panics on invalid input: the engine only feeds it cards drawn from
// its own deck, so a failure here is a programming error.
func Rank(cards []deck.Card) Score {
	switch len(cards) {
	case 5:
		var hand [5]poker.Card
		for i, c := range cards {
			hand[i] = convert(c)
		}
		return Score(poker.Eval5(&hand))
	case 6:
		// Best of the six 5-card subsets.
		var best Score
		var hand [5]poker.Card
		for skip := 0; skip < 6; skip++ {
			j := 0
			for i, c := range cards {
				if i == skip {
					continue
				}
				hand[j] = convert(c)
				j++
			}
			if s := Score(poker.Eval5(&hand)); skip == 0 || s > best {
				best = s
			}
		}
		return best
	case 7:
		var hand [7]poker.Card
		for i, c := range cards {
			hand[i] = convert(c)
		}
		return Score(poker.Eval7(&hand))
	default:
		panic(fmt.Sprintf("eval: cannot rank %d cards", len(cards)))
	}
}

// Describe returns a human-readable description of the best hand,
// e.g. "full house, kings over twos".
func Describe(cards []deck.Card) string {
	converted := make([]poker.Card, len(cards))
	for i, c := range cards {
		converted[i] = convert(c)
	}
	desc, err := poker.Describe(converted)
	if err != nil {
		return ""
	}
	return desc
}

func convert(c deck.Card) poker.Card {
	card, err := poker.MakeCard(suit(c.Suit), poker.Rank(c.Rank))
	if err != nil {
		panic(fmt.Sprintf("eval: invalid card %v: %v", c, err))
	}
	return card
}

func suit(s deck.Suit) poker.Suit {
	switch s {
	case deck.Spades:
		return poker.Spade
	case deck.Hearts:
		return poker.Heart
	case deck.Diamonds:
		return poker.Diamond
	default:
		return poker.Club
	}
}
