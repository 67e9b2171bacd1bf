package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickkosasih/allin-engine/internal/deck"
)

func card(s deck.Suit, r deck.Rank) deck.Card { return deck.NewCard(s, r) }

// dryBoard has mixed suits and no straight potential against the test
// pocket pairs.
func dryBoard() []deck.Card {
	return []deck.Card{
		card(deck.Clubs, deck.Two),
		card(deck.Diamonds, deck.Seven),
		card(deck.Spades, deck.Eight),
		card(deck.Clubs, deck.Jack),
		card(deck.Hearts, deck.Three),
	}
}

// TestSidePotSplitting is the canonical three-way all-in: stacks
// 100/300/500 all committed in one round must settle into a 300 main
// pot (everyone eligible) and a 400 side pot (the two deep stacks).
func TestSidePotSplitting(t *testing.T) {
	t.Parallel()

	cards := []deck.Card{
		card(deck.Spades, deck.Ace), card(deck.Hearts, deck.Ace), // seat 0
		card(deck.Spades, deck.King), card(deck.Hearts, deck.King), // seat 1
		card(deck.Spades, deck.Queen), card(deck.Hearts, deck.Queen), // seat 2
	}
	cards = append(cards, dryBoard()...)

	d := newTestDeal(t, []int{100, 300, 500}, 0, 10, WithDeck(deck.Stacked(cards)))

	require.Equal(t, Success, d.Apply(BetRaiseTo(100)))
	require.Equal(t, Success, d.Apply(BetRaiseTo(300)))
	require.Equal(t, Success, d.Apply(CheckCall()))
	require.True(t, d.RoundFinished())
	requireConserved(t, d, 900)

	require.NoError(t, d.AdvanceRound())
	assert.Equal(t, []int{300, 400}, d.Pots())
	assert.Equal(t, 0, d.RoundPot())
	assert.Equal(t, 0, d.Hands()[0].PotIndex)
	assert.Equal(t, 1, d.Hands()[1].PotIndex)
	assert.Equal(t, -1, d.Hands()[2].PotIndex)
	assert.True(t, d.SkipNextRounds())
	requireConserved(t, d, 900)

	advanceToEnd(t, d)

	// Aces take the main pot, kings the side pot; the caller keeps its
	// uncommitted 200.
	assert.Equal(t, 300, d.Accounts()[0].Chips)
	assert.Equal(t, 400, d.Accounts()[1].Chips)
	assert.Equal(t, 200, d.Accounts()[2].Chips)
	assert.Equal(t, []int{0}, d.Hands()[0].PotsWon)
	assert.Equal(t, []int{1}, d.Hands()[1].PotsWon)
	require.Len(t, d.Winners(), 2)
	assert.Equal(t, []*Hand{d.Hands()[0]}, d.Winners()[0])
	assert.Equal(t, []*Hand{d.Hands()[1]}, d.Winners()[1])
	requireConserved(t, d, 900)
}

func TestSidePotRefundToSoleClaimant(t *testing.T) {
	t.Parallel()

	cards := []deck.Card{
		card(deck.Spades, deck.Ace), card(deck.Hearts, deck.Ace), // seat 0
		card(deck.Spades, deck.King), card(deck.Hearts, deck.King), // seat 1
	}
	cards = append(cards, dryBoard()...)

	// Seat 0 can only cover 15 of the 20 big blind; the uncalled 5 must
	// flow straight back to seat 1 instead of forming a one-player pot.
	d := newTestDeal(t, []int{15, 200}, 0, 10, WithDeck(deck.Stacked(cards)))

	require.Equal(t, Success, d.Apply(BetRaiseTo(100)))
	require.Equal(t, Success, d.Apply(CheckCall()))
	require.True(t, d.RoundFinished())

	require.NoError(t, d.AdvanceRound())
	assert.Equal(t, []int{30}, d.Pots())
	assert.Equal(t, 0, d.RoundPot())
	assert.Equal(t, 185, d.Accounts()[1].Chips)
	requireConserved(t, d, 215)

	advanceToEnd(t, d)
	assert.Equal(t, 30, d.Accounts()[0].Chips)
	assert.Equal(t, 185, d.Accounts()[1].Chips)
	requireConserved(t, d, 215)
}

func TestUncalledBetReturnedWithoutSidePot(t *testing.T) {
	t.Parallel()

	cards := []deck.Card{
		card(deck.Spades, deck.Queen), card(deck.Hearts, deck.Queen), // seat 0
		card(deck.Spades, deck.Ace), card(deck.Diamonds, deck.Ace), // seat 1
		card(deck.Clubs, deck.Seven), card(deck.Diamonds, deck.Two), // seat 2
		card(deck.Spades, deck.King), card(deck.Diamonds, deck.Nine), card(deck.Clubs, deck.Four), // flop
		card(deck.Clubs, deck.Jack),   // turn
		card(deck.Hearts, deck.Three), // river
	}

	d := newTestDeal(t, []int{60, 500, 500}, 0, 10, WithDeck(deck.Stacked(cards)))

	// Pre-flop: seat 0 jams for 60, both others call.
	require.Equal(t, Success, d.Apply(BetRaiseTo(60)))
	require.Equal(t, Success, d.Apply(CheckCall()))
	require.Equal(t, Success, d.Apply(CheckCall()))
	require.NoError(t, d.AdvanceRound())
	require.Equal(t, []int{180, 0}, d.Pots())
	require.False(t, d.SkipNextRounds())

	// Flop: seat 1 bets, seat 2 folds. Nobody can call seat 1 in the
	// open pot, so its bet comes straight back.
	require.Equal(t, 1, d.Turn())
	require.Equal(t, Success, d.Apply(BetRaiseTo(50)))
	require.Equal(t, Success, d.Apply(Fold()))
	require.True(t, d.RoundFinished())

	require.NoError(t, d.AdvanceRound())
	assert.Equal(t, 440, d.Accounts()[1].Chips, "uncalled bet returned")
	assert.Equal(t, 0, d.RoundPot())
	assert.True(t, d.SkipNextRounds())

	advanceToEnd(t, d)
	assert.Equal(t, 0, d.Accounts()[0].Chips)
	assert.Equal(t, 620, d.Accounts()[1].Chips)
	assert.Equal(t, 440, d.Accounts()[2].Chips)
	requireConserved(t, d, 1060)
}

func TestEqualAllInsShareOnePotLevel(t *testing.T) {
	t.Parallel()

	cards := []deck.Card{
		card(deck.Spades, deck.Queen), card(deck.Hearts, deck.Queen), // seat 0
		card(deck.Spades, deck.Ace), card(deck.Hearts, deck.Ace), // seat 1
		card(deck.Spades, deck.King), card(deck.Hearts, deck.King), // seat 2
	}
	cards = append(cards, dryBoard()...)

	d := newTestDeal(t, []int{100, 100, 300}, 0, 10, WithDeck(deck.Stacked(cards)))

	require.Equal(t, Success, d.Apply(BetRaiseTo(100)))
	require.Equal(t, Success, d.Apply(BetRaiseTo(100)))
	require.Equal(t, Success, d.Apply(CheckCall()))
	require.NoError(t, d.AdvanceRound())

	assert.Equal(t, []int{300}, d.Pots(), "equal all-ins close a single level")
	assert.Equal(t, 0, d.Hands()[0].PotIndex)
	assert.Equal(t, 0, d.Hands()[1].PotIndex)
	assert.Equal(t, -1, d.Hands()[2].PotIndex)

	advanceToEnd(t, d)
	assert.Equal(t, 300, d.Accounts()[1].Chips)
	requireConserved(t, d, 500)
}

func TestBlindsCanForceAllIn(t *testing.T) {
	t.Parallel()

	cards := []deck.Card{
		card(deck.Spades, deck.Ace), card(deck.Hearts, deck.Ace), // seat 0
		card(deck.Spades, deck.King), card(deck.Hearts, deck.King), // seat 1
	}
	cards = append(cards, dryBoard()...)

	// Both blinds consume entire stacks: the round is finished before
	// anyone acts voluntarily.
	d := newTestDeal(t, []int{10, 20}, 0, 10, WithDeck(deck.Stacked(cards)))

	require.True(t, d.Hands()[0].AllIn)
	require.True(t, d.Hands()[1].AllIn)
	require.True(t, d.RoundFinished())

	advanceToEnd(t, d)

	// Seat 1's uncovered 10 sits in a side pot only it can win.
	assert.Equal(t, 20, d.Accounts()[0].Chips)
	assert.Equal(t, 10, d.Accounts()[1].Chips)
	requireConserved(t, d, 30)
}
