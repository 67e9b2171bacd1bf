package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBetBelowBigBlindRejected(t *testing.T) {
	t.Parallel()
	d := newTestDeal(t, []int{100, 100}, 0, 10)

	chips := d.Accounts()[0].Chips
	assert.Equal(t, BelowMinBet, d.Apply(BetRaiseTo(15)))
	assert.Equal(t, chips, d.Accounts()[0].Chips, "rejected action must not move chips")
	assert.Equal(t, 0, d.Turn(), "rejected action must not pass the turn")
}

func TestRaiseMustDoubleCurrentBet(t *testing.T) {
	t.Parallel()
	d := newTestDeal(t, []int{200, 200}, 0, 10)

	// Big blind is 20; a raise must reach at least 40.
	assert.Equal(t, BelowMinRaise, d.Apply(BetRaiseTo(30)))
	assert.Equal(t, BelowMinRaise, d.Apply(BetRaiseTo(39)))
	require.Equal(t, Success, d.Apply(BetRaiseTo(40)))
	assert.Equal(t, 40, d.CurrentBet())
	requireConserved(t, d, 400)
}

func TestRaiseReopensBetting(t *testing.T) {
	t.Parallel()
	d := newTestDeal(t, []int{200, 200, 200}, 0, 5)

	// Everyone calls, then the big blind uses its option to raise.
	require.Equal(t, Success, d.Apply(CheckCall()))
	require.Equal(t, Success, d.Apply(CheckCall()))
	require.True(t, d.Hands()[0].Called)

	require.Equal(t, Success, d.Apply(BetRaiseTo(30)))
	assert.False(t, d.RoundFinished(), "a raise must reopen the round")
	assert.False(t, d.Hands()[0].Called)
	assert.False(t, d.Hands()[1].Called)
	assert.True(t, d.Hands()[2].Called)

	require.Equal(t, Success, d.Apply(CheckCall()))
	require.Equal(t, Success, d.Apply(CheckCall()))
	assert.True(t, d.RoundFinished())
	assert.Equal(t, 90, d.RoundPot())
	requireConserved(t, d, 600)
}

func TestAllInBelowMinRaiseAllowed(t *testing.T) {
	t.Parallel()
	// Dealer posts the small blind heads-up; raising the 20 big blind to
	// 35 is short of a minimum raise but legal as an all-in.
	d := newTestDeal(t, []int{35, 200}, 0, 10)

	require.Equal(t, Success, d.Apply(BetRaiseTo(35)))
	h := d.Hands()[0]
	assert.True(t, h.AllIn)
	assert.Equal(t, 35, h.Bet)
	assert.Equal(t, 35, d.CurrentBet())
	assert.False(t, d.Hands()[1].Called, "an all-in raise still reopens betting")
	requireConserved(t, d, 235)
}

func TestMinBetCheckedBeforeClamping(t *testing.T) {
	t.Parallel()
	// A request below the big blind is rejected even though the stack
	// could not cover a legal bet anyway.
	d := newTestDeal(t, []int{12, 200}, 0, 10)

	assert.Equal(t, BelowMinBet, d.Apply(BetRaiseTo(15)))
	assert.Equal(t, 2, d.Accounts()[0].Chips)
}

func TestClampedRaiseBecomesCall(t *testing.T) {
	t.Parallel()
	// Seat 0 has 15 total against a 20 big blind: any raise attempt
	// clamps to an all-in call.
	d := newTestDeal(t, []int{15, 200}, 0, 10)

	require.Equal(t, Success, d.Apply(BetRaiseTo(100)))
	h := d.Hands()[0]
	assert.True(t, h.AllIn)
	assert.Equal(t, 15, h.Bet)
	assert.Equal(t, 20, d.CurrentBet(), "a clamped call must not move the bet")
	assert.False(t, d.Hands()[1].Called, "big blind still holds its option")
	assert.False(t, d.RoundFinished())
	assert.Equal(t, 1, d.Turn())
	requireConserved(t, d, 215)
}

func TestCallClampsToStack(t *testing.T) {
	t.Parallel()
	d := newTestDeal(t, []int{200, 30}, 0, 10)

	require.Equal(t, Success, d.Apply(BetRaiseTo(80)))
	require.Equal(t, Success, d.Apply(CheckCall()))

	h := d.Hands()[1]
	assert.True(t, h.AllIn)
	assert.Equal(t, 30, h.Bet)
	assert.Equal(t, 0, d.Accounts()[1].Chips)
	assert.True(t, d.RoundFinished())
	requireConserved(t, d, 230)
}

func TestRoundPotMatchesBetSum(t *testing.T) {
	t.Parallel()
	d := newTestDeal(t, []int{200, 200, 200}, 0, 5)

	actions := []Action{CheckCall(), BetRaiseTo(40), CheckCall(), CheckCall()}
	for _, a := range actions {
		require.Equal(t, Success, d.Apply(a))

		sum := 0
		for _, h := range d.Hands() {
			sum += h.Bet
		}
		assert.Equal(t, sum, d.RoundPot())
	}
	requireConserved(t, d, 600)
}
