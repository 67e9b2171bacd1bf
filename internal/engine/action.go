package engine

import "fmt"

// ActionKind discriminates the Action tagged union.
type ActionKind int

const (
	ActionFold ActionKind = iota
	ActionCheckCall
	ActionBetRaise
)

// String returns the string representation of the action kind
func (k ActionKind) String() string {
	switch k {
	case ActionFold:
		return "fold"
	case ActionCheckCall:
		return "check/call"
	case ActionBetRaise:
		return "bet/raise"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Action is a player decision. Amount is only meaningful for
// ActionBetRaise, where it is the target total commitment for the
// round, not a delta on top of previous chips.
type Action struct {
	Kind   ActionKind
	Amount int
}

// Fold gives up the hand.
func Fold() Action {
	return Action{Kind: ActionFold}
}

// CheckCall matches the current bet, or checks when there is nothing to
// match.
func CheckCall() Action {
	return Action{Kind: ActionCheckCall}
}

// BetRaiseTo bets or raises so that the seat's total round commitment
// becomes amount.
func BetRaiseTo(amount int) Action {
	return Action{Kind: ActionBetRaise, Amount: amount}
}

// ActionResult reports the outcome of applying an action. Anything other
// than Success means the deal state is unchanged.
type ActionResult int

const (
	Success ActionResult = iota
	BelowMinBet
	BelowMinRaise
	RoundAlreadyFinished
	DealAlreadyEnded
	DealNotStarted
	InvalidAction
)

// String returns the string representation of the result
func (r ActionResult) String() string {
	switch r {
	case Success:
		return "success"
	case BelowMinBet:
		return "below minimum bet"
	case BelowMinRaise:
		return "below minimum raise"
	case RoundAlreadyFinished:
		return "round already finished"
	case DealAlreadyEnded:
		return "deal already ended"
	case DealNotStarted:
		return "deal not started"
	case InvalidAction:
		return "invalid action"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}
