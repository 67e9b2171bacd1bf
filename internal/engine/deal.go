package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/patrickkosasih/allin-engine/internal/deck"
)

var (
	// ErrNotEnoughPlayers is returned when a deal is constructed with
	// fewer than two funded seats.
	ErrNotEnoughPlayers = errors.New("at least 2 players with chips required")

	// ErrRoundNotFinished is returned by AdvanceRound while the current
	// betting round is still collecting actions.
	ErrRoundNotFinished = errors.New("betting round not finished")

	// ErrDealEnded is returned once winners have been decided.
	ErrDealEnded = errors.New("deal already ended")
)

// Deal orchestrates one complete hand of poker: it deals cards, runs the
// betting rounds, splits the money into main and side pots, and resolves
// winners at showdown.
//
// A Deal is synchronous and performs no internal locking; the caller
// must serialize all access. Apply collects one action at a time, and
// once RoundFinished reports true the caller drives AdvanceRound,
// looping while SkipNextRounds holds and the deal has not ended.
type Deal struct {
	id       string
	accounts []*Account
	hands    []*Hand

	// pots[0] is the main pot; higher indexes are side pots created at
	// increasing all-in commitment levels.
	pots     []int
	roundPot int
	bet      int

	community []deck.Card
	deck      *deck.Deck

	dealer        int
	smallBlind    int
	turn          int
	started       bool
	roundFinished bool
	skipRounds    bool

	// winners is indexed by pot; nil until showdown resolves.
	winners [][]*Hand

	eval   Evaluator
	bus    Bus
	logger *log.Logger
}

// NewDeal creates a deal over the given accounts in seat order. Every
// account must have a positive stack; the caller seats only funded
// players. The dealer index selects blind positions: the seat after the
// dealer posts the small blind, except heads-up where the dealer is the
// small blind and acts first pre-flop.
func NewDeal(accounts []*Account, dealer, smallBlind int, opts ...DealOption) (*Deal, error) {
	funded := 0
	for _, a := range accounts {
		if a.Chips > 0 {
			funded++
		}
	}
	if len(accounts) < 2 || funded < len(accounts) {
		return nil, ErrNotEnoughPlayers
	}
	if dealer < 0 || dealer >= len(accounts) {
		return nil, fmt.Errorf("dealer seat %d out of range", dealer)
	}
	if smallBlind <= 0 {
		return nil, fmt.Errorf("small blind must be positive, got %d", smallBlind)
	}

	cfg := &dealConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.applyDefaults()

	d := &Deal{
		id:         uuid.NewString(),
		accounts:   accounts,
		pots:       []int{0},
		bet:        2 * smallBlind,
		deck:       cfg.deck,
		dealer:     dealer,
		smallBlind: smallBlind,
		eval:       cfg.eval,
		bus:        cfg.bus,
		logger:     cfg.logger.WithPrefix("deal"),
	}

	d.hands = make([]*Hand, len(accounts))
	for i := range accounts {
		h := &Hand{Seat: i, PotIndex: -1}
		cards := d.deck.DealN(2)
		if len(cards) != 2 {
			return nil, fmt.Errorf("deck exhausted while dealing hole cards")
		}
		h.HoleCards = [2]deck.Card{cards[0], cards[1]}
		d.hands[i] = h
	}

	// Heads-up the dealer posts the small blind; otherwise the seat
	// after the dealer does.
	if len(accounts) == 2 {
		d.turn = dealer
	} else {
		d.turn = (dealer + 1) % len(accounts)
	}

	d.logger.Debug("deal created", "id", d.id, "players", len(accounts), "dealer", dealer, "small_blind", smallBlind)
	d.publish(Event{Kind: EventNewDeal, Seat: -1, NextSeat: -1, Message: d.id})

	return d, nil
}

// Start posts the small and big blinds as forced bets and opens the
// pre-flop betting round.
func (d *Deal) Start() {
	if d.started {
		return
	}
	d.started = true
	d.publish(Event{Kind: EventDealStarted, Seat: -1, NextSeat: d.turn, Amount: 0})

	d.postBlind("posts small blind", d.smallBlind)
	d.postBlind("posts big blind", 2*d.smallBlind)
}

// postBlind commits a forced bet for the seat whose turn it is. Forced
// bets bypass the minimum-bet and minimum-raise checks and do not mark
// the seat as having called, so the big blind keeps its option.
func (d *Deal) postBlind(message string, amount int) {
	seat := d.turn
	reached := d.commit(seat, amount)
	if reached > d.bet {
		d.bet = reached
	}
	next := d.resolveTurn()
	d.emitAction(seat, next, reached, message)
}

// Apply processes one action for the seat whose turn it is. Any result
// other than Success leaves the deal unchanged.
func (d *Deal) Apply(action Action) ActionResult {
	if d.Ended() {
		return DealAlreadyEnded
	}
	if !d.started {
		return DealNotStarted
	}
	if d.roundFinished || d.skipRounds {
		return RoundAlreadyFinished
	}

	switch action.Kind {
	case ActionFold:
		return d.applyFold()
	case ActionCheckCall:
		return d.applyCheckCall()
	case ActionBetRaise:
		return d.applyBetRaise(action.Amount)
	default:
		return InvalidAction
	}
}

func (d *Deal) applyFold() ActionResult {
	seat := d.turn
	d.hands[seat].Folded = true
	d.logger.Debug("fold", "seat", seat)

	if d.countUnfolded() == 1 {
		d.emitAction(seat, -1, d.hands[seat].Bet, "folds")
		d.showdown()
		return Success
	}

	next := d.resolveTurn()
	d.emitAction(seat, next, d.hands[seat].Bet, "folds")
	return Success
}

func (d *Deal) applyCheckCall() ActionResult {
	seat := d.turn
	h := d.hands[seat]

	before := h.Bet
	reached := d.commit(seat, d.bet)
	h.Called = true

	message := "calls"
	if reached == before {
		message = "checks"
	}
	if h.AllIn {
		message = "calls all in"
	}
	d.logger.Debug("check/call", "seat", seat, "committed", reached)

	next := d.resolveTurn()
	d.emitAction(seat, next, reached, message)
	return Success
}

func (d *Deal) applyBetRaise(amount int) ActionResult {
	seat := d.turn
	h := d.hands[seat]
	account := d.accounts[seat]

	// The minimum opening bet is one big blind, checked against the
	// requested amount before any all-in clamping.
	if amount < 2*d.smallBlind {
		return BelowMinBet
	}

	maxTotal := account.Chips + h.Bet
	if amount > maxTotal {
		amount = maxTotal
	}
	allIn := amount == maxTotal

	if amount <= d.bet {
		// An all-in that cannot actually raise: silently a call.
		if !allIn {
			return BelowMinRaise
		}
		reached := d.commit(seat, amount)
		h.Called = true
		next := d.resolveTurn()
		d.emitAction(seat, next, reached, "calls all in")
		return Success
	}

	// A raise must at least double the current bet, unless the raiser
	// is going all-in for less.
	if !allIn && amount < 2*d.bet {
		return BelowMinRaise
	}

	reached := d.commit(seat, amount)
	if reached > d.bet {
		d.bet = reached
	}
	for _, other := range d.hands {
		if other != h && !other.Folded {
			other.Called = false
		}
	}
	h.Called = true
	d.logger.Debug("bet/raise", "seat", seat, "committed", reached, "all_in", h.AllIn)

	message := "raises"
	if h.AllIn {
		message = "raises all in"
	}
	next := d.resolveTurn()
	d.emitAction(seat, next, reached, message)
	return Success
}

// commit moves chips from the seat's stack into the round pot until the
// hand's round commitment reaches target, clamping to an all-in when the
// stack runs out. Returns the commitment actually reached.
func (d *Deal) commit(seat, target int) int {
	h := d.hands[seat]
	account := d.accounts[seat]

	pay := target - h.Bet
	if pay < 0 {
		pay = 0
	}
	if pay >= account.Chips {
		pay = account.Chips
		h.AllIn = true
	}

	account.Chips -= pay
	d.roundPot += pay
	h.Bet += pay
	return h.Bet
}

// resolveTurn finishes the round if every unfolded hand has called or is
// all-in, otherwise advances the turn. Returns the next seat to act, or
// -1 if the round is finished.
func (d *Deal) resolveTurn() int {
	if d.everyoneActed() {
		d.roundFinished = true
		return -1
	}
	d.turn = d.nextTurn(d.turn, 1)
	return d.turn
}

// emitAction publishes the action event, followed by a round-finished
// event when the action closed the round.
func (d *Deal) emitAction(seat, next, amount int, message string) {
	d.publish(Event{Kind: EventPlayerAction, Seat: seat, NextSeat: next, Amount: amount, Message: message})
	if next == -1 && d.roundFinished {
		d.publish(Event{Kind: EventRoundFinished, Seat: -1, NextSeat: -1, Amount: d.roundPot})
	}
}

func (d *Deal) everyoneActed() bool {
	for _, h := range d.hands {
		if !h.Folded && !h.Called && !h.AllIn {
			return false
		}
	}
	return true
}

func (d *Deal) countUnfolded() int {
	n := 0
	for _, h := range d.hands {
		if !h.Folded {
			n++
		}
	}
	return n
}

// nextTurn returns the seat n live positions after from, skipping folded
// and all-in seats. When betting is moot (at most one unfolded hand, or
// every unfolded hand is all-in) it returns from unchanged.
func (d *Deal) nextTurn(from, n int) int {
	live := 0
	for _, h := range d.hands {
		if h.Live() {
			live++
		}
	}
	if live == 0 || d.countUnfolded() <= 1 {
		return from
	}

	seat := from
	for n > 0 {
		seat = (seat + 1) % len(d.hands)
		if d.hands[seat].Live() {
			n--
		}
	}
	return seat
}

// AdvanceRound settles the finished betting round into pots and opens
// the next one: it creates side pots at all-in commitment levels,
// refunds an uncontested pot to its sole claimant, sweeps the residual
// into the open pot, reveals community cards, and re-ranks the live
// hands. At five community cards it resolves the showdown instead.
//
// The engine never advances on its own: the driver calls AdvanceRound
// once RoundFinished reports true, and keeps calling it while
// SkipNextRounds holds and the deal has not ended.
func (d *Deal) AdvanceRound() error {
	if d.Ended() {
		return ErrDealEnded
	}
	if !d.roundFinished && !d.skipRounds {
		return ErrRoundNotFinished
	}

	sidePots := d.collectSidePots()
	d.refundSoleClaimant(sidePots)

	// Residual sweep: whatever is left of the round pot joins the open
	// pot. The round pot must be exactly empty afterwards.
	d.pots[len(d.pots)-1] += d.roundPot
	d.roundPot = 0
	for _, h := range d.hands {
		h.Bet = 0
	}

	d.bet = 0
	d.turn = d.nextTurn(d.dealer, 1)
	d.roundFinished = false

	if len(d.community) == 5 {
		d.showdown()
		return nil
	}

	if len(d.community) == 0 {
		d.community = append(d.community, d.deck.DealN(3)...)
	} else {
		d.community = append(d.community, d.deck.DealN(1)...)
	}

	for _, h := range d.hands {
		h.Called = false
		switch {
		case h.Folded:
			h.LastAction = "folded"
		case h.AllIn:
			h.LastAction = "all in"
		default:
			h.LastAction = ""
		}
		if h.Folded {
			continue
		}
		cards := append(append([]deck.Card{}, d.community...), h.HoleCards[0], h.HoleCards[1])
		h.Rank = d.eval.Rank(cards)
	}

	d.logger.Debug("round advanced", "community", deck.Format(d.community), "pots", fmt.Sprint(d.pots))

	// Betting is moot once at most one hand can still act; the driver
	// keeps advancing straight to showdown.
	liveCount := 0
	for _, h := range d.hands {
		if h.Live() {
			liveCount++
		}
	}
	if liveCount <= 1 {
		d.skipRounds = true
		d.publish(Event{Kind: EventRoundSkipped, Seat: -1, NextSeat: -1, Amount: d.potTotal(), Message: d.street()})
	} else {
		d.publish(Event{Kind: EventNewRound, Seat: -1, NextSeat: d.turn, Amount: d.potTotal(), Message: d.street()})
	}
	return nil
}

// collectSidePots drains the round pot into pots at each all-in
// commitment level, ascending. Hands that went all-in at a level become
// eligible only up to the pot closed at that level; a fresh pot is
// opened above each level. Reports whether any side pot was created.
func (d *Deal) collectSidePots() bool {
	var allIns []*Hand
	for _, h := range d.hands {
		if h.AllIn && h.Bet > 0 {
			allIns = append(allIns, h)
		}
	}
	if len(allIns) == 0 {
		return false
	}
	sort.Slice(allIns, func(i, j int) bool { return allIns[i].Bet < allIns[j].Bet })

	for i := 0; i < len(allIns); {
		level := allIns[i].Bet

		// Every hand still owing chips this round contributes up to the
		// level, folded hands included (their money is dead but stays
		// in the pot).
		for _, h := range d.hands {
			if h.Bet == 0 {
				continue
			}
			c := level
			if h.Bet < c {
				c = h.Bet
			}
			h.Bet -= c
			d.roundPot -= c
			d.pots[len(d.pots)-1] += c
		}

		closed := len(d.pots) - 1
		for ; i < len(allIns) && allIns[i].Bet == 0; i++ {
			allIns[i].PotIndex = closed
		}
		d.pots = append(d.pots, 0)
	}
	return true
}

// refundSoleClaimant returns uncontested money. If after side-pot
// creation exactly one unfolded hand is still eligible for the open pot,
// that hand cannot be called there: with side pots created this round
// the whole remaining round pot goes back to it and the open pot is
// dropped; otherwise only the hand's own uncalled commitment returns.
func (d *Deal) refundSoleClaimant(sidePots bool) {
	var sole *Hand
	claimants := 0
	for _, h := range d.hands {
		if !h.Folded && h.PotIndex == -1 {
			claimants++
			sole = h
		}
	}
	if claimants != 1 {
		return
	}

	account := d.accounts[sole.Seat]
	if sidePots {
		refund := d.roundPot
		account.Chips += refund
		d.roundPot = 0
		for _, h := range d.hands {
			h.Bet = 0
		}
		d.pots = d.pots[:len(d.pots)-1]
		d.logger.Debug("uncontested pot refunded", "seat", sole.Seat, "amount", refund)
	} else if sole.Bet > 0 {
		refund := sole.Bet
		account.Chips += refund
		d.roundPot -= refund
		sole.Bet = 0
		d.logger.Debug("uncalled bet returned", "seat", sole.Seat, "amount", refund)
	}
}

// showdown resolves winners and pays out every pot. Two entry paths:
// early win, when all but one hand has folded, and full showdown at five
// community cards.
func (d *Deal) showdown() {
	if d.countUnfolded() == 1 {
		d.earlyWin()
		return
	}

	// A trailing empty pot is an artifact of side-pot creation.
	if len(d.pots) > 1 && d.pots[len(d.pots)-1] == 0 {
		d.pots = d.pots[:len(d.pots)-1]
	}

	d.winners = make([][]*Hand, len(d.pots))

	// Hands that never went all-in contend for every pot; capped hands
	// join the contention at their pot and stay in for all lower pots.
	var contenders []*Hand
	for _, h := range d.hands {
		if !h.Folded && h.PotIndex == -1 {
			contenders = append(contenders, h)
		}
	}

	total := 0
	for j := len(d.pots) - 1; j >= 0; j-- {
		for _, h := range d.hands {
			if !h.Folded && h.PotIndex == j {
				contenders = append(contenders, h)
			}
		}

		best := contenders[0].Rank
		for _, h := range contenders[1:] {
			if h.Rank > best {
				best = h.Rank
			}
		}
		var potWinners []*Hand
		for _, h := range contenders {
			if h.Rank == best {
				potWinners = append(potWinners, h)
			}
		}
		d.payPot(j, potWinners)
		d.winners[j] = potWinners
		total += d.pots[j]
		d.pots[j] = 0
	}

	d.logger.Debug("showdown resolved", "pots", len(d.winners), "paid", total)
	d.publish(Event{Kind: EventDealEnded, Seat: -1, NextSeat: -1, Amount: total, Message: d.describeWinners()})
}

// payPot splits pot j among the tied winners. The remainder of the
// integer division goes one chip each to winners in clockwise seat
// order starting left of the dealer.
func (d *Deal) payPot(j int, potWinners []*Hand) {
	sort.Slice(potWinners, func(a, b int) bool {
		return d.seatDistance(potWinners[a].Seat) < d.seatDistance(potWinners[b].Seat)
	})

	share := d.pots[j] / len(potWinners)
	remainder := d.pots[j] % len(potWinners)
	for k, w := range potWinners {
		amount := share
		if k < remainder {
			amount++
		}
		d.accounts[w.Seat].Chips += amount
		w.Winnings += amount
		w.PotsWon = append(w.PotsWon, j)
	}
}

// seatDistance is the clockwise distance from the seat left of the
// dealer, used to order odd-chip payouts deterministically.
func (d *Deal) seatDistance(seat int) int {
	return (seat - d.dealer - 1 + len(d.hands)) % len(d.hands)
}

// earlyWin pays everything to the last unfolded hand, including any
// round pot not yet collected. No cards are compared.
func (d *Deal) earlyWin() {
	var winner *Hand
	for _, h := range d.hands {
		if !h.Folded {
			winner = h
			break
		}
	}

	total := d.roundPot
	for _, amount := range d.pots {
		total += amount
	}

	d.accounts[winner.Seat].Chips += total
	winner.Winnings += total

	d.winners = make([][]*Hand, len(d.pots))
	for j := range d.pots {
		winner.PotsWon = append(winner.PotsWon, j)
		d.winners[j] = []*Hand{winner}
		d.pots[j] = 0
	}
	d.roundPot = 0
	for _, h := range d.hands {
		h.Bet = 0
	}

	d.logger.Debug("early win", "seat", winner.Seat, "amount", total)
	d.publish(Event{Kind: EventDealEnded, Seat: winner.Seat, NextSeat: -1, Amount: total, Message: d.accounts[winner.Seat].Name + " wins uncontested"})
}

func (d *Deal) describeWinners() string {
	names := make(map[string]bool)
	out := ""
	for _, potWinners := range d.winners {
		for _, w := range potWinners {
			name := d.accounts[w.Seat].Name
			if names[name] {
				continue
			}
			names[name] = true
			if out != "" {
				out += ", "
			}
			out += name
		}
	}
	return out + " win(s)"
}

func (d *Deal) street() string {
	switch len(d.community) {
	case 3:
		return "flop"
	case 4:
		return "turn"
	case 5:
		return "river"
	default:
		return "pre-flop"
	}
}

func (d *Deal) publish(event Event) {
	d.bus.Publish(event)
}

func (d *Deal) potTotal() int {
	total := d.roundPot
	for _, amount := range d.pots {
		total += amount
	}
	return total
}

// Accessors. The deal is single-threaded; slices returned as copies so
// observers cannot corrupt internal state.

// ID returns the deal's unique identifier.
func (d *Deal) ID() string { return d.id }

// Turn returns the seat whose action is awaited.
func (d *Deal) Turn() int { return d.turn }

// Dealer returns the dealer seat for this deal.
func (d *Deal) Dealer() int { return d.dealer }

// SmallBlind returns the small blind amount; the big blind is twice it.
func (d *Deal) SmallBlind() int { return d.smallBlind }

// CurrentBet returns the commitment a seat must match to call.
func (d *Deal) CurrentBet() int { return d.bet }

// RoundPot returns the chips committed this round but not yet collected
// into a pot.
func (d *Deal) RoundPot() int { return d.roundPot }

// Pots returns a copy of the pot amounts, main pot first.
func (d *Deal) Pots() []int {
	out := make([]int, len(d.pots))
	copy(out, d.pots)
	return out
}

// Community returns a copy of the community cards revealed so far.
func (d *Deal) Community() []deck.Card {
	out := make([]deck.Card, len(d.community))
	copy(out, d.community)
	return out
}

// Hands returns the per-seat hands. Callers must treat them as
// read-only.
func (d *Deal) Hands() []*Hand { return d.hands }

// Accounts returns the seated accounts in deal seat order.
func (d *Deal) Accounts() []*Account { return d.accounts }

// Started reports whether blinds have been posted.
func (d *Deal) Started() bool { return d.started }

// RoundFinished reports whether the current betting round has collected
// every required action.
func (d *Deal) RoundFinished() bool { return d.roundFinished }

// SkipNextRounds reports whether betting is moot for the remaining
// rounds.
func (d *Deal) SkipNextRounds() bool { return d.skipRounds }

// Ended reports whether winners have been decided.
func (d *Deal) Ended() bool { return d.winners != nil }

// Winners returns the winning hands per pot, or nil before showdown.
func (d *Deal) Winners() [][]*Hand { return d.winners }
