package engine

// EventKind represents a game event type with type safety
type EventKind string

const (
	EventNewDeal          EventKind = "new_deal"
	EventDealStarted      EventKind = "deal_started"
	EventPlayerAction     EventKind = "player_action"
	EventRoundFinished    EventKind = "round_finished"
	EventNewRound         EventKind = "new_round"
	EventRoundSkipped     EventKind = "round_skipped"
	EventDealEnded        EventKind = "deal_ended"
	EventPlayerJoined     EventKind = "player_joined"
	EventPlayerEliminated EventKind = "player_eliminated"
	EventTableReset       EventKind = "table_reset"
)

// String returns the string representation of the event kind
func (k EventKind) String() string {
	return string(k)
}

// Event is a single game occurrence, delivered to subscribers in
// emission order on the calling goroutine. Seat is the acting seat (-1
// when not seat-specific); NextSeat is the next seat to act (-1 when the
// round is finished or turn order does not apply).
type Event struct {
	Kind     EventKind
	Seat     int
	NextSeat int
	Amount   int
	Message  string
}

// Subscriber receives events from a Bus.
type Subscriber interface {
	OnEvent(event Event)
}

// SubscriberFunc adapts a plain function to the Subscriber interface.
type SubscriberFunc func(Event)

// OnEvent calls the function itself.
func (f SubscriberFunc) OnEvent(event Event) { f(event) }

// Bus manages event publishing and subscription
type Bus interface {
	Subscribe(subscriber Subscriber)
	Unsubscribe(subscriber Subscriber)
	Publish(event Event)
}

// SimpleBus is a basic in-memory event bus implementation
type SimpleBus struct {
	subscribers []Subscriber
}

// NewBus creates a new event bus
func NewBus() Bus {
	return &SimpleBus{
		subscribers: make([]Subscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleBus) Subscribe(subscriber Subscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleBus) Unsubscribe(subscriber Subscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers synchronously, in
// subscription order.
func (bus *SimpleBus) Publish(event Event) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
