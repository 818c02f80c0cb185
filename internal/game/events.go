package game

import (
	"time"

	"github.com/coder/quartz"
	"github.com/lox/blackjacktrainer/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeRoundStarted      EventType = "round_started"
	EventTypeCardDealt         EventType = "card_dealt"
	EventTypeInsuranceResolved EventType = "insurance_resolved"
	EventTypeHandResolved      EventType = "hand_resolved"
	EventTypeRoundSettled      EventType = "round_settled"
	EventTypeShoeShuffled      EventType = "shoe_shuffled"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is any domain event published during a round. The engine publishes
// synchronously and never blocks on subscribers; UI layers subscribe here
// instead of observing engine internals.
type Event interface {
	EventType() EventType
}

// TimestampedEvent wraps an Event with the publication time
type TimestampedEvent struct {
	Event
	Time time.Time
}

// RoundStartedEvent is published when bets are accepted and dealing begins
type RoundStartedEvent struct {
	SessionID string
	HandCount int
	Wagered   float64
}

func (e RoundStartedEvent) EventType() EventType { return EventTypeRoundStarted }

// CardDealtEvent is published for every face-up card leaving the shoe
type CardDealtEvent struct {
	Card     deck.Card
	PlayerID string
	Dealer   bool
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }

// InsuranceResolvedEvent is published when the dealer's hole card is checked
type InsuranceResolvedEvent struct {
	DealerBlackjack bool
}

func (e InsuranceResolvedEvent) EventType() EventType { return EventTypeInsuranceResolved }

// HandResolvedEvent is published when a hand leaves the active state
type HandResolvedEvent struct {
	HandIndex int
	State     HandState
}

func (e HandResolvedEvent) EventType() EventType { return EventTypeHandResolved }

// RoundSettledEvent is published with the per-hand settlement results
type RoundSettledEvent struct {
	Results []SettlementResult
}

func (e RoundSettledEvent) EventType() EventType { return EventTypeRoundSettled }

// ShoeShuffledEvent is published when the cut card forces a reshuffle.
// Counters listening to the card stream reset here.
type ShoeShuffledEvent struct {
	DeckCount int
}

func (e ShoeShuffledEvent) EventType() EventType { return EventTypeShoeShuffled }

// Subscriber receives published events
type Subscriber interface {
	HandleEvent(TimestampedEvent)
}

// SubscriberFunc adapts a function to the Subscriber interface
type SubscriberFunc func(TimestampedEvent)

// HandleEvent calls the function
func (f SubscriberFunc) HandleEvent(e TimestampedEvent) { f(e) }

// EventBus fans events out to subscribers in subscription order. It is
// synchronous and single-threaded like the rest of the engine.
type EventBus struct {
	subscribers []Subscriber
	clock       quartz.Clock
}

// NewEventBus creates an event bus stamping events with the given clock
func NewEventBus(clock quartz.Clock) *EventBus {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &EventBus{clock: clock}
}

// Subscribe registers a subscriber for all future events
func (b *EventBus) Subscribe(s Subscriber) {
	b.subscribers = append(b.subscribers, s)
}

func (b *EventBus) publish(e Event) {
	if b == nil {
		return
	}
	te := TimestampedEvent{Event: e, Time: b.clock.Now()}
	for _, s := range b.subscribers {
		s.HandleEvent(te)
	}
}
