package game

import (
	"sync"
	"time"

	"github.com/lox/holdem-table/internal/deck"
	"github.com/lox/holdem-table/internal/evaluator"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeStateChanged   EventType = "state_changed"
	EventTypePlayerJoined   EventType = "player_joined"
	EventTypePlayerLeft     EventType = "player_left"
	EventTypeHandDealt      EventType = "hand_dealt"
	EventTypeStreetRevealed EventType = "street_revealed"
	EventTypeTurnToAct      EventType = "turn_to_act"
	EventTypePlayerActed    EventType = "player_acted"
	EventTypeIdleWarning    EventType = "idle_warning"
	EventTypeShowdownOdds   EventType = "showdown_odds"
	EventTypeRoundResults   EventType = "round_results"
	EventTypeStackReport    EventType = "stack_report"
	EventTypeRoundAborted   EventType = "round_aborted"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is anything the engine reports to its host.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

type stamp struct {
	at time.Time
}

func (s stamp) Timestamp() time.Time { return s.at }

// StateChangedEvent is published on every state machine transition. The
// sequence of these events is the round's trace.
type StateChangedEvent struct {
	stamp
	From, To State
	Street   Street
}

func (StateChangedEvent) EventType() EventType { return EventTypeStateChanged }

// PlayerJoinedEvent is published when a player takes a seat or joins the
// waitlist.
type PlayerJoinedEvent struct {
	stamp
	Player     string
	Cash       int
	Waitlisted bool
}

func (PlayerJoinedEvent) EventType() EventType { return EventTypePlayerJoined }

// PlayerLeftEvent is published when a player is removed from the table.
type PlayerLeftEvent struct {
	stamp
	Player string
	Reason string
}

func (PlayerLeftEvent) EventType() EventType { return EventTypePlayerLeft }

// HandDealtEvent carries a player's hole cards. Hosts must deliver it to
// that player only.
type HandDealtEvent struct {
	stamp
	Player string
	Hole   []deck.Card
}

func (HandDealtEvent) EventType() EventType { return EventTypeHandDealt }

// StreetRevealedEvent is published when community cards are dealt.
type StreetRevealedEvent struct {
	stamp
	Street    Street
	Community []deck.Card
	Pot       int
}

func (StreetRevealedEvent) EventType() EventType { return EventTypeStreetRevealed }

// TurnToActEvent announces the acting player and their legal bounds.
type TurnToActEvent struct {
	stamp
	Player string
	Street Street
	Limits Limits
	Pot    int
}

func (TurnToActEvent) EventType() EventType { return EventTypeTurnToAct }

// PlayerActedEvent is published for every accepted action, including blinds
// and actions taken on a player's behalf after an idle timeout.
type PlayerActedEvent struct {
	stamp
	Result Result
	Blind  bool
	Pot    int
}

func (PlayerActedEvent) EventType() EventType { return EventTypePlayerActed }

// IdleWarningEvent warns the acting player before they are timed out.
type IdleWarningEvent struct {
	stamp
	Player    string
	Remaining time.Duration
}

func (IdleWarningEvent) EventType() EventType { return EventTypeIdleWarning }

// ShowdownOddsEvent reports live equity while community cards are revealed
// with no further betting possible.
type ShowdownOddsEvent struct {
	stamp
	Street    Street
	Community []deck.Card
	Odds      []evaluator.Odds
	SplitPct  int
}

func (ShowdownOddsEvent) EventType() EventType { return EventTypeShowdownOdds }

// ShownHand is a live player's hand at showdown.
type ShownHand struct {
	Player string
	Hole   []deck.Card
	Hand   evaluator.Hand
}

// RoundResultsEvent reports how the pots were awarded.
type RoundResultsEvent struct {
	stamp
	RoundID   string
	Community []deck.Card
	// Hands is empty when the round was won uncontested, otherwise it is
	// ordered best first.
	Hands   []ShownHand
	Pots    []Pot
	Payouts map[string]int
}

func (RoundResultsEvent) EventType() EventType { return EventTypeRoundResults }

// StackEntry is one line of a StackReportEvent.
type StackEntry struct {
	Player string
	Cash   int
	Bank   int
	Change int
}

// StackReportEvent lists every seated player's stack at round end, largest
// first.
type StackReportEvent struct {
	stamp
	RoundID string
	Stacks  []StackEntry
}

func (StackReportEvent) EventType() EventType { return EventTypeStackReport }

// RoundAbortedEvent is published when a round is force-ended or fails. All
// stacks have been restored to their values at the start of the round.
type RoundAbortedEvent struct {
	stamp
	RoundID string
	Reason  string
}

func (RoundAbortedEvent) EventType() EventType { return EventTypeRoundAborted }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event Event)
}

// SubscriberFunc adapts a function to EventSubscriber.
type SubscriberFunc func(Event)

func (f SubscriberFunc) OnEvent(event Event) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event Event)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber. Function subscribers cannot be compared
// and must be wrapped in a pointer type to be removed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers synchronously, in subscription
// order.
func (bus *SimpleEventBus) Publish(event Event) {
	bus.mu.RLock()
	subs := append([]EventSubscriber(nil), bus.subscribers...)
	bus.mu.RUnlock()

	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}
