package game

import "time"

// EventType identifies a game event with type safety.
type EventType string

const (
	EventTypeRoll         EventType = "roll"
	EventTypeFrameScored  EventType = "frame_scored"
	EventTypeGameComplete EventType = "game_complete"
)

// String returns the string representation of the event type.
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a bowling game.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// RollEvent is published when a roll has been recorded.
type RollEvent struct {
	FrameIndex int
	Pins       int
	RollNumber int // 1 or 2 within the frame slot
	timestamp  time.Time
}

func (e RollEvent) EventType() EventType { return EventTypeRoll }
func (e RollEvent) Timestamp() time.Time { return e.timestamp }

// NewRollEvent creates a new roll event.
func NewRollEvent(frameIndex, pins, rollNumber int) RollEvent {
	return RollEvent{
		FrameIndex: frameIndex,
		Pins:       pins,
		RollNumber: rollNumber,
		timestamp:  time.Now(),
	}
}

// FrameScoredEvent is published when a frame's cumulative score is
// finalised, i.e. its last owed bonus roll has been credited.
type FrameScoredEvent struct {
	FrameIndex int
	RoundScore int
	TotalScore int
	timestamp  time.Time
}

func (e FrameScoredEvent) EventType() EventType { return EventTypeFrameScored }
func (e FrameScoredEvent) Timestamp() time.Time { return e.timestamp }

// NewFrameScoredEvent creates a new frame scored event.
func NewFrameScoredEvent(frameIndex, roundScore, totalScore int) FrameScoredEvent {
	return FrameScoredEvent{
		FrameIndex: frameIndex,
		RoundScore: roundScore,
		TotalScore: totalScore,
		timestamp:  time.Now(),
	}
}

// GameCompleteEvent is published when the final roll of the game lands.
type GameCompleteEvent struct {
	Total     int
	timestamp time.Time
}

func (e GameCompleteEvent) EventType() EventType { return EventTypeGameComplete }
func (e GameCompleteEvent) Timestamp() time.Time { return e.timestamp }

// NewGameCompleteEvent creates a new game complete event.
func NewGameCompleteEvent(total int) GameCompleteEvent {
	return GameCompleteEvent{Total: total, timestamp: time.Now()}
}

// EventSubscriber can subscribe to game events.
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription.
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation. Delivery
// is synchronous and in subscription order.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus.
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events.
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers.
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
