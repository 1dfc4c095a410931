package types

import "time"

// EventType discriminates widget lifecycle events.
type EventType string

// Lifecycle event constants. One event is emitted per engine transition;
// progress events fire once per reported tick.
const (
	EventSelect      EventType = "select"
	EventUploadStart EventType = "upload_start"
	EventProgress    EventType = "progress"
	EventSuccess     EventType = "success"
	EventError       EventType = "error"
	EventRemove      EventType = "remove"
	EventRetry       EventType = "retry"
	EventClear       EventType = "clear"
)

// IsTerminal returns true if this event type reports the end of an attempt.
func (e EventType) IsTerminal() bool {
	return e == EventSuccess || e == EventError
}

// Event is the lifecycle notification delivered to integrator sinks.
// Fields carry msgpack tags so the eventlog wire format is stable.
type Event struct {
	// Type is the event discriminator.
	Type EventType `msgpack:"type"`
	// Files are copies of the tracked files the event concerns.
	Files []TrackedFile `msgpack:"files"`
	// Timestamp is the emission time.
	Timestamp time.Time `msgpack:"timestamp"`
	// SessionID identifies the emitting widget session.
	SessionID string `msgpack:"session_id,omitempty"`
	// Seq is the monotonic per-session sequence number, starts at 1.
	Seq int64 `msgpack:"seq"`
}

// EventSink consumes lifecycle events. Implementations must not block the
// engine; expensive consumers should buffer internally.
type EventSink interface {
	Consume(event Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(event Event)

// Consume implements EventSink.
func (f EventSinkFunc) Consume(event Event) { f(event) }
