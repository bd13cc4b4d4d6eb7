package events

import "time"

// Kind is the dotted event-type name an envelope is dispatched on, for
// example "interview.reaction".
type Kind string

// Event is what the session channel hands to its subscriber. Concrete
// events embed Base and add their payload fields.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the kind and receipt time shared by every event. Both are
// stamped once at construction and read-only afterwards.
type Base struct {
	kind      Kind
	timestamp time.Time
}

// NewBase stamps a Base with the given kind and the current time.
func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

// Timestamp reports when the event was constructed, which for inbound
// events is the moment the envelope was decoded.
func (b Base) Timestamp() time.Time {
	return b.timestamp
}
