package pipeline

import (
	"fmt"
	"time"
)

// Event is one timestamped entry in the operator log.
type Event struct {
	At      time.Time
	Message string
}

// EventLog keeps the most recent entries of a run for the operator. Appends
// happen only from the orchestrator's single sequential flow, so there is no
// locking.
type EventLog struct {
	max    int
	events []Event
}

func NewEventLog(max int) *EventLog {
	if max <= 0 {
		max = 1
	}
	return &EventLog{max: max}
}

// Appendf records a formatted entry, evicting the oldest once full.
func (l *EventLog) Appendf(format string, args ...any) {
	l.events = append(l.events, Event{At: time.Now(), Message: fmt.Sprintf(format, args...)})
	if len(l.events) > l.max {
		l.events = l.events[len(l.events)-l.max:]
	}
}

// Events returns a copy, oldest first.
func (l *EventLog) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}
