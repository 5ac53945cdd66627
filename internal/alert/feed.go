package alert

import (
	"strconv"

	"github.com/sysdash/sysdash/internal/telemetry"
)

// DefaultMaxRetained is the feed bound used when none is configured.
const DefaultMaxRetained = 50

// Feed is the bounded alert list, newest first. It is owned by the dashboard
// model and is not safe for concurrent use.
type Feed struct {
	items  []telemetry.AlertEvent
	max    int
	dedupe bool
	nextID int
}

// NewFeed creates a feed holding at most limit alerts. With dedupe on, an alert
// equal in severity, title and message to one already shown is dropped.
func NewFeed(limit int, dedupe bool) *Feed {
	if limit <= 0 {
		limit = DefaultMaxRetained
	}
	return &Feed{max: limit, dedupe: dedupe}
}

// Push prepends each alert in order, so the last one given ends up on top.
// It returns the alerts actually added, with their assigned IDs.
func (f *Feed) Push(alerts ...telemetry.AlertEvent) []telemetry.AlertEvent {
	added := make([]telemetry.AlertEvent, 0, len(alerts))
	for _, a := range alerts {
		if f.dedupe && f.contains(a) {
			continue
		}
		f.nextID++
		a.ID = "alert-" + strconv.Itoa(f.nextID)
		f.items = append([]telemetry.AlertEvent{a}, f.items...)
		added = append(added, a)
	}
	if len(f.items) > f.max {
		f.items = f.items[:f.max]
	}
	return added
}

// Dismiss removes the alert with the given ID. It reports whether one was
// found.
func (f *Feed) Dismiss(id string) bool {
	for i, a := range f.items {
		if a.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a copy of the feed, newest first.
func (f *Feed) Items() []telemetry.AlertEvent {
	out := make([]telemetry.AlertEvent, len(f.items))
	copy(out, f.items)
	return out
}

// Len returns the number of alerts in the feed.
func (f *Feed) Len() int {
	return len(f.items)
}

// Max returns the retention bound.
func (f *Feed) Max() int {
	return f.max
}

func (f *Feed) contains(a telemetry.AlertEvent) bool {
	for _, e := range f.items {
		if e.Severity == a.Severity && e.Title == a.Title && e.Message == a.Message {
			return true
		}
	}
	return false
}
