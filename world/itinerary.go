package world

import (
	"sort"
	"strings"
	"time"
)

// Itinerary is the ordered plan of stays for one person. Entries are kept
// sorted by their go-when instant; entries with equal instants keep their
// insertion order.
//
// An itinerary is owned by exactly one person and must not be shared.
type Itinerary struct {
	entries []Entry
}

// NewItinerary returns an empty itinerary.
func NewItinerary() *Itinerary {
	return &Itinerary{}
}

// AddEntry inserts an entry, keeping the sequence sorted by GoWhen. An
// entry added with the same GoWhen as existing ones goes after them.
func (it *Itinerary) AddEntry(e Entry) {
	i := sort.Search(len(it.entries), func(i int) bool {
		return it.entries[i].GoWhen.After(e.GoWhen)
	})
	it.entries = append(it.entries, Entry{})
	copy(it.entries[i+1:], it.entries[i:])
	it.entries[i] = e
}

// Resolve returns the location the itinerary prescribes at the given time,
// or nil when no entry is active and the person should fall back to its
// default location. Entries whose window has passed are popped and, if they
// recur, replaced by their successor before the head is examined again.
func (it *Itinerary) Resolve(at time.Time) *Location {
	for len(it.entries) > 0 {
		head := it.entries[0]
		if head.GoWhen.After(at) {
			return nil
		}
		if at.Before(head.LeaveWhen) {
			return head.Location
		}
		it.entries = it.entries[1:]
		if next, ok := head.reschedule(at); ok {
			it.AddEntry(next)
		}
	}
	return nil
}

// Len returns the number of pending entries.
func (it *Itinerary) Len() int {
	return len(it.entries)
}

// Entries returns a copy of the pending entries in schedule order.
func (it *Itinerary) Entries() []Entry {
	out := make([]Entry, len(it.entries))
	copy(out, it.entries)
	return out
}

// String implements the fmt.Stringer interface.
func (it *Itinerary) String() string {
	if len(it.entries) == 0 {
		return "empty itinerary"
	}
	var b strings.Builder
	b.WriteString("itinerary:")
	for _, e := range it.entries {
		b.WriteString("\n  ")
		b.WriteString(e.String())
	}
	return b.String()
}
