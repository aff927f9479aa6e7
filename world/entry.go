package world

import (
	"fmt"
	"time"
)

// RecurrenceKind tells how an itinerary entry produces its successor once
// it has expired.
type RecurrenceKind int

const (
	// RecurOnce marks an entry that is dropped after it expires.
	RecurOnce RecurrenceKind = iota
	// RecurDaily marks an entry that repeats 24 hours later.
	RecurDaily
	// RecurWeekly marks an entry that repeats on fixed weekdays.
	RecurWeekly
	// RecurCustom marks an entry whose successor is computed by a
	// caller-supplied rule.
	RecurCustom
)

// String implements the fmt.Stringer interface.
func (k RecurrenceKind) String() string {
	switch k {
	case RecurOnce:
		return "once"
	case RecurDaily:
		return "daily"
	case RecurWeekly:
		return "weekly"
	case RecurCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// RescheduleFunc computes the successor of an expired custom-rule entry.
// It receives the expired entry and the current simulation time and returns
// the replacement together with true, or false when the entry should not
// recur anymore.
type RescheduleFunc func(expired Entry, now time.Time) (Entry, bool)

// DayWindow gives the arrive and depart times of one day as offsets from
// midnight, for example 8h and 16h for an ordinary work day.
type DayWindow struct {
	Arrive time.Duration
	Depart time.Duration
}

// WeekSchedule holds an optional attendance window per weekday. Index 0 is
// Monday and index 6 is Sunday; a nil element means the location is not
// visited on that day.
type WeekSchedule [7]*DayWindow

// firstActiveDay returns the midnight of the first day at or after from
// that has an attendance window. The second return value is false when the
// schedule is empty.
func (w WeekSchedule) firstActiveDay(from time.Time) (time.Time, bool) {
	day := midnight(from)
	for i := 0; i < 7; i++ {
		if w[mondayIndex(day)] != nil {
			return day, true
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

// mondayIndex converts the time package's Sunday-based weekday to the
// Monday-based indexing used by WeekSchedule.
func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// midnight truncates t to the start of its calendar day.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Entry is one stay in an itinerary: go to Location at GoWhen and stay
// until, but not including, LeaveWhen. Entries are plain values; rescheduling
// never mutates an expired entry, it produces a fresh successor.
type Entry struct {
	Location  *Location
	GoWhen    time.Time
	LeaveWhen time.Time

	recur RecurrenceKind
	week  WeekSchedule
	rule  RescheduleFunc
}

// Kind returns how the entry recurs.
func (e Entry) Kind() RecurrenceKind {
	return e.recur
}

// Rule returns the reschedule rule of a custom entry, nil for the other
// kinds. Successor entries built inside a rule use it to carry the rule
// forward.
func (e Entry) Rule() RescheduleFunc {
	return e.rule
}

// String implements the fmt.Stringer interface.
func (e Entry) String() string {
	name := "<nil>"
	if e.Location != nil {
		name = e.Location.Name()
	}
	return fmt.Sprintf("%s entry at %s from %s to %s", e.recur, name, e.GoWhen.Format(time.RFC3339), e.LeaveWhen.Format(time.RFC3339))
}

// NewEntry returns a one-shot entry for the half-open window
// [goWhen, leaveWhen).
func NewEntry(loc *Location, goWhen, leaveWhen time.Time) (Entry, error) {
	if !goWhen.Before(leaveWhen) {
		return Entry{}, fmt.Errorf("entry at %s: %w", goWhen.Format(time.RFC3339), ErrInvalidWindow)
	}
	return Entry{Location: loc, GoWhen: goWhen, LeaveWhen: leaveWhen, recur: RecurOnce}, nil
}

// NewDailyEntry returns an entry that repeats exactly 24 hours after it
// expires, keeping the same time of day.
func NewDailyEntry(loc *Location, goWhen, leaveWhen time.Time) (Entry, error) {
	e, err := NewEntry(loc, goWhen, leaveWhen)
	if err != nil {
		return Entry{}, err
	}
	e.recur = RecurDaily
	return e, nil
}

// NewWeeklyEntry returns an entry that recurs on the weekdays given by the
// schedule. The first occurrence is placed on the first scheduled day at or
// after start, without checking whether that instant is already in the past;
// resolution will fast-forward a stale entry to its next occurrence.
func NewWeeklyEntry(loc *Location, start time.Time, week WeekSchedule) (Entry, error) {
	for _, w := range week {
		if w != nil && w.Arrive >= w.Depart {
			return Entry{}, fmt.Errorf("weekly entry: %w", ErrInvalidWindow)
		}
	}
	day, ok := week.firstActiveDay(start)
	if !ok {
		return Entry{}, fmt.Errorf("weekly entry: %w", ErrEmptyWeek)
	}
	w := week[mondayIndex(day)]
	return Entry{
		Location:  loc,
		GoWhen:    day.Add(w.Arrive),
		LeaveWhen: day.Add(w.Depart),
		recur:     RecurWeekly,
		week:      week,
	}, nil
}

// NewCustomEntry returns an entry whose successor is produced by rule. A
// nil rule makes the entry behave like a one-shot.
func NewCustomEntry(loc *Location, goWhen, leaveWhen time.Time, rule RescheduleFunc) (Entry, error) {
	e, err := NewEntry(loc, goWhen, leaveWhen)
	if err != nil {
		return Entry{}, err
	}
	e.recur = RecurCustom
	e.rule = rule
	return e, nil
}

// reschedule computes the successor of an expired entry. The second return
// value is false when the entry does not recur.
func (e Entry) reschedule(now time.Time) (Entry, bool) {
	switch e.recur {
	case RecurDaily:
		next := e
		next.GoWhen = e.GoWhen.Add(24 * time.Hour)
		next.LeaveWhen = e.LeaveWhen.Add(24 * time.Hour)
		return next, true
	case RecurWeekly:
		return e.rescheduleWeekly(now), true
	case RecurCustom:
		if e.rule == nil {
			return Entry{}, false
		}
		return e.rule(e, now)
	default:
		return Entry{}, false
	}
}

// rescheduleWeekly places the entry on the next scheduled day. Today counts
// unless today's arrival time has already passed.
func (e Entry) rescheduleWeekly(now time.Time) Entry {
	day, _ := e.week.firstActiveDay(now)
	if day.Add(e.week[mondayIndex(day)].Arrive).Before(now) {
		day, _ = e.week.firstActiveDay(midnight(now).AddDate(0, 0, 1))
	}
	w := e.week[mondayIndex(day)]
	next := e
	next.GoWhen = day.Add(w.Arrive)
	next.LeaveWhen = day.Add(w.Depart)
	return next
}
