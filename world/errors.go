package world

import "errors"

var (
	// ErrHomeUnavailable is returned when a person cannot enter its home
	// location at construction time.
	ErrHomeUnavailable = errors.New("home location is not available initially")

	// ErrEmptyWeek is returned when a weekly schedule defines no come and
	// go hours on any day.
	ErrEmptyWeek = errors.New("no come and go hours were defined")

	// ErrInvalidWindow is returned when an itinerary entry would leave a
	// location at or before the time it arrives.
	ErrInvalidWindow = errors.New("itinerary entry must arrive before it leaves")
)
