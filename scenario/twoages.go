package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/kdhansen/epidexus/collect"
	"github.com/kdhansen/epidexus/engine"
	"github.com/kdhansen/epidexus/logging"
	"github.com/kdhansen/epidexus/metrics"
	"github.com/kdhansen/epidexus/world"
	"github.com/kdhansen/epidexus/worldgen"
)

// Ages assigned to the two cohorts.
const (
	youngAge = 30
	oldAge   = 80
)

// TwoAgesConfig sizes the two cohorts and their infection pressure.
type TwoAgesConfig struct {
	NumYoung      int
	NumOld        int
	RateYoung     float64
	RateOld       float64
	InfectedYoung int
	InfectedOld   int

	// MeetingDuration is how long the daily visit of the young at the old
	// home lasts before restrictions. Defaults to three hours.
	MeetingDuration time.Duration
}

// TwoAgesOptions configures the TwoAges scenario.
type TwoAgesOptions struct {
	// StepDuration is the simulation tick. Defaults to one hour.
	StepDuration time.Duration

	// Seed selects the random stream. Seed 0 picks the fixed default.
	Seed int64

	// Recorder receives the daily census. May be nil.
	Recorder collect.Recorder

	// Metrics receives instrumentation. May be nil.
	Metrics *metrics.Metrics

	// Logger receives lifecycle traces. Defaults to logging.NoOpLogger.
	Logger logging.Logger
}

// TwoAges couples two age cohorts: a young household and an old household,
// where every young person pays a daily visit to the old home. Three
// restriction knobs throttle the within-household infection rates and the
// visit duration, so policies protecting the old cohort can be studied.
type TwoAges struct {
	model *engine.Model

	youngPeople []*world.Person
	oldPeople   []*world.Person
	youngHome   *world.Location
	oldHome     *world.Location

	initialRateYoung float64
	initialRateOld   float64
	initialDuration  time.Duration

	restrictionYoung float64
	restrictionOld   float64
	restrictionVisit float64
}

// NewTwoAges builds the scenario from the given cohort configuration.
func NewTwoAges(cfg TwoAgesConfig, start time.Time, optFns ...func(o *TwoAgesOptions)) (*TwoAges, error) {
	opts := TwoAgesOptions{
		StepDuration: time.Hour,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if cfg.MeetingDuration <= 0 {
		cfg.MeetingDuration = 3 * time.Hour
	}

	m := engine.New(start, func(o *engine.Options) {
		o.StepDuration = opts.StepDuration
		o.Seed = opts.Seed
		o.Scenario = "twoages"
		o.Recorder = opts.Recorder
		o.Metrics = opts.Metrics
		o.Logger = opts.Logger
	})

	s := &TwoAges{
		model:            m,
		initialRateYoung: cfg.RateYoung,
		initialRateOld:   cfg.RateOld,
		initialDuration:  cfg.MeetingDuration,
	}

	var err error
	s.oldPeople, s.oldHome, err = worldgen.CreateFamily(m, cfg.NumOld, func(o *worldgen.FamilyOptions) {
		o.Transmission = world.Rate(cfg.RateOld)
	})
	if err != nil {
		return nil, fmt.Errorf("two ages scenario, old cohort: %w", err)
	}
	for _, p := range s.oldPeople {
		p.SetAge(oldAge)
	}
	for i := 0; i < cfg.InfectedOld && i < len(s.oldPeople); i++ {
		s.oldPeople[i].Infect()
	}

	s.youngPeople, s.youngHome, err = worldgen.CreateFamily(m, cfg.NumYoung, func(o *worldgen.FamilyOptions) {
		o.Transmission = world.Rate(cfg.RateYoung)
	})
	if err != nil {
		return nil, fmt.Errorf("two ages scenario, young cohort: %w", err)
	}
	for _, p := range s.youngPeople {
		p.SetAge(youngAge)
		entry, err := s.visitEntry(start)
		if err != nil {
			return nil, fmt.Errorf("two ages scenario: %w", err)
		}
		p.Itinerary().AddEntry(entry)
	}
	for i := 0; i < cfg.InfectedYoung && i < len(s.youngPeople); i++ {
		s.youngPeople[i].Infect()
	}

	return s, nil
}

// visitEntry builds one daily visit to the old home starting at goWhen.
// Each person gets its own entry value; a shared entry would let one
// person's reschedule shift everybody's visit. The custom rule re-reads the
// visit restriction on every reschedule, so a tightened restriction takes
// effect from the next day's visit.
func (s *TwoAges) visitEntry(goWhen time.Time) (world.Entry, error) {
	return world.NewCustomEntry(s.oldHome, goWhen, goWhen.Add(s.visitDuration()), func(expired world.Entry, now time.Time) (world.Entry, bool) {
		goWhen := expired.GoWhen.Add(24 * time.Hour)
		d := s.visitDuration()
		if d <= 0 {
			// A full visit restriction skips the day entirely but keeps
			// the entry alive for when the restriction is lifted.
			d = time.Nanosecond
		}
		next, err := world.NewCustomEntry(expired.Location, goWhen, goWhen.Add(d), expired.Rule())
		if err != nil {
			return world.Entry{}, false
		}
		return next, true
	})
}

// visitDuration is the configured meeting duration under the current visit
// restriction.
func (s *TwoAges) visitDuration() time.Duration {
	return time.Duration(float64(s.initialDuration) * (1 - s.restrictionVisit))
}

// Model returns the underlying simulation model.
func (s *TwoAges) Model() *engine.Model { return s.model }

// YoungPeople returns the young cohort.
func (s *TwoAges) YoungPeople() []*world.Person { return s.youngPeople }

// OldPeople returns the old cohort.
func (s *TwoAges) OldPeople() []*world.Person { return s.oldPeople }

// YoungHome returns the young cohort's home.
func (s *TwoAges) YoungHome() *world.Location { return s.youngHome }

// OldHome returns the old cohort's home.
func (s *TwoAges) OldHome() *world.Location { return s.oldHome }

// SetYoungRestriction scales the young home's infection rate to
// initial*(1-u).
func (s *TwoAges) SetYoungRestriction(u float64) {
	s.restrictionYoung = u
	s.youngHome.SetTransmission(world.Rate(s.initialRateYoung * (1 - u)))
}

// SetOldRestriction scales the old home's infection rate to initial*(1-u).
func (s *TwoAges) SetOldRestriction(u float64) {
	s.restrictionOld = u
	s.oldHome.SetTransmission(world.Rate(s.initialRateOld * (1 - u)))
}

// SetVisitRestriction scales the daily visit duration to initial*(1-u),
// effective from each person's next rescheduled visit.
func (s *TwoAges) SetVisitRestriction(u float64) {
	s.restrictionVisit = u
}

// YoungRestriction returns the current young-home restriction.
func (s *TwoAges) YoungRestriction() float64 { return s.restrictionYoung }

// OldRestriction returns the current old-home restriction.
func (s *TwoAges) OldRestriction() float64 { return s.restrictionOld }

// VisitRestriction returns the current visit restriction.
func (s *TwoAges) VisitRestriction() float64 { return s.restrictionVisit }

// Simulate advances the scenario by the given simulated interval.
func (s *TwoAges) Simulate(ctx context.Context, interval time.Duration) error {
	return s.model.Run(ctx, interval)
}
