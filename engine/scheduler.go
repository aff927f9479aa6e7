package engine

import "github.com/kdhansen/epidexus/core"

// Scheduler activates agents simultaneously: one tick runs the Step phase of
// every agent to completion before any agent runs its Advance phase. Within a
// phase, agents run in registration order, which keeps a seeded simulation
// fully reproducible.
//
// Scheduler is not safe for concurrent use; the owning model drives it from a
// single goroutine.
type Scheduler struct {
	agents []core.Agent
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Add registers an agent for activation. Agents cannot be removed; a
// population only grows.
func (s *Scheduler) Add(a core.Agent) {
	s.agents = append(s.agents, a)
}

// Len returns the number of registered agents.
func (s *Scheduler) Len() int {
	return len(s.agents)
}

// Tick runs one simultaneous activation of all registered agents.
func (s *Scheduler) Tick() {
	for _, a := range s.agents {
		a.Step()
	}
	for _, a := range s.agents {
		a.Advance()
	}
}
