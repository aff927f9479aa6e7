// Package core provides the foundational domain types and contracts used by
// epidexus. It defines the core abstractions for:
//
//   - Agents (units of simulated behavior driven by the two-phase scheduler)
//   - Clock (the shared simulation time source with a fixed step)
//   - Deterministic random number generation and seed derivation
//   - Runs and SEIR samples (the units of collected output)
//   - Pluggable stores for run series and exported result payloads
//
// The package intentionally keeps implementation concerns (persistence,
// scheduling, concrete agents) out of scope, exposing small interfaces so
// backends can be swapped without touching simulation code.
package core
