// Package engine drives epidemic simulations tick by tick.
//
// A Model owns the simulation clock, the random source, and the population of
// agents. Each tick advances the clock by one fixed step and activates every
// agent through a two-phase scheduler: first every agent observes the world
// as it was at the start of the tick, then every agent commits its move. The
// ordering makes a tick independent of agent registration order effects that
// plague one-phase schedulers.
//
// Once per simulated day the model takes a census of the population by SEIR
// compartment and hands it to the configured recorder, before any agent acts
// on the new day.
package engine
