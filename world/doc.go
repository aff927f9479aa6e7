// Package world contains the concrete simulated entities: persons who carry
// an infection state and follow an itinerary, and locations that aggregate
// co-present persons and apply the stochastic transmission model once per
// tick.
//
// Both Person and Location implement core.Agent. During the evaluation phase
// a location draws new exposures from the crowd registered at the start of
// the tick and a person advances its disease timeline; during the movement
// phase a person resolves its itinerary and relocates. Locations do not move,
// so their Advance is a no-op.
//
// The itinerary subsystem lives here too: an ordered sequence of entries
// (one-shot, daily, fixed-weekly or custom-rule recurring) that answers
// "where should this person be right now" for any step-aligned instant.
package world
