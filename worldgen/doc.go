// Package worldgen builds populations for epidemic simulations.
//
// The factories create families: a shared home location plus the persons
// living there, registered with a model in one call. CreateFamily builds a
// family of a fixed size, CreateFamilyDist draws family composition and ages
// from normal distributions using the model's random source, and ClaimByAge
// hands itinerary entries to people in an age bracket, the way a school or a
// workplace claims its attendees from the population.
package worldgen
