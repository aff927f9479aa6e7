// Package seir implements the four-compartment infection state machine:
// Susceptible -> Exposed -> Infected -> Recovered.
//
// The machine is deliberately free of randomness. Exposure (the only
// stochastic event in the simulation) is decided by the location transmission
// model, which calls Infect with the exposure time; everything after that is
// a fixed timeline derived from the incubation and recovering durations, so a
// person's disease progression is fully reproducible given the exposure
// instant.
package seir
