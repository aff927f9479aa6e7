// Package ensemble runs many replicates of a stochastic simulation in
// parallel.
//
// A single epidemic run is one draw from a distribution of outbreaks; the
// interesting quantities (mean final size, attack rate) come from repeating
// the run under different seeds. The Runner fans replicates out over a
// bounded worker group, gives each one a decorrelated seed derived from a
// base seed, and collects per-replicate outcomes plus an aggregate summary.
// A fixed base seed reproduces the whole ensemble, regardless of the
// parallelism in effect.
package ensemble
