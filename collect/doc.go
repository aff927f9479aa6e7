// Package collect gathers the daily SEIR census of running simulations.
//
// A Recorder is the write side: the simulation engine hands it one sample per
// simulated day. The package ships recorders for common setups, from an
// in-memory Series used by tests and plots to a StoreRecorder that appends to
// any core.RunStore, plus a volatile RunStore implementation. Durable stores
// live in the collect/sqlite and collect/postgres subpackages.
package collect
