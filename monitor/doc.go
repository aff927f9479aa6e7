// Package monitor exposes recorded simulation runs over HTTP.
//
// The server is an operational side car for long ensembles: it lists run
// records, serves a run's daily SEIR series as JSON or CSV, and publishes
// Prometheus metrics. It only reads from a RunStore, so it can watch a
// store that simulations are still writing into.
package monitor
