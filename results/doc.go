// Package results stores exported run outputs.
//
// A result is an opaque payload produced from a finished run, typically the
// rendered CSV sample series or a JSON summary, keyed by run id and a name.
// The in-memory store covers tests and single-process experiments; the s3
// subpackage provides a durable store for sharing outputs between machines.
package results
