// Package parse turns the raw text or wire output of an external
// discovery tool into Observations. Every parser here is pure: it
// consumes bytes and returns records, performing no I/O of its own. The
// Source Drivers in pkg/discovery/scanners own the I/O and hand the
// resulting bytes to these parsers.
package parse
