// Package api defines the wire-level types for the hydrolog service.
//
// This package provides the data types exchanged over the HTTP surface:
// users, hydroponic systems, measurements, the request/response bodies of
// every endpoint, paginated list envelopes, the structured error taxonomy,
// and request validation.
//
// The package has zero external dependencies (Go standard library only) and
// performs no I/O. Every type serializes through an explicit field list;
// nothing is derived reflectively from storage rows, so adding a column
// never leaks it onto the wire.
package api
