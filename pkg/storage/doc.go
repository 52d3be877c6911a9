// Package storage defines the store contracts for users, systems, and
// measurements, plus the filter, sort, and pagination types shared by the
// adapter implementations.
//
// Adapters live in storage/memory and storage/postgres. Every system and
// measurement operation takes the requesting owner's id and scopes its
// query to it; a row owned by someone else is indistinguishable from a row
// that does not exist. The owner id is an explicit parameter, never
// ambient state, and is re-evaluated on every call.
package storage
