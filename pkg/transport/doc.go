// Package transport is the HTTP surface of hydrolog.
//
// It routes requests with a Go 1.22+ method-pattern ServeMux, decodes and
// validates request bodies and query parameters into pkg/api types,
// enforces authentication on the resource endpoints, and delegates all
// data access to a storage.Store. Ownership scoping lives in the store;
// the transport layer only translates its sentinel errors into HTTP
// statuses.
//
// # Middleware
//
// Middleware is plain func(http.Handler) http.Handler, composed with
// Chain. Built-ins cover panic recovery, request ID assignment
// (X-Request-ID), structured request logging via log/slog, and Prometheus
// metrics from pkg/observability. The auth middleware from pkg/auth runs
// inside recovery and outside the handlers.
//
// # Pagination
//
// List endpoints respond with the {count, next, previous, results}
// envelope. Page size is fixed; next/previous are absolute-path links that
// reproduce the current filter and sort parameters, or null at the
// boundaries.
package transport
