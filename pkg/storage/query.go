package storage

import (
	"slices"
	"time"
)

// Sort names the column to order by and the direction. An empty Field
// means the store's natural order (ascending id).
type Sort struct {
	Field string
	Desc  bool
}

// Page is a 1-based page request with a fixed size.
type Page struct {
	Number int
	Size   int
}

// Offset returns the row offset of the page's first item.
func (p Page) Offset() int {
	if p.Number <= 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// List is one page of results plus the total match count across all pages.
type List[T any] struct {
	Total int
	Items []T
}

// SystemQuery holds the filter, sort, and page state of a systems list
// request. String filters are case-insensitive substring matches; absent
// (zero or nil) filters impose no constraint; all present constraints are
// conjunctive. Time bounds are inclusive start-of-day instants.
type SystemQuery struct {
	Name          string
	Location      string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Sort          Sort
	Page          Page
}

// MeasurementQuery holds the filter, sort, and page state of a
// measurements list request. Numeric bounds are inclusive.
type MeasurementQuery struct {
	PHMin          *float64
	PHMax          *float64
	TemperatureMin *float64
	TemperatureMax *float64
	TDSMin         *int
	TDSMax         *int
	After          *time.Time
	Before         *time.Time
	Sort           Sort
	Page           Page
}

// Sortable column allow-lists. Sort fields outside these never reach a
// store; the transport layer rejects them with a validation error.
var (
	SystemSortFields      = []string{"id", "name", "location", "created_at"}
	MeasurementSortFields = []string{"id", "timestamp", "ph", "temperature", "tds"}
)

// SortFieldAllowed reports whether field is in the allow-list.
func SortFieldAllowed(allowed []string, field string) bool {
	return slices.Contains(allowed, field)
}
