package transport

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/hydrolog/hydrolog/pkg/api"
	"github.com/hydrolog/hydrolog/pkg/storage"
)

// dateLayout is the only accepted format for date filter parameters.
const dateLayout = "2006-01-02"

// parseSystemQuery builds a SystemQuery from the request query string.
// Malformed parameters fail the whole request, never silently skip.
func parseSystemQuery(values url.Values) (storage.SystemQuery, *api.APIError) {
	q := storage.SystemQuery{
		Name:     values.Get("name"),
		Location: values.Get("location"),
	}

	var apiErr *api.APIError
	if q.CreatedAfter, apiErr = parseDate(values, "created_after"); apiErr != nil {
		return q, apiErr
	}
	if q.CreatedBefore, apiErr = parseDate(values, "created_before"); apiErr != nil {
		return q, apiErr
	}
	if q.Sort, apiErr = parseSort(values, storage.SystemSortFields); apiErr != nil {
		return q, apiErr
	}
	if q.Page, apiErr = parsePage(values); apiErr != nil {
		return q, apiErr
	}
	return q, nil
}

// parseMeasurementQuery builds a MeasurementQuery from the request query
// string.
func parseMeasurementQuery(values url.Values) (storage.MeasurementQuery, *api.APIError) {
	var q storage.MeasurementQuery

	var apiErr *api.APIError
	if q.PHMin, apiErr = parseFloat(values, "ph_min"); apiErr != nil {
		return q, apiErr
	}
	if q.PHMax, apiErr = parseFloat(values, "ph_max"); apiErr != nil {
		return q, apiErr
	}
	if q.TemperatureMin, apiErr = parseFloat(values, "temperature_min"); apiErr != nil {
		return q, apiErr
	}
	if q.TemperatureMax, apiErr = parseFloat(values, "temperature_max"); apiErr != nil {
		return q, apiErr
	}
	if q.TDSMin, apiErr = parseInt(values, "tds_min"); apiErr != nil {
		return q, apiErr
	}
	if q.TDSMax, apiErr = parseInt(values, "tds_max"); apiErr != nil {
		return q, apiErr
	}
	if q.After, apiErr = parseDate(values, "timestamp_after"); apiErr != nil {
		return q, apiErr
	}
	if q.Before, apiErr = parseDate(values, "timestamp_before"); apiErr != nil {
		return q, apiErr
	}
	if q.Sort, apiErr = parseSort(values, storage.MeasurementSortFields); apiErr != nil {
		return q, apiErr
	}
	if q.Page, apiErr = parsePage(values); apiErr != nil {
		return q, apiErr
	}
	return q, nil
}

// parseDate parses an optional date parameter. Only the strict YYYY-MM-DD
// form is accepted; the resulting time is start-of-day UTC.
func parseDate(values url.Values, key string) (*time.Time, *api.APIError) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, api.NewFieldError(key, fmt.Sprintf("invalid date format %q, expected YYYY-MM-DD", raw))
	}
	return &t, nil
}

// parseFloat parses an optional float parameter.
func parseFloat(values url.Values, key string) (*float64, *api.APIError) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, api.NewFieldError(key, fmt.Sprintf("invalid number %q", raw))
	}
	return &f, nil
}

// parseInt parses an optional integer parameter.
func parseInt(values url.Values, key string) (*int, *api.APIError) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, api.NewFieldError(key, fmt.Sprintf("invalid integer %q", raw))
	}
	return &n, nil
}

// parseSort validates sort_by against the resource's allow-list and
// sort_order against asc/desc. Ascending is the default direction.
func parseSort(values url.Values, allowed []string) (storage.Sort, *api.APIError) {
	var sort storage.Sort

	if field := values.Get("sort_by"); field != "" {
		if !storage.SortFieldAllowed(allowed, field) {
			return sort, api.NewFieldError("sort_by", fmt.Sprintf("unsortable field %q", field))
		}
		sort.Field = field
	}

	switch order := values.Get("sort_order"); order {
	case "", "asc":
	case "desc":
		sort.Desc = true
	default:
		return sort, api.NewFieldError("sort_order", fmt.Sprintf("invalid sort order %q, expected asc or desc", order))
	}

	return sort, nil
}

// maxPageNumber bounds the page parameter so computing the storage
// offset cannot overflow. Any bounded page this large is still past the
// end of the collection and answered with a not-found error.
const maxPageNumber = math.MaxInt / pageSize

// parsePage parses the page number parameter. Pages are 1-based; the size
// is fixed server-side.
func parsePage(values url.Values) (storage.Page, *api.APIError) {
	page := storage.Page{Number: 1, Size: pageSize}

	raw := values.Get("page")
	if raw == "" {
		return page, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return page, api.NewFieldError("page", fmt.Sprintf("invalid page number %q", raw))
	}
	if n > maxPageNumber {
		n = maxPageNumber
	}
	page.Number = n
	return page, nil
}
