package transport

import (
	"net/http"
	"strconv"

	"github.com/hydrolog/hydrolog/pkg/api"
	"github.com/hydrolog/hydrolog/pkg/storage"
)

// pageSize is the fixed number of results per list page.
const pageSize = 10

// newPage builds the paginated response envelope. Next and previous links
// reproduce the current filter and sort parameters with only the page
// number changed, and are null at the last and first page respectively.
// A page number past the end of the collection is a not-found error; page
// 1 of an empty collection is the one empty page that exists.
func newPage[T any](r *http.Request, list *storage.List[T], page storage.Page) (*api.Page[T], *api.APIError) {
	lastPage := (list.Total + page.Size - 1) / page.Size
	if page.Number > lastPage && page.Number > 1 {
		return nil, api.NewNotFoundError("invalid page")
	}

	out := &api.Page[T]{
		Count:   list.Total,
		Results: list.Items,
	}
	if out.Results == nil {
		out.Results = []T{}
	}

	if page.Number < lastPage {
		out.Next = pageLink(r, page.Number+1)
	}
	if page.Number > 1 {
		out.Previous = pageLink(r, page.Number-1)
	}
	return out, nil
}

// pageLink renders the current request URL with the page parameter set to n.
func pageLink(r *http.Request, n int) *string {
	u := *r.URL
	q := u.Query()
	if n <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(n))
	}
	u.RawQuery = q.Encode()
	link := u.String()
	return &link
}
