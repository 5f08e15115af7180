// Package catalog turns list-endpoint query parameters into a filter, sort
// and pagination specification for the food collection.
package catalog

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/baresto/baresto-api/services"
)

// SortDirection is the direction of a single-field sort
type SortDirection string

const (
	SortAscending  SortDirection = "ASC"
	SortDescending SortDirection = "DESC"
)

// Query parameter names accepted by ParseListQuery
const (
	ParamCategory  = "category"
	ParamSortField = "sortField"
	ParamSortOrder = "sortOrder"
	ParamPage      = "page"
	ParamLimit     = "limit"
)

var sortFieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// Sort is a single-field sort specification
type Sort struct {
	Field     string
	Direction SortDirection
}

// ListQuery is the per-request list specification. A nil Sort means
// natural (insertion) order.
type ListQuery struct {
	Category string
	Sort     *Sort
	Page     int
	Limit    int
}

// Skip returns the number of matching documents before the requested page.
func (q *ListQuery) Skip() int {
	return q.Page * q.Limit
}

// HasCategory reports whether the query filters on category.
func (q *ListQuery) HasCategory() bool {
	return q.Category != ""
}

// Empty reports whether the query can only ever return no documents.
func (q *ListQuery) Empty() bool {
	return q.Limit == 0
}

// ParseListQuery builds a ListQuery from URL query values.
// A missing page is 0 and a missing limit is defaultLimit. Limits above
// maxLimit are clamped. Non-numeric or negative values are rejected, as is
// a page whose offset does not fit in an int. Category is matched verbatim.
func ParseListQuery(values url.Values, defaultLimit, maxLimit int) (*ListQuery, error) {
	q := &ListQuery{
		Category: values.Get(ParamCategory),
		Limit:    defaultLimit,
	}

	page, err := parseNonNegative(values, ParamPage)
	if err != nil {
		return nil, err
	}
	if page >= 0 {
		q.Page = page
	}

	limit, err := parseNonNegative(values, ParamLimit)
	if err != nil {
		return nil, err
	}
	if limit >= 0 {
		q.Limit = limit
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Limit > 0 && q.Page > math.MaxInt/q.Limit {
		return nil, services.ErrInvalidPagination.WithDetail(ParamPage, "too large")
	}

	sort, err := parseSort(values.Get(ParamSortField), values.Get(ParamSortOrder))
	if err != nil {
		return nil, err
	}
	q.Sort = sort

	return q, nil
}

// parseNonNegative returns -1 when the parameter is absent.
func parseNonNegative(values url.Values, name string) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, services.ErrInvalidPagination.WithDetail(name, "must be an integer")
	}
	if n < 0 {
		return 0, services.ErrInvalidPagination.WithDetail(name, "must not be negative")
	}
	return n, nil
}

// parseSort only sorts when both field and order are given.
func parseSort(field, order string) (*Sort, error) {
	field = strings.TrimSpace(field)
	order = strings.TrimSpace(order)
	if field == "" || order == "" {
		return nil, nil
	}

	if !sortFieldPattern.MatchString(field) {
		return nil, services.ErrInvalidSort.WithDetail(ParamSortField, "must be a simple field name")
	}

	dir, ok := ParseSortDirection(order)
	if !ok {
		return nil, services.ErrInvalidSort.WithDetail(ParamSortOrder, "must be asc or desc")
	}

	return &Sort{Field: field, Direction: dir}, nil
}

// ParseSortDirection accepts asc, desc, ascending, descending, 1 and -1.
func ParseSortDirection(s string) (SortDirection, bool) {
	switch strings.ToLower(s) {
	case "asc", "ascending", "1":
		return SortAscending, true
	case "desc", "descending", "-1":
		return SortDescending, true
	default:
		return "", false
	}
}
