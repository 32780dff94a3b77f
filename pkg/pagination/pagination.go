package pagination

import (
	"net/http"
	"strconv"
)

// DefaultLimit is the page size used when the request does not specify one.
// It matches the admin dashboard's default of four rows per page.
const DefaultLimit = 4

// MaxLimit caps the page size a client may request.
const MaxLimit = 100

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// DefaultParams returns the default pagination window (first page).
func DefaultParams() Params {
	return Params{
		Page:   1,
		Limit:  DefaultLimit,
		Offset: 0,
	}
}

// FromRequest extracts `page` and `limit` query parameters from an HTTP
// request, falling back to defaults for missing or out-of-range values.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil && v > 0 && v <= MaxLimit {
			p.Limit = v
		}
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// Result wraps one page of items together with paging metadata.
type Result[T any] struct {
	Items      []T
	TotalCount int
	Page       int
	Limit      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// NewResult computes paging metadata for the given page of items. A
// hand-built Params with a zero or negative Limit falls back to DefaultLimit.
func NewResult[T any](items []T, totalCount int, params Params) Result[T] {
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}
	if params.Page < 1 {
		params.Page = 1
	}

	totalPages := totalCount / params.Limit
	if totalCount%params.Limit > 0 {
		totalPages++
	}

	if items == nil {
		items = []T{}
	}

	return Result[T]{
		Items:      items,
		TotalCount: totalCount,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
