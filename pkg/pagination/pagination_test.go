package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 4, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	p := FromRequest(req)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 4, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_CustomValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/users?page=3&limit=10", nil)
	p := FromRequest(req)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 20, p.Offset) // (3-1) * 10
}

func TestFromRequest_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		query string
		page  int
		limit int
	}{
		{"negative page", "page=-1", 1, 4},
		{"zero page", "page=0", 1, 4},
		{"non-numeric page", "page=abc", 1, 4},
		{"zero limit", "limit=0", 1, 4},
		{"limit above cap", "limit=500", 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users?"+tt.query, nil)
			p := FromRequest(req)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
		})
	}
}

func TestFromRequest_LimitAtCap(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/users?limit=100", nil)
	p := FromRequest(req)
	assert.Equal(t, 100, p.Limit)
}

func TestNewResult_PagingMetadata(t *testing.T) {
	// 10 items, 4 per page: pages run 4, 4, 2.
	tests := []struct {
		page       int
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{1, 3, true, false},
		{2, 3, true, true},
		{3, 3, false, true},
	}
	for _, tt := range tests {
		params := Params{Page: tt.page, Limit: 4}
		r := NewResult([]string{"a"}, 10, params)

		assert.Equal(t, tt.totalPages, r.TotalPages)
		assert.Equal(t, tt.hasNext, r.HasNext, "page %d", tt.page)
		assert.Equal(t, tt.hasPrev, r.HasPrev, "page %d", tt.page)
	}
}

func TestNewResult_ExactMultiple(t *testing.T) {
	r := NewResult([]int{1, 2, 3, 4}, 8, Params{Page: 2, Limit: 4})
	assert.Equal(t, 2, r.TotalPages)
	assert.False(t, r.HasNext)
}

func TestNewResult_ZeroParams(t *testing.T) {
	// A hand-built Params{} must not divide by zero; it falls back to the
	// default window.
	r := NewResult([]string{"a", "b"}, 10, Params{})

	assert.Equal(t, DefaultLimit, r.Limit)
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, 3, r.TotalPages)
	assert.True(t, r.HasNext)
	assert.False(t, r.HasPrev)
}

func TestNewResult_Empty(t *testing.T) {
	r := NewResult[string](nil, 0, DefaultParams())

	assert.NotNil(t, r.Items)
	assert.Empty(t, r.Items)
	assert.Equal(t, 0, r.TotalPages)
	assert.False(t, r.HasNext)
	assert.False(t, r.HasPrev)
}
