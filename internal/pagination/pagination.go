// Package pagination parses page/limit query parameters and builds the
// list response envelope shared by every paginated endpoint.
package pagination

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
	// MaxPage keeps (MaxPage-1)*MaxLimit well inside int32.
	MaxPage = 1_000_000
)

// Params is a normalized page request.
type Params struct {
	Page  int
	Limit int
}

// Parse reads raw query values. Missing or malformed values fall back to
// defaults; page is clamped to [1, MaxPage] and limit to [1, MaxLimit].
func Parse(page, limit string) Params {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}
	if v, err := strconv.Atoi(page); err == nil {
		p.Page = v
	}
	if v, err := strconv.Atoi(limit); err == nil {
		p.Limit = v
	}
	return p.Normalize()
}

// Normalize clamps out-of-range values.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset is the number of rows to skip.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta describes the page returned to the client.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewMeta computes pages as ceil(total/limit).
func NewMeta(p Params, total int64) Meta {
	limit := int64(p.Limit)
	pages := int64(0)
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Meta{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}

// Response is the list envelope {data, pagination}.
type Response[T any] struct {
	Data       []T  `json:"data"`
	Pagination Meta `json:"pagination"`
}

// NewResponse wraps a page of items. A nil slice is rendered as [].
func NewResponse[T any](items []T, p Params, total int64) Response[T] {
	if items == nil {
		items = []T{}
	}
	return Response[T]{Data: items, Pagination: NewMeta(p, total)}
}
