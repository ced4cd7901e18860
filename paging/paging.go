package paging

import (
	"fmt"
)

// Params holds the pagination parameters of a request
type Params struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

// Result holds one page of items
type Result[T any] struct {
	Items       []T  `json:"items"`
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	HasNextPage bool `json:"has_next"`
}

// Normalize clamps Page to at least 1 and PageSize to (0, maxSize],
// substituting defaultSize for a missing size
func (p Params) Normalize(defaultSize, maxSize int) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultSize
	}
	if maxSize > 0 && p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	return p
}

// Offset returns the number of items before the page
func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// PagingFunc loads limit items starting at offset plus the total count
type PagingFunc[T any] func(offset, limit int) (items []T, total int, err error)

// Paginate loads the page described by params, which must be normalized
func Paginate[T any](params Params, fn PagingFunc[T]) (*Result[T], error) {
	items, total, err := fn(params.Offset(), params.PageSize)
	if err != nil {
		return nil, fmt.Errorf("pagination error: %w", err)
	}
	return newResult(items, total, params), nil
}

// Slice pages an in-memory list
func Slice[T any](all []T, params Params) *Result[T] {
	start := min(params.Offset(), len(all))
	end := min(start+params.PageSize, len(all))
	return newResult(all[start:end], len(all), params)
}

func newResult[T any](items []T, total int, params Params) *Result[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return &Result[T]{
		Items:       items,
		Total:       total,
		Page:        params.Page,
		PageSize:    params.PageSize,
		HasNextPage: params.Offset()+len(items) < total,
	}
}
