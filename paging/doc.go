// Package paging provides offset pagination for list endpoints.
//
//	params := paging.Params{Page: 2, PageSize: 20}.Normalize(50, 500)
//	result, err := paging.Paginate(params, func(offset, limit int) ([]T, int, error) {
//	    return repo.List(ctx, offset, limit)
//	})
//
// Pages are one-based. Slice pages an in-memory list the same way.
package paging
