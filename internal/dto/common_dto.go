package dto

import "cineva.app/movieadmin/pkg/listing"

// ListQuery is the wire form of the shared list-query parameters. The
// literal value "all" (or an absent parameter) means "no filter" for
// search and scope dimensions.
type ListQuery struct {
	Start  int    `form:"start"`
	Limit  int    `form:"limit"`
	SortBy string `form:"sort_by"`
	Order  string `form:"order"`
	Search string `form:"search"`
}

// Params translates the wire conventions into listing options.
func (q ListQuery) Params() listing.Params {
	return listing.Params{
		Search: listing.FromQuery(q.Search),
		Sort:   listing.SortFromQuery(q.SortBy, q.Order),
		Page:   listing.PageFromQuery(q.Start, q.Limit),
	}
}

// ListResponse is the uniform list payload: total count of the filtered
// set plus the requested page.
type ListResponse[T any] struct {
	Count int64 `json:"count"`
	List  []T   `json:"list"`
}
