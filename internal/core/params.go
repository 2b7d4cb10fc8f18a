package core

import (
	"fmt"
	"strings"
)

type SortField string

// Permitted sort keys for the admin user listing. Anything else is
// rejected before query construction.
const (
	SortByCreatedAt       SortField = "created_at"
	SortByFirstName       SortField = "first_name"
	SortByLastName        SortField = "last_name"
	SortByEmail           SortField = "email"
	SortByBlogCount       SortField = "blog_count"
	SortByTotalBlogLikes  SortField = "total_blog_likes"
	SortByCommentsWritten SortField = "comments_written"
	SortByCommentsOnBlogs SortField = "comments_on_blogs"
)

var sortFields = map[SortField]bool{
	SortByCreatedAt:       true,
	SortByFirstName:       true,
	SortByLastName:        true,
	SortByEmail:           true,
	SortByBlogCount:       true,
	SortByTotalBlogLikes:  true,
	SortByCommentsWritten: true,
	SortByCommentsOnBlogs: true,
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

const DefaultPageSize = 10

// ListParams are the knobs of the admin user listing. The zero value is
// usable after Normalize.
type ListParams struct {
	Search   string
	Page     int
	PageSize int
	SortBy   SortField
	SortDir  SortDirection
}

// Normalize clamps pagination to sane values and fills in defaults:
// page and page size are clamped to a minimum of 1, sort defaults to
// creation time descending. An absent page size is the caller's concern;
// by the time params reach Normalize a non-positive value is an explicit
// one and becomes 1, not DefaultPageSize. Returns ErrValidation for an
// unknown sort key.
func (p ListParams) Normalize() (ListParams, error) {
	p.Search = strings.TrimSpace(p.Search)

	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 1
	}

	if p.SortBy == "" {
		p.SortBy = SortByCreatedAt
	}
	if !sortFields[p.SortBy] {
		return p, fmt.Errorf("%w: unknown sort field %q", ErrValidation, p.SortBy)
	}

	if p.SortDir != SortAsc {
		p.SortDir = SortDesc
	}

	return p, nil
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
