package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opticare/opticare-portal/internal/web/middleware/auth"
	"github.com/opticare/opticare-portal/internal/web/navigation"
)

// Navigation returns the navigation context of a signed in page with the
// sidebar of the current user.
func Navigation(c *fiber.Ctx, title, section, page string) *navigation.Context {
	nav := navigation.NewContext(title, section, page)

	if u := auth.CurrentUser(c); u != nil {
		nav.WithSidebar(c.Path(), u.Role, u.Permissions)
	}

	return nav
}

// Pagination describes one page of a list.
type Pagination struct {
	CurrentPage int
	PageSize    int
	TotalItems  int
	TotalPages  int
	HasPrevPage bool
	HasNextPage bool
	PrevPage    int
	NextPage    int
}

// DefaultPageSize is used for a missing or invalid page size.
const DefaultPageSize = 25

const maxPageSize = 100

// Paginate returns the items of page. A page past the end is clamped to
// the last page.
func Paginate[T any](items []T, page, pageSize int) ([]T, Pagination) {
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = DefaultPageSize
	}

	total := len(items)

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}

	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	out := []T{}
	if start < total {
		out = items[start:end]
	}

	return out, Pagination{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasPrevPage: page > 1,
		HasNextPage: page < totalPages,
		PrevPage:    page - 1,
		NextPage:    page + 1,
	}
}
