package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PaginationParams carries the normalized page window for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

// GetPaginationParams reads "page" and "pageSize" from the query string
// and clamps them to sane bounds. "limit" is accepted as an alias.
func GetPaginationParams(c echo.Context) PaginationParams {
	page := atoiOrZero(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	size := atoiOrZero(c.QueryParam("pageSize"))
	if size == 0 {
		size = atoiOrZero(c.QueryParam("limit"))
	}
	if size < 1 || size > maxPageSize {
		size = defaultPageSize
	}

	return PaginationParams{
		Page:     page,
		PageSize: size,
		Offset:   (page - 1) * size,
	}
}

func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
