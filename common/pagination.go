package common

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

// Pagination holds normalized page/limit values and the derived offset.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// Page wraps a listing response with its pagination meta.
type Page struct {
	Items interface{}    `json:"items"`
	Meta  PaginationMeta `json:"meta"`
}

func NormalizePagination(page, limit int) Pagination {
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page < 1 {
		page = DefaultPage
	}
	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// PaginationFromRequest reads page/limit query parameters, falling back to
// defaults on absent or malformed values.
func PaginationFromRequest(r *http.Request) Pagination {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return NormalizePagination(page, limit)
}

func BuildPaginationMeta(p Pagination, total int64) PaginationMeta {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return PaginationMeta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}
