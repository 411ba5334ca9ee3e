package utils

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// GetPaginationParams reads page and limit from the query string. Page defaults
// to 1 and limit to DefaultPageSize; limit is capped at MaxPageSize.
func GetPaginationParams(r *http.Request) (page, limit int, err error) {
	query := r.URL.Query()

	page = 1
	if raw := query.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, fmt.Errorf("invalid page %q", raw)
		}
	}

	limit = DefaultPageSize
	if raw := query.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, fmt.Errorf("invalid limit %q", raw)
		}
		if limit > MaxPageSize {
			limit = MaxPageSize
		}
	}

	return page, limit, nil
}

// GetSortParams reads sort_by and order. sort_by must be one of allowed; order is
// asc or desc and defaults to desc.
func GetSortParams(r *http.Request, allowed ...string) (field, order string, err error) {
	query := r.URL.Query()

	field = strings.ToLower(strings.TrimSpace(query.Get("sort_by")))
	if field != "" && !slices.Contains(allowed, field) {
		return "", "", fmt.Errorf("invalid sort_by %q", field)
	}

	order = strings.ToLower(strings.TrimSpace(query.Get("order")))
	switch order {
	case "":
		order = "desc"
	case "asc", "desc":
	default:
		return "", "", fmt.Errorf("invalid order %q", order)
	}

	return field, order, nil
}
