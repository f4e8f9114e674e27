package providers

import (
	"net/url"
	"strconv"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// ListQuery carries the parsed read-path directives for GET /providers.
// Results are always sorted by name ascending.
type ListQuery struct {
	Page      int64
	Limit     int64
	Specialty string
	Search    string
}

// ParseListQuery never rejects input: malformed or non-positive paging values
// fall back to defaults so the listing endpoint stays available.
func ParseListQuery(values url.Values) ListQuery {
	return ListQuery{
		Page:      parsePositive(values.Get("page"), defaultPage),
		Limit:     parsePositive(values.Get("limit"), defaultLimit),
		Specialty: values.Get("specialty"),
		Search:    values.Get("search"),
	}
}

// Skip is the number of records the page offset covers.
func (q ListQuery) Skip() int64 {
	return (q.Page - 1) * q.Limit
}

func parsePositive(raw string, fallback int64) int64 {
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
