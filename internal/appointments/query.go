package appointments

import (
	"net/url"
	"strconv"
	"time"
)

const (
	defaultPage   = 1
	defaultLimit  = 10
	defaultSortBy = "appointmentDate"
)

// ListQuery carries the parsed read-path directives for GET /appointments.
type ListQuery struct {
	Page              int64
	Limit             int64
	Status            string
	ProviderSpecialty string
	Search            string
	StartDate         *time.Time
	EndDate           *time.Time
	SortBy            string
	Descending        bool
}

// ParseListQuery never rejects input: malformed paging values fall back to
// defaults and unparsable dates drop their filter, so the listing endpoint
// stays available.
func ParseListQuery(values url.Values) ListQuery {
	q := ListQuery{
		Page:              parsePositive(values.Get("page"), defaultPage),
		Limit:             parsePositive(values.Get("limit"), defaultLimit),
		Status:            values.Get("status"),
		ProviderSpecialty: values.Get("providerSpecialty"),
		Search:            values.Get("search"),
		SortBy:            defaultSortBy,
		Descending:        values.Get("sortOrder") == "desc",
	}
	if sortBy := values.Get("sortBy"); sortBy != "" {
		q.SortBy = sortBy
	}
	if t, ok := parseDate(values.Get("startDate")); ok {
		q.StartDate = &t
	}
	if t, ok := parseDate(values.Get("endDate")); ok {
		q.EndDate = &t
	}
	return q
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
