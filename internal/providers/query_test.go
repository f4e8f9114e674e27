package providers

import (
	"net/url"
	"testing"
)

func TestParseListQueryDefaults(t *testing.T) {
	q := ParseListQuery(url.Values{})
	if q.Page != 1 || q.Limit != 10 {
		t.Errorf("expected defaults 1/10, got %d/%d", q.Page, q.Limit)
	}
	if q.Skip() != 0 {
		t.Errorf("expected skip 0, got %d", q.Skip())
	}
}

func TestParseListQueryFallsBackOnBadPaging(t *testing.T) {
	for _, raw := range []string{"0", "-3", "abc", "2.5"} {
		q := ParseListQuery(url.Values{"page": {raw}, "limit": {raw}})
		if q.Page != 1 || q.Limit != 10 {
			t.Errorf("paging %q: expected fallback, got %d/%d", raw, q.Page, q.Limit)
		}
	}
}

func TestParseListQuerySkip(t *testing.T) {
	q := ParseListQuery(url.Values{"page": {"3"}, "limit": {"25"}, "specialty": {"Cardiology"}, "search": {"sarah"}})
	if q.Skip() != 50 {
		t.Errorf("expected skip 50, got %d", q.Skip())
	}
	if q.Specialty != "Cardiology" || q.Search != "sarah" {
		t.Errorf("filters not carried: %+v", q)
	}
}
