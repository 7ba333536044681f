package filter

import (
	"net/url"
	"testing"
)

func TestQueryOmitsEmptySelectors(t *testing.T) {
	q := Filter{Status: "MAINTENANCE"}.Query(1, PerPage)
	want := url.Values{"page": {"1"}, "per_page": {"50"}, "status": {"MAINTENANCE"}}
	if q.Encode() != want.Encode() {
		t.Errorf("Query() = %q, want %q", q.Encode(), want.Encode())
	}

	q = Clear().Query(3, 50)
	if q.Has("type") || q.Has("status") || q.Has("state") {
		t.Errorf("empty filter encoded selectors: %v", q)
	}
}

func TestActiveCount(t *testing.T) {
	tests := []struct {
		f    Filter
		want int
	}{
		{Filter{}, 0},
		{Filter{Type: "AC"}, 1},
		{Filter{Type: "AC", Status: "INACTIVE", State: "SP"}, 3},
	}
	for _, tt := range tests {
		if got := tt.f.ActiveCount(); got != tt.want {
			t.Errorf("%+v.ActiveCount() = %d, want %d", tt.f, got, tt.want)
		}
	}
}

func TestWithReplacesOneField(t *testing.T) {
	f := Filter{Type: "AC"}.With("status", "maintenance")
	if f.Type != "AC" || f.Status != "MAINTENANCE" {
		t.Errorf("With() = %+v", f)
	}
	if g := f.With("bogus", "x"); g != f {
		t.Errorf("unknown field changed filter: %+v", g)
	}
}

func TestFromQueryDropsInvalid(t *testing.T) {
	f := FromQuery(url.Values{"type": {"dc"}, "status": {"BROKEN"}, "state": {"sp"}})
	if f.Type != "DC" || f.Status != "" || f.State != "SP" {
		t.Errorf("FromQuery() = %+v", f)
	}
}

func TestCycle(t *testing.T) {
	f := Filter{}
	f = f.Cycle("type", 1)
	if f.Type != "AC" {
		t.Fatalf("Cycle forward = %q", f.Type)
	}
	f = f.Cycle("type", -1)
	if f.Type != "" {
		t.Fatalf("Cycle back to all = %q", f.Type)
	}
	f = f.Cycle("type", -1)
	if f.Type != "BOTH" {
		t.Errorf("Cycle wrap = %q, want BOTH", f.Type)
	}
}
