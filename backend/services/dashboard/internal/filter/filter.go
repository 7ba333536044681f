package filter

import (
	"net/url"
	"strconv"
	"strings"

	"evdash/backend/services/dashboard/internal/models"
)

// PerPage is the page size the dashboard requests.
const PerPage = 50

// Filter holds the optional list selectors. The zero value selects everything.
type Filter struct {
	Type   string
	Status string
	State  string
}

// Clear returns the empty filter.
func Clear() Filter {
	return Filter{}
}

// With returns a copy of f with one selector replaced. Unknown fields leave f unchanged.
func (f Filter) With(field, value string) Filter {
	value = strings.ToUpper(strings.TrimSpace(value))
	switch field {
	case "type":
		f.Type = value
	case "status":
		f.Status = value
	case "state":
		f.State = value
	}
	return f
}

// ActiveCount counts non-empty selectors.
func (f Filter) ActiveCount() int {
	n := 0
	for _, v := range []string{f.Type, f.Status, f.State} {
		if v != "" {
			n++
		}
	}
	return n
}

// Query encodes page, per_page and the non-empty selectors as API query parameters.
func (f Filter) Query(page, perPage int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.State != "" {
		q.Set("state", f.State)
	}
	return q
}

// FromQuery reads selectors from dashboard URL parameters, dropping values that are not
// valid options.
func FromQuery(q url.Values) Filter {
	var f Filter
	if v := strings.ToUpper(q.Get("type")); models.HasOption(models.ChargerTypeOptions, v) {
		f.Type = v
	}
	if v := strings.ToUpper(q.Get("status")); models.HasOption(models.StatusOptions, v) {
		f.Status = v
	}
	if v := strings.ToUpper(q.Get("state")); models.HasOption(models.StateOptions, v) {
		f.State = v
	}
	return f
}

// Fields is the cycling order used by keyboard front-ends.
var Fields = []string{"type", "status", "state"}

// Options returns the selectable values for field, empty first meaning "all".
func Options(field string) []models.Option {
	var opts []models.Option
	switch field {
	case "type":
		opts = models.ChargerTypeOptions
	case "status":
		opts = models.StatusOptions
	case "state":
		opts = models.StateOptions
	default:
		return nil
	}
	return append([]models.Option{{Value: "", Label: "All"}}, opts...)
}

// Get returns the selector value for field.
func (f Filter) Get(field string) string {
	switch field {
	case "type":
		return f.Type
	case "status":
		return f.Status
	case "state":
		return f.State
	}
	return ""
}

// Cycle returns f with field advanced to the next option, wrapping to "all".
func (f Filter) Cycle(field string, step int) Filter {
	opts := Options(field)
	if len(opts) == 0 {
		return f
	}
	cur := 0
	for i, o := range opts {
		if o.Value == f.Get(field) {
			cur = i
			break
		}
	}
	next := ((cur+step)%len(opts) + len(opts)) % len(opts)
	return f.With(field, opts[next].Value)
}
