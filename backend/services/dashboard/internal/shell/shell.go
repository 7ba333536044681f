package shell

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"evdash/backend/services/dashboard/internal/clients"
	"evdash/backend/services/dashboard/internal/filter"
	"evdash/backend/services/dashboard/internal/mapview"
	"evdash/backend/services/dashboard/internal/models"
)

// API is the part of the stations API the shell drives. *clients.Client satisfies it.
type API interface {
	ListStations(ctx context.Context, query url.Values) (*models.StationPage, error)
	Permissions(ctx context.Context) (*models.PermissionsResponse, error)
	CreateStation(ctx context.Context, p models.StationPayload) (*models.Station, error)
	UpdateStation(ctx context.Context, id int64, p models.StationPayload) (*models.Station, error)
	DeleteStation(ctx context.Context, id int64) error
}

// Options configure a Shell. Zero values select defaults.
type Options struct {
	Logger        *zap.Logger
	Publisher     Publisher
	Username      string
	PerPage       int
	ToastInterval time.Duration
	ToastLifetime time.Duration
}

// Shell owns the dashboard state: filters, pagination, the loaded page, permissions, the
// selection and the toast. A Shell has one owner and does no locking; only Fetch and Exec
// may run on another goroutine.
type Shell struct {
	api       API
	logger    *zap.Logger
	publisher Publisher
	username  string
	perPage   int
	clock     toastClock

	filter   filter.Filter
	page     int
	pages    int
	total    int
	stations []models.Station
	perms    models.Permissions
	loading  bool
	err      string
	selected int64
	toast    *Toast

	gen uint64
}

// New returns a shell on page 1 with no filters.
func New(api API, opts Options) *Shell {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Publisher == nil {
		opts.Publisher = nopPublisher{}
	}
	if opts.PerPage <= 0 {
		opts.PerPage = filter.PerPage
	}
	return &Shell{
		api:       api,
		logger:    opts.Logger,
		publisher: opts.Publisher,
		username:  opts.Username,
		perPage:   opts.PerPage,
		clock:     newToastClock(opts.ToastInterval, opts.ToastLifetime),
		page:      1,
		pages:     1,
	}
}

// Request is one station fetch. Gen orders fetches so stale completions can be dropped.
type Request struct {
	Gen   uint64
	Query url.Values
}

// Result is the outcome of a Request.
type Result struct {
	Gen   uint64
	Page  *models.StationPage
	Perms *models.Permissions
	Err   error
}

// BeginFetch marks the shell as loading and returns the fetch for the current filters and page.
func (s *Shell) BeginFetch() Request {
	s.gen++
	s.loading = true
	return Request{Gen: s.gen, Query: s.filter.Query(s.page, s.perPage)}
}

// Fetch performs req against the API. It touches no shell state.
func (s *Shell) Fetch(ctx context.Context, req Request) Result {
	res := Result{Gen: req.Gen}
	page, err := s.api.ListStations(ctx, req.Query)
	if err != nil {
		res.Err = fmt.Errorf("shell: list stations: %w", err)
		return res
	}
	res.Page = page

	perms, err := s.api.Permissions(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch permissions", zap.Error(err))
		return res
	}
	res.Perms = &perms.Permissions
	return res
}

// Apply stores a fetch result. It returns false when res belongs to a superseded fetch.
func (s *Shell) Apply(res Result) bool {
	if res.Gen != s.gen {
		s.logger.Debug("dropping stale fetch", zap.Uint64("gen", res.Gen), zap.Uint64("latest", s.gen))
		return false
	}
	s.loading = false
	if res.Err != nil {
		s.logger.Error("failed to fetch stations", zap.Error(res.Err))
		s.err = FetchFailed
		s.publish(Event{Type: EventFetchFailed})
		return true
	}

	s.err = ""
	s.stations = res.Page.Stations
	s.total = res.Page.Total
	s.pages = res.Page.Pages
	if s.pages < 1 {
		s.pages = 1
	}
	if res.Page.CurrentPage > 0 {
		s.page = res.Page.CurrentPage
	}
	if res.Perms != nil {
		s.perms = *res.Perms
	}
	s.publish(Event{Type: EventStationsLoaded, Total: s.total})
	return true
}

// Load fetches the current page and permissions and waits for the result.
func (s *Shell) Load(ctx context.Context) error {
	s.Apply(s.Fetch(ctx, s.BeginFetch()))
	if s.err != "" {
		return errors.New(s.err)
	}
	return nil
}

// RefreshPermissions fetches the permission flags alone. Failure leaves the shell unable to
// manage stations.
func (s *Shell) RefreshPermissions(ctx context.Context) error {
	resp, err := s.api.Permissions(ctx)
	if err != nil {
		s.perms = models.Permissions{}
		return fmt.Errorf("shell: permissions: %w", err)
	}
	s.perms = resp.Permissions
	return nil
}

// SetFilters replaces the filter, returns to page 1 and begins a fetch.
func (s *Shell) SetFilters(f filter.Filter) Request {
	s.filter = f
	s.page = 1
	return s.BeginFetch()
}

// SetPage moves to page n, clamped to at least 1, and begins a fetch.
func (s *Shell) SetPage(n int) Request {
	if n < 1 {
		n = 1
	}
	s.page = n
	return s.BeginFetch()
}

// MutationKind distinguishes mutations.
type MutationKind int

const (
	MutationCreate MutationKind = iota + 1
	MutationUpdate
	MutationDelete
)

func (k MutationKind) String() string {
	switch k {
	case MutationCreate:
		return "create station"
	case MutationUpdate:
		return "update station"
	case MutationDelete:
		return "delete station"
	}
	return "unknown"
}

// Mutation is a permitted change waiting to be sent.
type Mutation struct {
	Kind    MutationKind
	ID      int64
	Payload models.StationPayload
}

// MutationResult is the outcome of Exec.
type MutationResult struct {
	Mutation
	Station *models.Station
	Err     error
}

func (s *Shell) deny(kind MutationKind) error {
	s.logger.Warn("action refused", zap.String("action", kind.String()), zap.String("username", s.username))
	s.Notify(SeverityError, AdminOnly)
	s.publish(Event{Type: EventPermissionDenied})
	return &PermissionError{Action: kind.String()}
}

// PrepareSave checks permissions for a create (id nil) or update. A refusal raises the
// admin-only toast and returns a *PermissionError; nothing should then be sent.
func (s *Shell) PrepareSave(id *int64, p models.StationPayload) (Mutation, error) {
	m := Mutation{Kind: MutationCreate, Payload: p}
	if id != nil {
		m.Kind = MutationUpdate
		m.ID = *id
	}
	if !s.perms.CanManageStations {
		return m, s.deny(m.Kind)
	}
	return m, nil
}

// PrepareDelete checks permissions for deleting id.
func (s *Shell) PrepareDelete(id int64) (Mutation, error) {
	m := Mutation{Kind: MutationDelete, ID: id}
	if !s.perms.CanManageStations {
		return m, s.deny(m.Kind)
	}
	return m, nil
}

// Exec sends m to the API. It touches no shell state.
func (s *Shell) Exec(ctx context.Context, m Mutation) MutationResult {
	res := MutationResult{Mutation: m}
	switch m.Kind {
	case MutationCreate:
		res.Station, res.Err = s.api.CreateStation(ctx, m.Payload)
	case MutationUpdate:
		res.Station, res.Err = s.api.UpdateStation(ctx, m.ID, m.Payload)
	case MutationDelete:
		res.Err = s.api.DeleteStation(ctx, m.ID)
	default:
		res.Err = fmt.Errorf("shell: unknown mutation %d", m.Kind)
	}
	return res
}

// ApplyMutation records the outcome of Exec. On success the caller should reload the page.
// Save failures are returned for inline display; a delete failure raises a toast.
func (s *Shell) ApplyMutation(res MutationResult) error {
	if res.Err != nil {
		s.logger.Error("mutation failed",
			zap.String("action", res.Kind.String()),
			zap.Int64("station_id", res.ID),
			zap.Error(res.Err),
		)
		if clients.IsStatus(res.Err, http.StatusForbidden) {
			s.Notify(SeverityError, AdminOnly)
			s.publish(Event{Type: EventPermissionDenied, StationID: res.ID})
			return &PermissionError{Action: res.Kind.String(), Err: res.Err}
		}
		if res.Kind == MutationDelete {
			s.err = DeleteFailed
			s.Notify(SeverityError, DeleteFailed)
		}
		return fmt.Errorf("shell: %s: %w", res.Kind, res.Err)
	}

	switch res.Kind {
	case MutationDelete:
		if s.selected == res.ID {
			s.selected = 0
		}
		s.Notify(SeveritySuccess, DeletedMessage)
		s.publish(Event{Type: EventStationDeleted, StationID: res.ID})
	default:
		id := res.ID
		if res.Station != nil {
			id = res.Station.ID
		}
		msg := UpdatedMessage
		if res.Kind == MutationCreate {
			msg = CreatedMessage
		}
		s.Notify(SeveritySuccess, msg)
		s.publish(Event{Type: EventStationSaved, StationID: id, Created: res.Kind == MutationCreate})
	}
	return nil
}

// Commit sends a prepared mutation and records its outcome without reloading. Front-ends that
// redirect to a fresh page afterwards use it in place of Save and Delete.
func (s *Shell) Commit(ctx context.Context, m Mutation) error {
	return s.ApplyMutation(s.Exec(ctx, m))
}

// Save creates (id nil) or updates a station, then reloads the current page.
func (s *Shell) Save(ctx context.Context, id *int64, p models.StationPayload) error {
	m, err := s.PrepareSave(id, p)
	if err != nil {
		return err
	}
	if err := s.Commit(ctx, m); err != nil {
		return err
	}
	_ = s.Load(ctx)
	return nil
}

// Delete removes a station, then reloads the current page.
func (s *Shell) Delete(ctx context.Context, id int64) error {
	m, err := s.PrepareDelete(id)
	if err != nil {
		return err
	}
	if err := s.Commit(ctx, m); err != nil {
		return err
	}
	_ = s.Load(ctx)
	return nil
}

// Select focuses the map on a station.
func (s *Shell) Select(id int64) { s.selected = id }

// ClearSelection returns the map to fitting all stations.
func (s *Shell) ClearSelection() { s.selected = 0 }

// Notify replaces the current toast.
func (s *Shell) Notify(severity Severity, message string) {
	s.toast = &Toast{Severity: severity, Message: message, Progress: 100}
}

// Tick advances the toast by one interval and drops it once progress reaches 0.
func (s *Shell) Tick() {
	if s.toast == nil {
		return
	}
	s.toast.Progress -= s.clock.step
	if s.toast.Progress <= 0 {
		s.toast = nil
	}
}

// DismissToast hides the toast immediately.
func (s *Shell) DismissToast() { s.toast = nil }

// TickInterval is the period at which Tick should be called.
func (s *Shell) TickInterval() time.Duration { return s.clock.interval }

// Toast returns the visible toast or nil.
func (s *Shell) Toast() *Toast { return s.toast }

// ClearError hides the error banner.
func (s *Shell) ClearError() { s.err = "" }

// Restore sets filters, page and selection without fetching. The web front-end rebuilds a
// shell from the URL on every request.
func (s *Shell) Restore(f filter.Filter, page int, selected int64) {
	s.filter = f
	if page < 1 {
		page = 1
	}
	s.page = page
	s.selected = selected
}

// SetPermissions overrides the flags until the next fetch.
func (s *Shell) SetPermissions(p models.Permissions) { s.perms = p }

func (s *Shell) publish(e Event) {
	e.Username = s.username
	e.At = time.Now().UTC()
	s.publisher.Publish(e)
}

// Accessors.

func (s *Shell) Filter() filter.Filter           { return s.filter }
func (s *Shell) Page() int                       { return s.page }
func (s *Shell) Pages() int                      { return s.pages }
func (s *Shell) Total() int                      { return s.total }
func (s *Shell) Stations() []models.Station      { return s.stations }
func (s *Shell) Permissions() models.Permissions { return s.perms }
func (s *Shell) CanManage() bool                 { return s.perms.CanManageStations }
func (s *Shell) Loading() bool                   { return s.loading }
func (s *Shell) ErrorMessage() string            { return s.err }
func (s *Shell) Selected() int64                 { return s.selected }
func (s *Shell) HasNext() bool                   { return s.page < s.pages }
func (s *Shell) HasPrev() bool                   { return s.page > 1 }

// SelectedStation returns the selected station if it is on the loaded page.
func (s *Shell) SelectedStation() (models.Station, bool) {
	for _, st := range s.stations {
		if st.ID == s.selected {
			return st, true
		}
	}
	return models.Station{}, false
}

// Map builds the map view for the loaded page.
func (s *Shell) Map() mapview.View {
	return mapview.Build(s.stations, s.selected)
}
