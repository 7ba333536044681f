package shell

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"evdash/backend/services/dashboard/internal/clients"
	"evdash/backend/services/dashboard/internal/filter"
	"evdash/backend/services/dashboard/internal/form"
	"evdash/backend/services/dashboard/internal/models"
)

type fakeAPI struct {
	page      *models.StationPage
	listErr   error
	perms     models.Permissions
	mutateErr error

	queries []url.Values
	created []models.StationPayload
	updated []int64
	deleted []int64
}

func (f *fakeAPI) ListStations(_ context.Context, q url.Values) (*models.StationPage, error) {
	f.queries = append(f.queries, q)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.page == nil {
		return &models.StationPage{Pages: 1, CurrentPage: 1}, nil
	}
	return f.page, nil
}

func (f *fakeAPI) Permissions(context.Context) (*models.PermissionsResponse, error) {
	return &models.PermissionsResponse{Permissions: f.perms}, nil
}

func (f *fakeAPI) CreateStation(_ context.Context, p models.StationPayload) (*models.Station, error) {
	f.created = append(f.created, p)
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	return &models.Station{ID: 42, Name: p.Name}, nil
}

func (f *fakeAPI) UpdateStation(_ context.Context, id int64, p models.StationPayload) (*models.Station, error) {
	f.updated = append(f.updated, id)
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	return &models.Station{ID: id, Name: p.Name}, nil
}

func (f *fakeAPI) DeleteStation(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.mutateErr
}

func (f *fakeAPI) mutations() int {
	return len(f.created) + len(f.updated) + len(f.deleted)
}

type recorder struct{ events []Event }

func (r *recorder) Publish(e Event) { r.events = append(r.events, e) }

func (r *recorder) types() []EventType {
	out := make([]EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

var admin = models.Permissions{CanViewStations: true, CanManageStations: true, IsAdmin: true}

func TestLoadStoresPageAndPermissions(t *testing.T) {
	api := &fakeAPI{
		page:  &models.StationPage{Stations: []models.Station{{ID: 1}, {ID: 2}}, Total: 2, Pages: 1, CurrentPage: 1},
		perms: admin,
	}
	rec := &recorder{}
	s := New(api, Options{Publisher: rec})

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(s.Stations()) != 2 || s.Total() != 2 || !s.CanManage() || s.Loading() {
		t.Errorf("state after load: stations=%d total=%d manage=%v loading=%v",
			len(s.Stations()), s.Total(), s.CanManage(), s.Loading())
	}
	q := api.queries[0]
	if q.Get("page") != "1" || q.Get("per_page") != "50" {
		t.Errorf("query = %v", q)
	}
	if got := rec.types(); len(got) != 1 || got[0] != EventStationsLoaded {
		t.Errorf("events = %v", got)
	}
}

func TestLoadFailure(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("connection refused")}
	rec := &recorder{}
	s := New(api, Options{Publisher: rec})

	if err := s.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if s.ErrorMessage() != FetchFailed {
		t.Errorf("error = %q, want %q", s.ErrorMessage(), FetchFailed)
	}
	if got := rec.types(); len(got) != 1 || got[0] != EventFetchFailed {
		t.Errorf("events = %v", got)
	}
}

func TestSetFiltersResetsPage(t *testing.T) {
	api := &fakeAPI{}
	s := New(api, Options{})
	s.SetPage(3)

	req := s.SetFilters(filter.Clear().With("status", "MAINTENANCE"))
	s.Apply(s.Fetch(context.Background(), req))

	if s.Page() != 1 {
		t.Errorf("page = %d, want 1", s.Page())
	}
	q := api.queries[len(api.queries)-1]
	if q.Get("status") != "MAINTENANCE" || q.Get("page") != "1" {
		t.Errorf("query = %v, want status=MAINTENANCE page=1", q)
	}
	if q.Has("type") || q.Has("state") {
		t.Errorf("empty selectors should be omitted: %v", q)
	}
}

func TestSetPageClamps(t *testing.T) {
	s := New(&fakeAPI{}, Options{})
	req := s.SetPage(-4)
	if s.Page() != 1 || req.Query.Get("page") != "1" {
		t.Errorf("page = %d query=%v", s.Page(), req.Query)
	}
}

func TestStaleFetchIsDropped(t *testing.T) {
	api := &fakeAPI{page: &models.StationPage{Stations: []models.Station{{ID: 7}}, Pages: 1, CurrentPage: 1}}
	s := New(api, Options{})

	older := s.SetPage(2)
	newer := s.SetPage(3)
	oldRes := Result{Gen: older.Gen, Page: &models.StationPage{Stations: []models.Station{{ID: 99}}, Pages: 5, CurrentPage: 2}}

	if !s.Apply(s.Fetch(context.Background(), newer)) {
		t.Fatal("latest fetch should apply")
	}
	if s.Apply(oldRes) {
		t.Fatal("stale fetch should be dropped")
	}
	if len(s.Stations()) != 1 || s.Stations()[0].ID != 7 {
		t.Errorf("stations = %+v", s.Stations())
	}
}

func TestNonAdminMutationsNeverCallAPI(t *testing.T) {
	api := &fakeAPI{perms: models.Permissions{CanViewStations: true}}
	rec := &recorder{}
	s := New(api, Options{Publisher: rec})
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	id := int64(3)
	if err := s.Save(context.Background(), nil, models.StationPayload{Name: "x"}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("create err = %v", err)
	}
	if err := s.Save(context.Background(), &id, models.StationPayload{Name: "x"}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("update err = %v", err)
	}
	if err := s.Delete(context.Background(), id); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("delete err = %v", err)
	}

	if api.mutations() != 0 {
		t.Errorf("api mutations = %d, want 0", api.mutations())
	}
	if toast := s.Toast(); toast == nil || toast.Message != AdminOnly || toast.Severity != SeverityError {
		t.Errorf("toast = %+v", toast)
	}
	if len(api.queries) != 1 {
		t.Errorf("refused actions should not reload, queries = %d", len(api.queries))
	}
}

func TestFormShowsAdminOnlyMessage(t *testing.T) {
	s := New(&fakeAPI{}, Options{})
	in := form.New()
	for field, v := range map[string]string{
		form.FieldName: "Posto", form.FieldLatitude: "-23.5", form.FieldLongitude: "-46.6",
		form.FieldChargerType: "AC", form.FieldPowerKW: "22", form.FieldNumSpots: "2",
		form.FieldState: "SP", form.FieldCity: "São Paulo",
	} {
		in = in.Set(field, v)
	}

	out := form.Submit(context.Background(), in, s.Save)
	if out.Saved || out.Message != AdminOnly {
		t.Errorf("outcome = %+v", out)
	}
}

func TestSaveCreatesThenReloads(t *testing.T) {
	api := &fakeAPI{perms: admin}
	rec := &recorder{}
	s := New(api, Options{Publisher: rec})
	_ = s.Load(context.Background())

	if err := s.Save(context.Background(), nil, models.StationPayload{Name: "Nova"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if len(api.created) != 1 || len(api.queries) != 2 {
		t.Errorf("created=%d queries=%d", len(api.created), len(api.queries))
	}
	var saved *Event
	for i := range rec.events {
		if rec.events[i].Type == EventStationSaved {
			saved = &rec.events[i]
		}
	}
	if saved == nil || saved.StationID != 42 || !saved.Created {
		t.Errorf("saved event = %+v", saved)
	}
	if s.Toast() == nil || s.Toast().Message != CreatedMessage {
		t.Errorf("toast = %+v", s.Toast())
	}
}

func TestCommitDoesNotReload(t *testing.T) {
	api := &fakeAPI{perms: admin}
	s := New(api, Options{})
	_ = s.Load(context.Background())

	m, err := s.PrepareSave(nil, models.StationPayload{Name: "Nova"})
	if err != nil {
		t.Fatalf("PrepareSave() error: %v", err)
	}
	if err := s.Commit(context.Background(), m); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	m, _ = s.PrepareDelete(7)
	if err := s.Commit(context.Background(), m); err != nil {
		t.Fatalf("Commit(delete) error: %v", err)
	}

	if len(api.created) != 1 || len(api.deleted) != 1 || len(api.queries) != 1 {
		t.Errorf("created=%d deleted=%d queries=%d, want 1/1/1", len(api.created), len(api.deleted), len(api.queries))
	}
	if s.Toast() == nil || s.Toast().Message != DeletedMessage {
		t.Errorf("toast = %+v", s.Toast())
	}
}

func TestSaveReturnsAPIMessage(t *testing.T) {
	api := &fakeAPI{perms: admin, mutateErr: &clients.HTTPError{StatusCode: 400, Title: "Validation error", Message: "Invalid latitude"}}
	s := New(api, Options{})
	_ = s.Load(context.Background())

	id := int64(5)
	err := s.Save(context.Background(), &id, models.StationPayload{})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := clients.MessageOf(err, SaveFailed); got != "Invalid latitude" {
		t.Errorf("message = %q", got)
	}
	if len(api.queries) != 1 {
		t.Errorf("failed save should not reload, queries = %d", len(api.queries))
	}
}

func TestForbiddenMapsToAdminOnly(t *testing.T) {
	api := &fakeAPI{perms: admin, mutateErr: &clients.HTTPError{StatusCode: http.StatusForbidden}}
	s := New(api, Options{})
	_ = s.Load(context.Background())

	err := s.Delete(context.Background(), 9)
	var perr *PermissionError
	if !errors.As(err, &perr) || perr.UserMessage() != AdminOnly {
		t.Fatalf("err = %v", err)
	}
	if s.Toast().Message != AdminOnly {
		t.Errorf("toast = %+v", s.Toast())
	}
}

func TestDeleteFailure(t *testing.T) {
	api := &fakeAPI{perms: admin, mutateErr: errors.New("boom")}
	s := New(api, Options{})
	_ = s.Load(context.Background())

	if err := s.Delete(context.Background(), 9); err == nil {
		t.Fatal("expected error")
	}
	if s.ErrorMessage() != DeleteFailed || s.Toast().Message != DeleteFailed {
		t.Errorf("error=%q toast=%+v", s.ErrorMessage(), s.Toast())
	}
}

func TestDeleteClearsSelection(t *testing.T) {
	api := &fakeAPI{perms: admin}
	s := New(api, Options{})
	_ = s.Load(context.Background())
	s.Select(9)

	if err := s.Delete(context.Background(), 9); err != nil {
		t.Fatal(err)
	}
	if s.Selected() != 0 || len(api.deleted) != 1 {
		t.Errorf("selected=%d deleted=%v", s.Selected(), api.deleted)
	}
}

func TestToastDecays(t *testing.T) {
	s := New(&fakeAPI{}, Options{ToastInterval: 100 * time.Millisecond, ToastLifetime: time.Second})
	s.Notify(SeverityInfo, "hello")

	for i := 0; i < 9; i++ {
		s.Tick()
	}
	if !s.Toast().Visible() {
		t.Fatal("toast dismissed too early")
	}
	if p := s.Toast().Progress; p < 9.9 || p > 10.1 {
		t.Errorf("progress = %v, want about 10", p)
	}
	s.Tick()
	if s.Toast() != nil {
		t.Errorf("toast = %+v, want dismissed", s.Toast())
	}
	s.Tick()
}

func TestDefaultToastClock(t *testing.T) {
	s := New(&fakeAPI{}, Options{})
	if s.TickInterval() != DefaultToastInterval {
		t.Errorf("interval = %v", s.TickInterval())
	}
	s.Notify(SeverityInfo, "x")
	s.Tick()
	if p := s.Toast().Progress; p != 98 {
		t.Errorf("progress after one tick = %v, want 98", p)
	}
}

func TestMapFollowsSelection(t *testing.T) {
	api := &fakeAPI{page: &models.StationPage{
		Stations: []models.Station{{ID: 1, Latitude: -23, Longitude: -46}, {ID: 2, Latitude: -3, Longitude: -60}},
		Pages:    1, CurrentPage: 1,
	}}
	s := New(api, Options{})
	_ = s.Load(context.Background())

	if v := s.Map().Viewport; v.Bounds == nil {
		t.Errorf("viewport = %+v, want bounds", v)
	}
	s.Select(2)
	if v := s.Map().Viewport; v.Zoom != 15 || v.Center.Lat != -3 {
		t.Errorf("viewport = %+v", v)
	}
	s.ClearSelection()
	if s.Selected() != 0 {
		t.Error("selection not cleared")
	}
}

func TestRefreshPermissions(t *testing.T) {
	api := &fakeAPI{perms: admin}
	s := New(api, Options{})
	if err := s.RefreshPermissions(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !s.CanManage() || len(api.queries) != 0 {
		t.Errorf("manage=%v queries=%d", s.CanManage(), len(api.queries))
	}
}
