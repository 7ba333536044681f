package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"evdash/backend/services/dashboard/internal/clients"
	"evdash/backend/services/dashboard/internal/form"
	"evdash/backend/services/dashboard/internal/models"
	"evdash/backend/services/dashboard/internal/session"
	"evdash/backend/services/dashboard/internal/shell"
)

type fakeAPI struct {
	mu        sync.Mutex
	queries   []url.Values
	mutations int
}

func (f *fakeAPI) lastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func (f *fakeAPI) mutationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutations
}

func reply(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != body.Username+"123" {
			reply(w, 401, map[string]string{"error": "Unauthorized", "message": "Invalid username or password"})
			return
		}
		reply(w, 200, models.LoginResponse{Token: body.Username + "-token", User: models.User{Username: body.Username, Role: body.Username}})
	})
	mux.HandleFunc("GET /auth/permissions", func(w http.ResponseWriter, r *http.Request) {
		admin := r.Header.Get("Authorization") == "Bearer admin-token"
		reply(w, 200, models.PermissionsResponse{Permissions: models.Permissions{CanViewStations: true, CanManageStations: admin, IsAdmin: admin}})
	})
	mux.HandleFunc("GET /cargas", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.queries = append(f.queries, r.URL.Query())
		f.mu.Unlock()
		reply(w, 200, models.StationPage{
			Stations: []models.Station{
				{ID: 1, Name: "Shopping Ibirapuera", Latitude: -23.6104, Longitude: -46.6663, ChargerType: "BOTH", PowerKW: 150, NumSpots: 4, Status: "OPERATIONAL", State: "SP", City: "São Paulo"},
				{ID: 2, Name: "Posto Manaus Centro", Latitude: -3.119, Longitude: -60.0217, ChargerType: "AC", PowerKW: 22, NumSpots: 2, Status: "MAINTENANCE", State: "AM", City: "Manaus"},
			},
			Total: 2, Pages: 1, CurrentPage: 1,
		})
	})
	mux.HandleFunc("POST /cargas", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.mutations++
		f.mu.Unlock()
		reply(w, 201, map[string]interface{}{"station": models.Station{ID: 3}})
	})
	return mux
}

func newTestApp(t *testing.T, copied *string) (App, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	store := session.NewStore(clients.New(srv.URL, srv.Client()), session.NewMemoryStorage(), zap.NewNop())
	a := NewApp(store, Options{
		ToastInterval: time.Millisecond,
		ToastLifetime: time.Second,
		Copy: func(s string) error {
			if copied != nil {
				*copied = s
			}
			return nil
		},
	})
	a.width, a.height = 120, 40
	return a, api
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send delivers msg and runs the resulting commands, dropping toast ticks.
func send(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	model, cmd := a.Update(msg)
	a = model.(App)
	return run(t, a, cmd, 0)
}

func run(t *testing.T, a App, cmd tea.Cmd, depth int) App {
	t.Helper()
	if cmd == nil || depth > 6 {
		return a
	}
	msg := cmd()
	switch msg := msg.(type) {
	case toastTickMsg:
		return a
	case tea.BatchMsg:
		for _, c := range msg {
			a = run(t, a, c, depth+1)
		}
		return a
	}
	model, next := a.Update(msg)
	return run(t, model.(App), next, depth+1)
}

func typeText(t *testing.T, a App, s string) App {
	for _, r := range s {
		a = send(t, a, key(string(r)))
	}
	return a
}

func signIn(t *testing.T, a App, user string) App {
	t.Helper()
	a = typeText(t, a, user)
	a = send(t, a, key("tab"))
	a = typeText(t, a, user+"123")
	a = send(t, a, key("enter"))
	if a.view != viewList {
		t.Fatalf("view = %v after login, message %q", a.view, a.login.message)
	}
	return a
}

func TestLoginLoadsStations(t *testing.T) {
	a, api := newTestApp(t, nil)
	if a.view != viewLogin {
		t.Fatalf("view = %v, want login", a.view)
	}
	a = signIn(t, a, "admin")

	if len(a.sh.Stations()) != 2 || !a.sh.CanManage() {
		t.Errorf("stations=%d manage=%v", len(a.sh.Stations()), a.sh.CanManage())
	}
	if q := api.lastQuery(); q.Get("page") != "1" || q.Get("per_page") != "50" {
		t.Errorf("query = %v", q)
	}
	out := a.View()
	for _, want := range []string{"Welcome, admin", "Shopping Ibirapuera", "Página 1 de 1", "a add"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestLoginFailureMessage(t *testing.T) {
	a, _ := newTestApp(t, nil)
	a = typeText(t, a, "admin")
	a = send(t, a, key("tab"))
	a = typeText(t, a, "wrong")
	a = send(t, a, key("enter"))

	if a.view != viewLogin || a.login.message != "Invalid username or password" {
		t.Errorf("view=%v message=%q", a.view, a.login.message)
	}
}

func TestRegisterMismatch(t *testing.T) {
	a, _ := newTestApp(t, nil)
	a = send(t, a, tea.KeyMsg{Type: tea.KeyCtrlR})
	a = typeText(t, a, "novo")
	a = send(t, a, key("tab"))
	a = typeText(t, a, "abcdef")
	a = send(t, a, key("tab"))
	a = typeText(t, a, "abcdeg")
	a = send(t, a, key("enter"))

	if a.login.message != session.PasswordsMismatch {
		t.Errorf("message = %q", a.login.message)
	}
}

func TestNonAdminCannotOpenForms(t *testing.T) {
	a, api := newTestApp(t, nil)
	a = signIn(t, a, "user")

	for _, k := range []string{"a", "e", "d"} {
		a = send(t, a, key(k))
		if a.view != viewList {
			t.Fatalf("key %q opened view %v", k, a.view)
		}
	}
	if toast := a.sh.Toast(); toast == nil || toast.Message != shell.AdminOnly {
		t.Errorf("toast = %+v", toast)
	}
	if api.mutationCount() != 0 {
		t.Errorf("mutations = %d", api.mutationCount())
	}
	if strings.Contains(a.View(), "a add") {
		t.Error("help should not offer add to non-admins")
	}
}

func TestStatusFilterResetsPage(t *testing.T) {
	a, api := newTestApp(t, nil)
	a = signIn(t, a, "user")
	a = send(t, a, key("s"))
	a = send(t, a, key("s"))

	q := api.lastQuery()
	if q.Get("status") != "MAINTENANCE" || q.Get("page") != "1" {
		t.Errorf("query = %v, want status=MAINTENANCE page=1", q)
	}
	a = send(t, a, key("x"))
	if q := api.lastQuery(); q.Has("status") {
		t.Errorf("cleared query = %v", q)
	}
}

func TestSelectAndCopy(t *testing.T) {
	var copied string
	a, _ := newTestApp(t, &copied)
	a = signIn(t, a, "user")

	a = send(t, a, key("j"))
	a = send(t, a, key("enter"))
	if a.sh.Selected() != 2 {
		t.Fatalf("selected = %d, want 2", a.sh.Selected())
	}
	if !strings.Contains(a.View(), "Lat: -3.1190, Lng: -60.0217") {
		t.Error("detail panel missing coordinates")
	}

	a = send(t, a, key("c"))
	if copied != "-3.119000, -60.021700" {
		t.Errorf("copied = %q", copied)
	}
	if a.sh.Toast() == nil || a.sh.Toast().Message != "Coordinates copied" {
		t.Errorf("toast = %+v", a.sh.Toast())
	}
}

func TestCreateThroughForm(t *testing.T) {
	a, api := newTestApp(t, nil)
	a = signIn(t, a, "admin")
	a = send(t, a, key("a"))
	if a.view != viewForm {
		t.Fatalf("view = %v, want form", a.view)
	}

	in := form.New()
	for field, v := range map[string]string{
		form.FieldName: "Eletroposto", form.FieldLatitude: "95", form.FieldLongitude: "-49.27",
		form.FieldChargerType: "DC", form.FieldPowerKW: "50", form.FieldNumSpots: "2",
		form.FieldState: "PR", form.FieldCity: "Curitiba",
	} {
		in = in.Set(field, v)
	}
	a.form.in = in
	a = send(t, a, submitFormMsg{})
	if a.form.errors[form.FieldLatitude] == "" || api.mutationCount() != 0 {
		t.Fatalf("errors=%v mutations=%d", a.form.errors, api.mutationCount())
	}

	a.form.in = a.form.in.Set(form.FieldLatitude, "-25.43")
	a = send(t, a, submitFormMsg{})
	if api.mutationCount() != 1 || a.view != viewList {
		t.Errorf("mutations=%d view=%v", api.mutationCount(), a.view)
	}
	if a.sh.Toast() == nil || a.sh.Toast().Message != shell.CreatedMessage {
		t.Errorf("toast = %+v", a.sh.Toast())
	}
}

func TestStaleShellResultsIgnored(t *testing.T) {
	a, _ := newTestApp(t, nil)
	a = signIn(t, a, "user")
	old := a.sh

	a = send(t, a, key("L"))
	if a.view != viewLogin || a.sh != nil {
		t.Fatalf("view=%v after logout", a.view)
	}
	model, _ := a.Update(fetchedMsg{sh: old, res: shell.Result{Gen: 1}})
	if model.(App).sh != nil {
		t.Error("result for a discarded shell should be ignored")
	}
}

func TestToastTickDismisses(t *testing.T) {
	a, _ := newTestApp(t, nil)
	a = signIn(t, a, "user")
	a.sh.Notify(shell.SeverityInfo, "hello")

	for i := 0; i < 5000 && a.sh.Toast() != nil; i++ {
		model, _ := a.Update(toastTickMsg{})
		a = model.(App)
	}
	if a.sh.Toast() != nil {
		t.Error("toast never dismissed")
	}
}

func TestEditRune(t *testing.T) {
	if got := editRune("São", "backspace"); got != "Sã" {
		t.Errorf("backspace = %q", got)
	}
	if got := editRune("ab", "enter"); got != "ab" {
		t.Errorf("enter = %q", got)
	}
	if got := editRune("ab", "ç"); got != "abç" {
		t.Errorf("rune = %q", got)
	}
}

func TestCycleOption(t *testing.T) {
	opts := models.StatusOptions
	if got := cycleOption(opts, "", 1); got != "OPERATIONAL" {
		t.Errorf("from empty = %q", got)
	}
	if got := cycleOption(opts, "OPERATIONAL", -1); got != "INACTIVE" {
		t.Errorf("wrap back = %q", got)
	}
}
