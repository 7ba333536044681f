package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"evdash/backend/libs/httpx"
	"evdash/backend/services/dashboard/internal/filter"
	"evdash/backend/services/dashboard/internal/models"
	"evdash/backend/services/dashboard/internal/shell"
)

var filterLabels = map[string][2]string{
	"type":   {"Charger Type", "All Types"},
	"status": {"Status", "All Status"},
	"state":  {"State", "All States"},
}

type filterField struct {
	Name    string
	Label   string
	Value   string
	Options []models.Option
}

type stationRow struct {
	models.Station
	Selected  bool
	SelectURL string
}

type dashboardView struct {
	layout
	Rows              []stationRow
	Filters           []filterField
	ActiveFilters     int
	Page              int
	Pages             int
	Total             int
	PrevURL           string
	NextURL           string
	CanManage         bool
	Error             string
	Selected          *models.Station
	Stats             *models.StationStats
	ClearSelectionURL string
	ReturnTo          string
	MapURL            string
}

// dashboardURL encodes the dashboard state as a path with query.
func dashboardURL(path string, f filter.Filter, page int, selected int64) string {
	q := url.Values{}
	for _, field := range filter.Fields {
		if v := f.Get(field); v != "" {
			q.Set(field, v)
		}
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if selected > 0 {
		q.Set("selected", strconv.FormatInt(selected, 10))
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// shellFromQuery restores a shell from the dashboard query string.
func (h *Handler) shellFromQuery(r *http.Request) *shell.Shell {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	selected, _ := strconv.ParseInt(q.Get("selected"), 10, 64)
	sh := h.newShell(storeFrom(r.Context()))
	sh.Restore(filter.FromQuery(q), page, selected)
	return sh
}

// safeReturn keeps redirects on this site.
func safeReturn(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

// Dashboard renders the station list, filter panel and map.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sh := h.shellFromQuery(r)
	_ = sh.Load(r.Context())

	f := sh.Filter()
	view := dashboardView{
		layout:        h.layout(w, r, "Dashboard"),
		ActiveFilters: f.ActiveCount(),
		Page:          sh.Page(),
		Pages:         sh.Pages(),
		Total:         sh.Total(),
		CanManage:     sh.CanManage(),
		Error:         sh.ErrorMessage(),
		ReturnTo:      dashboardURL("/", f, sh.Page(), sh.Selected()),
		MapURL:        dashboardURL("/stations/map.json", f, sh.Page(), sh.Selected()),
	}
	for _, field := range filter.Fields {
		opts := filter.Options(field)
		opts[0].Label = filterLabels[field][1]
		view.Filters = append(view.Filters, filterField{
			Name:    field,
			Label:   filterLabels[field][0],
			Value:   f.Get(field),
			Options: opts,
		})
	}
	for _, st := range sh.Stations() {
		view.Rows = append(view.Rows, stationRow{
			Station:   st,
			Selected:  st.ID == sh.Selected(),
			SelectURL: dashboardURL("/", f, sh.Page(), st.ID),
		})
	}
	if st, ok := sh.SelectedStation(); ok {
		view.Selected = &st
		view.ClearSelectionURL = dashboardURL("/", f, sh.Page(), 0)
	}
	if stats, err := storeFrom(r.Context()).Client().Stats(r.Context()); err != nil {
		h.logger.Warn("failed to fetch station stats", zap.Error(err))
	} else {
		view.Stats = stats
	}
	if sh.HasPrev() {
		view.PrevURL = dashboardURL("/", f, sh.Page()-1, 0)
	}
	if sh.HasNext() {
		view.NextURL = dashboardURL("/", f, sh.Page()+1, 0)
	}
	h.render(w, http.StatusOK, "dashboard.html", view)
}

// MapData returns markers and viewport for the dashboard query as JSON.
func (h *Handler) MapData(w http.ResponseWriter, r *http.Request) {
	sh := h.shellFromQuery(r)
	if err := sh.Load(r.Context()); err != nil {
		httpx.WriteError(w, http.StatusBadGateway, "Bad Gateway", sh.ErrorMessage())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sh.Map())
}

// Live subscribes the browser to station change events.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	if h.liveServer == nil {
		httpx.WriteError(w, http.StatusNotFound, "Not Found", "live updates are disabled")
		return
	}
	h.liveServer.Serve(w, r, storeFrom(r.Context()).Username())
}
