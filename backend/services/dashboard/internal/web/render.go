package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"evdash/backend/services/dashboard/internal/mapview"
	"evdash/backend/services/dashboard/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageNames = []string{"login.html", "dashboard.html", "form.html", "confirm_delete.html"}

type renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"statusLabel": mapview.StatusLabel,
	"statusColor": mapview.StatusColor,
	"typeLabel":   mapview.TypeLabel,
	"typeColor":   mapview.TypeColor,
	"glyph":       mapview.TypeGlyph,
	"coord": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 4, 64)
	},
	"power": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
}

func newRenderer() (*renderer, error) {
	r := &renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// layout is embedded by every page view.
type layout struct {
	Title           string
	Username        string
	Role            string
	Toasts          []session.Flash
	ToastIntervalMS int64
	ToastLifetimeMS int64
}

func (h *Handler) layout(w http.ResponseWriter, r *http.Request, title string) layout {
	l := layout{
		Title:           title,
		Toasts:          h.cookies.Flashes(w, r),
		ToastIntervalMS: h.toastInterval.Milliseconds(),
		ToastLifetimeMS: h.toastLifetime.Milliseconds(),
	}
	if store := storeFrom(r.Context()); store != nil {
		l.Username = store.Username()
		l.Role = store.Role()
	}
	return l
}

func (h *Handler) render(w http.ResponseWriter, status int, page string, data interface{}) {
	t, ok := h.pages.pages[page]
	if !ok {
		h.logger.Error("unknown page", zap.String("page", page))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("failed to render page", zap.String("page", page), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
