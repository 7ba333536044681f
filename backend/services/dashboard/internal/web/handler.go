package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"evdash/backend/libs/httpx"
	"evdash/backend/services/dashboard/internal/clients"
	"evdash/backend/services/dashboard/internal/live"
	"evdash/backend/services/dashboard/internal/session"
	"evdash/backend/services/dashboard/internal/shell"
)

// StorageFactory returns the session storage for a browser session id.
type StorageFactory func(id string) session.Storage

// Options wire the web front-end.
type Options struct {
	API           *clients.Client
	Cookies       *session.Cookies
	Storage       StorageFactory
	Live          *live.Manager
	LiveServer    *live.Server
	ToastInterval time.Duration
	ToastLifetime time.Duration
	Logger        *zap.Logger
}

// Handler serves the dashboard pages.
type Handler struct {
	api           *clients.Client
	cookies       *session.Cookies
	storage       StorageFactory
	live          *live.Manager
	liveServer    *live.Server
	toastInterval time.Duration
	toastLifetime time.Duration
	pages         *renderer
	logger        *zap.Logger
}

// NewHandler parses the templates and returns a Handler.
func NewHandler(opts Options) (*Handler, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ToastInterval <= 0 {
		opts.ToastInterval = shell.DefaultToastInterval
	}
	if opts.ToastLifetime <= 0 {
		opts.ToastLifetime = shell.DefaultToastLifetime
	}
	return &Handler{
		api:           opts.API,
		cookies:       opts.Cookies,
		storage:       opts.Storage,
		live:          opts.Live,
		liveServer:    opts.LiveServer,
		toastInterval: opts.ToastInterval,
		toastLifetime: opts.ToastLifetime,
		pages:         pages,
		logger:        opts.Logger,
	}, nil
}

// Routes builds the dashboard router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "page not found", http.StatusNotFound)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "dashboard"})
	})
	r.Handle("/static/*", http.StripPrefix("/static/", staticHandler()))

	r.Group(func(r chi.Router) {
		r.Use(h.withSession)

		r.Get("/login", h.LoginPage)
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(h.requirePage)
			r.Get("/", h.Dashboard)
			r.Get("/stations/new", h.NewStation)
			r.Post("/stations", h.SaveStation)
			r.Get("/stations/{id}/edit", h.EditStation)
			r.Post("/stations/{id}", h.SaveStation)
			r.Get("/stations/{id}/delete", h.ConfirmDelete)
			r.Post("/stations/{id}/delete", h.DeleteStation)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.requireAPI)
			r.Get("/stations/map.json", h.MapData)
			r.Get("/ws", h.Live)
		})
	})
	return r
}

type ctxKey string

const storeKey ctxKey = "sessionStore"

func storeFrom(ctx context.Context) *session.Store {
	s, _ := ctx.Value(storeKey).(*session.Store)
	return s
}

// withSession resolves the cookie's session id and restores the session from storage.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := h.cookies.ID(w, r)
		if err != nil {
			h.logger.Error("failed to resolve session cookie", zap.Error(err))
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}
		store := session.NewStore(h.api, h.storage(id), h.logger)
		if err := store.Restore(r.Context()); err != nil {
			h.logger.Warn("failed to restore session", zap.Error(err))
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), storeKey, store)))
	})
}

func (h *Handler) requirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !storeFrom(r.Context()).Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) requireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !storeFrom(r.Context()).Authenticated() {
			httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// newShell builds a shell for the signed-in user.
func (h *Handler) newShell(store *session.Store) *shell.Shell {
	opts := shell.Options{
		Logger:        h.logger,
		Username:      store.Username(),
		ToastInterval: h.toastInterval,
		ToastLifetime: h.toastLifetime,
	}
	if h.live != nil {
		opts.Publisher = h.live
	}
	return shell.New(store.Client(), opts)
}

// flashToast carries the shell's toast across the redirect that follows a POST.
func (h *Handler) flashToast(w http.ResponseWriter, r *http.Request, sh *shell.Shell) {
	t := sh.Toast()
	if t == nil {
		return
	}
	if err := h.cookies.AddFlash(w, r, session.Flash{Severity: string(t.Severity), Message: t.Message}); err != nil {
		h.logger.Warn("failed to store flash", zap.Error(err))
	}
}
