package web

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"evdash/backend/services/dashboard/internal/session"
)

type loginView struct {
	layout
	Tab      string
	Username string
	Error    string
	Success  string
}

// LoginPage shows the login and register tabs.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if storeFrom(r.Context()).Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	tab := "login"
	if r.URL.Query().Get("tab") == "register" {
		tab = "register"
	}
	h.render(w, http.StatusOK, "login.html", loginView{layout: h.layout(w, r, "Login"), Tab: tab})
}

// Login signs the browser session in.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	res := storeFrom(r.Context()).Login(r.Context(), username, r.PostFormValue("password"))
	if !res.Success {
		h.render(w, http.StatusUnauthorized, "login.html", loginView{
			layout:   h.layout(w, r, "Login"),
			Tab:      "login",
			Username: username,
			Error:    res.Message,
		})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Register creates an account and returns to the login tab.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	res := session.CheckConfirmation(password, r.PostFormValue("confirm_password"))
	if res.Success {
		res = storeFrom(r.Context()).Register(r.Context(), username, password)
	}
	if !res.Success {
		h.render(w, http.StatusBadRequest, "login.html", loginView{
			layout:   h.layout(w, r, "Register"),
			Tab:      "register",
			Username: username,
			Error:    res.Message,
		})
		return
	}
	h.render(w, http.StatusOK, "login.html", loginView{
		layout:   h.layout(w, r, "Login"),
		Tab:      "login",
		Username: username,
		Success:  res.Message,
	})
}

// Logout clears the session and expires the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := storeFrom(r.Context()).Logout(r.Context()); err != nil {
		h.logger.Warn("failed to clear session", zap.Error(err))
	}
	if err := h.cookies.Forget(w, r); err != nil {
		h.logger.Warn("failed to expire cookie", zap.Error(err))
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
