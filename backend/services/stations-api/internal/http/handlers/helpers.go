package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"evdash/backend/libs/httpx"
	"evdash/backend/services/stations-api/internal/service"
)

const invalidJSONMessage = "Request body must contain valid JSON"

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	httpx.WriteJSON(w, status, payload)
}

func writeError(w http.ResponseWriter, status int, errTitle, message string) {
	httpx.WriteError(w, status, errTitle, message)
}

// writeValidation writes a 400 with every field message joined.
func writeValidation(w http.ResponseWriter, err error) bool {
	var verrs service.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	writeError(w, http.StatusBadRequest, "Validation error", verrs.Error())
	return true
}

func routeParam(r *http.Request, key string) string {
	return strings.TrimSpace(chi.URLParam(r, key))
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(routeParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil {
		return def
	}
	return v
}

func queryFloat(r *http.Request, key string) *float64 {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
