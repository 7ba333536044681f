package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"evdash/backend/libs/httpx"
	"evdash/backend/services/stations-api/internal/models"
	"evdash/backend/services/stations-api/internal/service"
)

// StationService is the subset of service.StationService used by the handlers.
type StationService interface {
	List(ctx context.Context, f models.StationFilter, page, perPage int) (*models.StationPage, error)
	Get(ctx context.Context, id int64) (*models.Station, error)
	Create(ctx context.Context, in service.StationInput) (*models.Station, error)
	Update(ctx context.Context, id int64, in service.StationInput) (*models.Station, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.StationStats, error)
	ByLocation(ctx context.Context, state, city string) ([]models.Station, error)
	ByStatus(ctx context.Context, status string) ([]models.Station, error)
	ByType(ctx context.Context, chargerType string) ([]models.Station, error)
}

// StationsHandler serves the /cargas endpoints.
type StationsHandler struct {
	svc      StationService
	maxBytes int64
	logger   *zap.Logger
}

// NewStationsHandler creates StationsHandler.
func NewStationsHandler(svc StationService, maxBytes int64, logger *zap.Logger) *StationsHandler {
	return &StationsHandler{svc: svc, maxBytes: maxBytes, logger: logger}
}

// List handles GET /cargas.
func (h *StationsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.StationFilter{
		Type:     strings.TrimSpace(q.Get("type")),
		Status:   strings.TrimSpace(q.Get("status")),
		State:    strings.TrimSpace(q.Get("state")),
		City:     strings.TrimSpace(q.Get("city")),
		MinPower: queryFloat(r, "min_power"),
		MaxPower: queryFloat(r, "max_power"),
	}

	page, err := h.svc.List(r.Context(), filter, queryInt(r, "page", 1), queryInt(r, "per_page", 0))
	if err != nil {
		h.logger.Error("failed to list stations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve stations", "An unexpected error occurred while retrieving charging stations")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /cargas/{id}.
func (h *StationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Station not found", "Invalid station id")
		return
	}
	st, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeStationErr(w, id, err, "Failed to retrieve station", "retrieving the charging station")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Create handles POST /cargas.
func (h *StationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.StationInput
	if err := httpx.DecodeJSON(r, h.maxBytes, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", invalidJSONMessage)
		return
	}
	st, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.writeStationErr(w, 0, err, "Station creation failed", "creating the charging station")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Charging station created successfully",
		"station": st,
	})
}

// Update handles PUT /cargas/{id}.
func (h *StationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Station not found", "Invalid station id")
		return
	}
	var in service.StationInput
	if err := httpx.DecodeJSON(r, h.maxBytes, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", invalidJSONMessage)
		return
	}
	st, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		h.writeStationErr(w, id, err, "Station update failed", "updating the charging station")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Charging station updated successfully",
		"station": st,
	})
}

// Delete handles DELETE /cargas/{id}.
func (h *StationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Station not found", "Invalid station id")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeStationErr(w, id, err, "Station deletion failed", "deleting the charging station")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Charging station deleted successfully"})
}

// Stats handles GET /cargas/stats.
func (h *StationsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute stats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve statistics", "An unexpected error occurred while retrieving statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ByLocation handles GET /cargas/by-location.
func (h *StationsHandler) ByLocation(w http.ResponseWriter, r *http.Request) {
	stations, err := h.svc.ByLocation(r.Context(), r.URL.Query().Get("state"), r.URL.Query().Get("city"))
	if err != nil {
		h.logger.Error("failed to filter by location", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve stations by location", "An unexpected error occurred while filtering stations by location")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stations": stations, "count": len(stations)})
}

// ByStatus handles GET /cargas/by-status/{status}.
func (h *StationsHandler) ByStatus(w http.ResponseWriter, r *http.Request) {
	status := routeParam(r, "status")
	stations, err := h.svc.ByStatus(r.Context(), status)
	if err != nil {
		if writeValidation(w, err) {
			return
		}
		h.logger.Error("failed to filter by status", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve stations by status", "An unexpected error occurred while filtering stations by status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stations": stations,
		"count":    len(stations),
		"status":   strings.ToUpper(status),
	})
}

// ByType handles GET /cargas/by-type/{type}.
func (h *StationsHandler) ByType(w http.ResponseWriter, r *http.Request) {
	chargerType := routeParam(r, "type")
	stations, err := h.svc.ByType(r.Context(), chargerType)
	if err != nil {
		if writeValidation(w, err) {
			return
		}
		h.logger.Error("failed to filter by charger type", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve stations by charger type", "An unexpected error occurred while filtering stations by charger type")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stations":     stations,
		"count":        len(stations),
		"charger_type": strings.ToUpper(chargerType),
	})
}

func (h *StationsHandler) writeStationErr(w http.ResponseWriter, id int64, err error, errTitle, action string) {
	if errors.Is(err, service.ErrStationNotFound) {
		writeError(w, http.StatusNotFound, "Station not found", fmt.Sprintf("Charging station with ID %d was not found", id))
		return
	}
	if writeValidation(w, err) {
		return
	}
	h.logger.Error("station operation failed", zap.String("action", action), zap.Int64("station_id", id), zap.Error(err))
	writeError(w, http.StatusInternalServerError, errTitle, "An unexpected error occurred while "+action)
}
