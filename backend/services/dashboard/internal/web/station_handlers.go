package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"evdash/backend/services/dashboard/internal/clients"
	"evdash/backend/services/dashboard/internal/form"
	"evdash/backend/services/dashboard/internal/models"
	"evdash/backend/services/dashboard/internal/shell"
)

const stationLoadFailed = "Failed to load station"

type formView struct {
	layout
	Input        form.Input
	Errors       form.Errors
	Message      string
	Action       string
	ReturnTo     string
	TypeOptions  []models.Option
	StatusOpts   []models.Option
	StateOptions []models.Option
}

type confirmView struct {
	layout
	Station  models.Station
	ReturnTo string
}

var formTypeOptions = []models.Option{
	{Value: models.ChargerTypeAC, Label: "AC (Corrente Alternada)"},
	{Value: models.ChargerTypeDC, Label: "DC (Corrente Contínua)"},
	{Value: models.ChargerTypeBoth, Label: "AC/DC (Ambos)"},
}

var formStatusOptions = []models.Option{
	{Value: models.StatusOperational, Label: "Operacional"},
	{Value: models.StatusMaintenance, Label: "Em Manutenção"},
	{Value: models.StatusInactive, Label: "Inativo"},
}

func stationID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func returnTo(r *http.Request) string {
	if v := r.FormValue("return_to"); v != "" {
		return safeReturn(v)
	}
	return "/"
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, in form.Input, errs form.Errors, message string) {
	title := "Nova Estação de Carregamento"
	action := "/stations"
	if in.Editing() {
		title = "Editar Estação"
		action = "/stations/" + strconv.FormatInt(in.ID, 10)
	}
	h.render(w, status, "form.html", formView{
		layout:       h.layout(w, r, title),
		Input:        in,
		Errors:       errs,
		Message:      message,
		Action:       action,
		ReturnTo:     returnTo(r),
		TypeOptions:  formTypeOptions,
		StatusOpts:   formStatusOptions,
		StateOptions: models.StateOptions,
	})
}

// gate refreshes permissions and reports whether the user may continue. A refusal is
// flashed and the browser sent back.
func (h *Handler) gate(w http.ResponseWriter, r *http.Request, sh *shell.Shell, check func() error) bool {
	if err := sh.RefreshPermissions(r.Context()); err != nil {
		h.logger.Warn("failed to refresh permissions", zap.Error(err))
	}
	if err := check(); err != nil {
		h.flashToast(w, r, sh)
		http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
		return false
	}
	return true
}

// fetchStation loads a station for the edit and delete pages, flashing failures.
func (h *Handler) fetchStation(w http.ResponseWriter, r *http.Request, sh *shell.Shell, id int64) (*models.Station, bool) {
	st, err := storeFrom(r.Context()).Client().GetStation(r.Context(), id)
	if err != nil {
		h.logger.Warn("failed to load station", zap.Int64("station_id", id), zap.Error(err))
		sh.Notify(shell.SeverityError, clients.MessageOf(err, stationLoadFailed))
		h.flashToast(w, r, sh)
		http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
		return nil, false
	}
	return st, true
}

// NewStation shows an empty form.
func (h *Handler) NewStation(w http.ResponseWriter, r *http.Request) {
	sh := h.newShell(storeFrom(r.Context()))
	if !h.gate(w, r, sh, func() error {
		_, err := sh.PrepareSave(nil, models.StationPayload{})
		return err
	}) {
		return
	}
	h.renderForm(w, r, http.StatusOK, form.New(), nil, "")
}

// EditStation shows the form filled from the station.
func (h *Handler) EditStation(w http.ResponseWriter, r *http.Request) {
	id, ok := stationID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	sh := h.newShell(storeFrom(r.Context()))
	if !h.gate(w, r, sh, func() error {
		_, err := sh.PrepareSave(&id, models.StationPayload{})
		return err
	}) {
		return
	}
	st, ok := h.fetchStation(w, r, sh, id)
	if !ok {
		return
	}
	h.renderForm(w, r, http.StatusOK, form.FromStation(*st), nil, "")
}

// SaveStation handles both create and update submissions.
func (h *Handler) SaveStation(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	in := form.New()
	if chi.URLParam(r, "id") != "" {
		id, ok := stationID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		in.ID = id
	}
	for _, field := range form.Fields {
		in = in.Set(field, r.PostFormValue(field))
	}

	sh := h.newShell(storeFrom(r.Context()))
	if err := sh.RefreshPermissions(r.Context()); err != nil {
		h.logger.Warn("failed to refresh permissions", zap.Error(err))
	}
	// The redirect loads a fresh page, so the shell is not reloaded here.
	out := form.Submit(r.Context(), in, func(ctx context.Context, id *int64, p models.StationPayload) error {
		m, err := sh.PrepareSave(id, p)
		if err != nil {
			return err
		}
		return sh.Commit(ctx, m)
	})
	switch {
	case out.Saved:
		h.flashToast(w, r, sh)
		http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
	case len(out.Errors) > 0:
		h.renderForm(w, r, http.StatusUnprocessableEntity, in, out.Errors, "")
	default:
		h.renderForm(w, r, http.StatusBadRequest, in, nil, out.Message)
	}
}

// ConfirmDelete asks before deleting.
func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := stationID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	sh := h.newShell(storeFrom(r.Context()))
	if !h.gate(w, r, sh, func() error {
		_, err := sh.PrepareDelete(id)
		return err
	}) {
		return
	}
	st, ok := h.fetchStation(w, r, sh, id)
	if !ok {
		return
	}
	h.render(w, http.StatusOK, "confirm_delete.html", confirmView{
		layout:   h.layout(w, r, "Confirmar Exclusão"),
		Station:  *st,
		ReturnTo: returnTo(r),
	})
}

// DeleteStation removes the station and returns to the dashboard.
func (h *Handler) DeleteStation(w http.ResponseWriter, r *http.Request) {
	id, ok := stationID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	sh := h.newShell(storeFrom(r.Context()))
	if err := sh.RefreshPermissions(r.Context()); err != nil {
		h.logger.Warn("failed to refresh permissions", zap.Error(err))
	}
	m, err := sh.PrepareDelete(id)
	if err == nil {
		err = sh.Commit(r.Context(), m)
	}
	if err != nil && !errors.Is(err, shell.ErrPermissionDenied) {
		h.logger.Warn("delete failed", zap.Int64("station_id", id), zap.Error(err))
	}
	h.flashToast(w, r, sh)
	http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
}
