package form

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"evdash/backend/services/dashboard/internal/clients"
	"evdash/backend/services/dashboard/internal/models"
)

// Field names, matching the API's JSON keys.
const (
	FieldName        = "name"
	FieldLatitude    = "latitude"
	FieldLongitude   = "longitude"
	FieldChargerType = "charger_type"
	FieldPowerKW     = "power_kw"
	FieldNumSpots    = "num_spots"
	FieldStatus      = "status"
	FieldState       = "state"
	FieldCity        = "city"
)

// Fields lists every field in display order.
var Fields = []string{
	FieldName, FieldLatitude, FieldLongitude, FieldChargerType, FieldPowerKW,
	FieldNumSpots, FieldStatus, FieldState, FieldCity,
}

// SaveFailed is shown when a save error carries no API message.
const SaveFailed = "Failed to save station"

// Errors maps field names to messages.
type Errors map[string]string

// Input is the form as typed.
type Input struct {
	ID          int64
	Name        string
	Latitude    string
	Longitude   string
	ChargerType string
	PowerKW     string
	NumSpots    string
	Status      string
	State       string
	City        string
}

// New returns an empty create form.
func New() Input {
	return Input{Status: models.StatusOperational}
}

// FromStation pre-fills an edit form.
func FromStation(s models.Station) Input {
	return Input{
		ID:          s.ID,
		Name:        s.Name,
		Latitude:    strconv.FormatFloat(s.Latitude, 'f', -1, 64),
		Longitude:   strconv.FormatFloat(s.Longitude, 'f', -1, 64),
		ChargerType: s.ChargerType,
		PowerKW:     strconv.FormatFloat(s.PowerKW, 'f', -1, 64),
		NumSpots:    strconv.Itoa(s.NumSpots),
		Status:      s.Status,
		State:       s.State,
		City:        s.City,
	}
}

// Editing reports whether the form updates an existing station.
func (in Input) Editing() bool {
	return in.ID != 0
}

// Get returns the raw value of field.
func (in Input) Get(field string) string {
	switch field {
	case FieldName:
		return in.Name
	case FieldLatitude:
		return in.Latitude
	case FieldLongitude:
		return in.Longitude
	case FieldChargerType:
		return in.ChargerType
	case FieldPowerKW:
		return in.PowerKW
	case FieldNumSpots:
		return in.NumSpots
	case FieldStatus:
		return in.Status
	case FieldState:
		return in.State
	case FieldCity:
		return in.City
	}
	return ""
}

// Set returns a copy with field replaced.
func (in Input) Set(field, value string) Input {
	switch field {
	case FieldName:
		in.Name = value
	case FieldLatitude:
		in.Latitude = value
	case FieldLongitude:
		in.Longitude = value
	case FieldChargerType:
		in.ChargerType = value
	case FieldPowerKW:
		in.PowerKW = value
	case FieldNumSpots:
		in.NumSpots = value
	case FieldStatus:
		in.Status = value
	case FieldState:
		in.State = value
	case FieldCity:
		in.City = value
	}
	return in
}

// parseFloat accepts finite decimal numbers only.
func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Validate checks every field. An empty result means the form can be submitted.
func (in Input) Validate() Errors {
	errs := Errors{}
	required := func(field, value, msg string) bool {
		if strings.TrimSpace(value) == "" {
			errs[field] = msg
			return false
		}
		return true
	}

	required(FieldName, in.Name, "Nome é obrigatório")

	if required(FieldLatitude, in.Latitude, "Latitude é obrigatória") {
		if v, ok := parseFloat(in.Latitude); !ok {
			errs[FieldLatitude] = "Deve ser um número válido"
		} else if v < -90 || v > 90 {
			errs[FieldLatitude] = "Deve estar entre -90 e 90"
		}
	}
	if required(FieldLongitude, in.Longitude, "Longitude é obrigatória") {
		if v, ok := parseFloat(in.Longitude); !ok {
			errs[FieldLongitude] = "Deve ser um número válido"
		} else if v < -180 || v > 180 {
			errs[FieldLongitude] = "Deve estar entre -180 e 180"
		}
	}
	if required(FieldChargerType, in.ChargerType, "Tipo de carregador é obrigatório") &&
		!models.HasOption(models.ChargerTypeOptions, in.ChargerType) {
		errs[FieldChargerType] = "Tipo de carregador inválido"
	}
	if required(FieldPowerKW, in.PowerKW, "Potência é obrigatória") {
		if v, ok := parseFloat(in.PowerKW); !ok || v <= 0 {
			errs[FieldPowerKW] = "Deve ser um número positivo"
		}
	}
	if required(FieldNumSpots, in.NumSpots, "Número de vagas é obrigatório") {
		if v, err := strconv.Atoi(strings.TrimSpace(in.NumSpots)); err != nil || v <= 0 {
			errs[FieldNumSpots] = "Deve ser um número inteiro positivo"
		}
	}
	if required(FieldStatus, in.Status, "Status é obrigatório") &&
		!models.HasOption(models.StatusOptions, in.Status) {
		errs[FieldStatus] = "Status inválido"
	}
	if required(FieldState, in.State, "Estado é obrigatório") &&
		!models.HasOption(models.StateOptions, strings.ToUpper(in.State)) {
		errs[FieldState] = "Estado inválido"
	}
	required(FieldCity, in.City, "Cidade é obrigatória")

	return errs
}

// Payload converts a valid form to the typed request body. Call Validate first.
func (in Input) Payload() models.StationPayload {
	lat, _ := parseFloat(in.Latitude)
	lng, _ := parseFloat(in.Longitude)
	power, _ := parseFloat(in.PowerKW)
	spots, _ := strconv.Atoi(strings.TrimSpace(in.NumSpots))
	return models.StationPayload{
		Name:        strings.TrimSpace(in.Name),
		Latitude:    lat,
		Longitude:   lng,
		ChargerType: in.ChargerType,
		PowerKW:     power,
		NumSpots:    spots,
		Status:      in.Status,
		State:       strings.ToUpper(strings.TrimSpace(in.State)),
		City:        strings.TrimSpace(in.City),
	}
}

// Saver persists a payload. id is nil for a new station.
type Saver func(ctx context.Context, id *int64, p models.StationPayload) error

// Outcome is the result of Submit.
type Outcome struct {
	Errors  Errors
	Message string
	Saved   bool
}

// Submit validates, converts and hands the payload to save. Nothing is sent when validation
// fails. A save error becomes the inline message.
func Submit(ctx context.Context, in Input, save Saver) Outcome {
	if errs := in.Validate(); len(errs) > 0 {
		return Outcome{Errors: errs}
	}
	var id *int64
	if in.Editing() {
		id = &in.ID
	}
	if err := save(ctx, id, in.Payload()); err != nil {
		return Outcome{Message: ErrorMessage(err)}
	}
	return Outcome{Saved: true}
}

// userMessager is implemented by errors that carry text meant for the user.
type userMessager interface {
	UserMessage() string
}

// ErrorMessage is the inline text for a failed save.
func ErrorMessage(err error) string {
	var um userMessager
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return clients.MessageOf(err, SaveFailed)
}
