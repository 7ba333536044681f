package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"evdash/backend/services/stations-api/internal/models"
)

// FieldError names one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects field errors; it is an error once non-empty.
type ValidationErrors []FieldError

// Add appends a field error.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// Err returns v as an error, or nil when empty.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// StationInput is the JSON body of create and update requests. Absent fields are nil.
type StationInput struct {
	Name        *string      `json:"name"`
	Latitude    *float64     `json:"latitude"`
	Longitude   *float64     `json:"longitude"`
	ChargerType *string      `json:"charger_type"`
	PowerKW     *float64     `json:"power_kw"`
	NumSpots    *json.Number `json:"num_spots"`
	Status      *string      `json:"status"`
	State       *string      `json:"state"`
	City        *string      `json:"city"`
}

// validate checks present fields; when full is set every field except status is required.
func (in *StationInput) validate(full bool) error {
	var errs ValidationErrors
	required := func(field string, present bool) bool {
		if !present && full {
			errs.Add(field, field+" is required")
		}
		return present
	}

	if required("name", in.Name != nil) {
		name := strings.TrimSpace(*in.Name)
		if name == "" || len(name) > 200 {
			errs.Add("name", "name must be between 1 and 200 characters")
		}
	}
	if required("latitude", in.Latitude != nil) && (*in.Latitude < -90 || *in.Latitude > 90) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}
	if required("longitude", in.Longitude != nil) && (*in.Longitude < -180 || *in.Longitude > 180) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}
	if required("charger_type", in.ChargerType != nil) && !oneOf(strings.ToUpper(strings.TrimSpace(*in.ChargerType)), models.ChargerTypes) {
		errs.Add("charger_type", "charger_type must be one of: "+strings.Join(models.ChargerTypes, ", "))
	}
	if required("power_kw", in.PowerKW != nil) && *in.PowerKW <= 0 {
		errs.Add("power_kw", "power_kw must be positive")
	}
	if required("num_spots", in.NumSpots != nil) {
		n, err := in.NumSpots.Int64()
		switch {
		case err != nil:
			errs.Add("num_spots", "num_spots must be an integer")
		case n <= 0:
			errs.Add("num_spots", "num_spots must be positive")
		}
	}
	if in.Status != nil && !oneOf(strings.ToUpper(strings.TrimSpace(*in.Status)), models.Statuses) {
		errs.Add("status", "status must be one of: "+strings.Join(models.Statuses, ", "))
	}
	if required("state", in.State != nil) {
		st := strings.TrimSpace(*in.State)
		if len(st) != 2 || !isLetters(st) {
			errs.Add("state", "state must be a two-letter code")
		}
	}
	if required("city", in.City != nil) {
		city := strings.TrimSpace(*in.City)
		if city == "" || len(city) > 100 {
			errs.Add("city", "city must be between 1 and 100 characters")
		}
	}
	return errs.Err()
}

// apply copies present fields onto s, normalizing enums and state to upper case.
func (in *StationInput) apply(s *models.Station) {
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Latitude != nil {
		s.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		s.Longitude = *in.Longitude
	}
	if in.ChargerType != nil {
		s.ChargerType = strings.ToUpper(strings.TrimSpace(*in.ChargerType))
	}
	if in.PowerKW != nil {
		s.PowerKW = *in.PowerKW
	}
	if in.NumSpots != nil {
		n, _ := in.NumSpots.Int64()
		s.NumSpots = int(n)
	}
	if in.Status != nil {
		s.Status = strings.ToUpper(strings.TrimSpace(*in.Status))
	}
	if in.State != nil {
		s.State = strings.ToUpper(strings.TrimSpace(*in.State))
	}
	if in.City != nil {
		s.City = strings.TrimSpace(*in.City)
	}
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func isLetters(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// NormalizeEnum upper-cases a path or query enum value and checks it against allowed.
func NormalizeEnum(field, value string, allowed []string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if !oneOf(v, allowed) {
		return "", ValidationErrors{{Field: field, Message: fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", "))}}
	}
	return v, nil
}
