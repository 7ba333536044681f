package models

import "time"

// Charger types.
const (
	ChargerTypeAC   = "AC"
	ChargerTypeDC   = "DC"
	ChargerTypeBoth = "BOTH"
)

// Station statuses.
const (
	StatusOperational = "OPERATIONAL"
	StatusMaintenance = "MAINTENANCE"
	StatusInactive    = "INACTIVE"
)

// ChargerTypes lists accepted charger_type values.
var ChargerTypes = []string{ChargerTypeAC, ChargerTypeDC, ChargerTypeBoth}

// Statuses lists accepted status values.
var Statuses = []string{StatusOperational, StatusMaintenance, StatusInactive}

// Station is a charging-station record.
type Station struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Latitude    float64   `db:"latitude" json:"latitude"`
	Longitude   float64   `db:"longitude" json:"longitude"`
	ChargerType string    `db:"charger_type" json:"charger_type"`
	PowerKW     float64   `db:"power_kw" json:"power_kw"`
	NumSpots    int       `db:"num_spots" json:"num_spots"`
	Status      string    `db:"status" json:"status"`
	State       string    `db:"state" json:"state"`
	City        string    `db:"city" json:"city"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// StationFilter narrows station listings. Empty fields are ignored.
type StationFilter struct {
	Type     string
	Status   string
	State    string
	City     string
	MinPower *float64
	MaxPower *float64
}

// StationPage is the paginated list envelope.
type StationPage struct {
	Stations    []Station `json:"stations"`
	Total       int       `json:"total"`
	Pages       int       `json:"pages"`
	CurrentPage int       `json:"current_page"`
	PerPage     int       `json:"per_page"`
	HasNext     bool      `json:"has_next"`
	HasPrev     bool      `json:"has_prev"`
}

// StateCount is one row of the top-states aggregate.
type StateCount struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

// StationStats aggregates station counts.
type StationStats struct {
	TotalStations           int            `json:"total_stations"`
	StatusDistribution      map[string]int `json:"status_distribution"`
	ChargerTypeDistribution map[string]int `json:"charger_type_distribution"`
	TopStates               []StateCount   `json:"top_states"`
}
