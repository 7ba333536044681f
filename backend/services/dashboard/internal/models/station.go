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

// Station mirrors the API's station record.
type Station struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	ChargerType string    `json:"charger_type"`
	PowerKW     float64   `json:"power_kw"`
	NumSpots    int       `json:"num_spots"`
	Status      string    `json:"status"`
	State       string    `json:"state"`
	City        string    `json:"city"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StationPayload is the typed body sent on create and update.
type StationPayload struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ChargerType string  `json:"charger_type"`
	PowerKW     float64 `json:"power_kw"`
	NumSpots    int     `json:"num_spots"`
	Status      string  `json:"status"`
	State       string  `json:"state"`
	City        string  `json:"city"`
}

// StationPage is the API's paginated list envelope.
type StationPage struct {
	Stations    []Station `json:"stations"`
	Total       int       `json:"total"`
	Pages       int       `json:"pages"`
	CurrentPage int       `json:"current_page"`
	PerPage     int       `json:"per_page"`
	HasNext     bool      `json:"has_next"`
	HasPrev     bool      `json:"has_prev"`
}

// StationStats is the aggregate returned by /cargas/stats.
type StationStats struct {
	TotalStations           int            `json:"total_stations"`
	StatusDistribution      map[string]int `json:"status_distribution"`
	ChargerTypeDistribution map[string]int `json:"charger_type_distribution"`
	TopStates               []struct {
		State string `json:"state"`
		Count int    `json:"count"`
	} `json:"top_states"`
}

// Option is a selectable value with a display label.
type Option struct {
	Value string
	Label string
}

// ChargerTypeOptions lists charger types in display order.
var ChargerTypeOptions = []Option{
	{ChargerTypeAC, "AC"},
	{ChargerTypeDC, "DC"},
	{ChargerTypeBoth, "Both AC/DC"},
}

// StatusOptions lists statuses in display order.
var StatusOptions = []Option{
	{StatusOperational, "Operational"},
	{StatusMaintenance, "Maintenance"},
	{StatusInactive, "Inactive"},
}

// StateOptions lists the Brazilian federative units.
var StateOptions = []Option{
	{"AC", "Acre"},
	{"AL", "Alagoas"},
	{"AP", "Amapá"},
	{"AM", "Amazonas"},
	{"BA", "Bahia"},
	{"CE", "Ceará"},
	{"DF", "Distrito Federal"},
	{"ES", "Espírito Santo"},
	{"GO", "Goiás"},
	{"MA", "Maranhão"},
	{"MT", "Mato Grosso"},
	{"MS", "Mato Grosso do Sul"},
	{"MG", "Minas Gerais"},
	{"PA", "Pará"},
	{"PB", "Paraíba"},
	{"PR", "Paraná"},
	{"PE", "Pernambuco"},
	{"PI", "Piauí"},
	{"RJ", "Rio de Janeiro"},
	{"RN", "Rio Grande do Norte"},
	{"RS", "Rio Grande do Sul"},
	{"RO", "Rondônia"},
	{"RR", "Roraima"},
	{"SC", "Santa Catarina"},
	{"SP", "São Paulo"},
	{"SE", "Sergipe"},
	{"TO", "Tocantins"},
}

// HasOption reports whether value is one of opts.
func HasOption(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}
