package mapview

import (
	"math"

	"evdash/backend/services/dashboard/internal/models"
)

// Viewport defaults: Brazil, whole-country zoom.
const (
	DefaultLat    = -14.235
	DefaultLng    = -51.9253
	DefaultZoom   = 4
	SelectedZoom  = 15
	FitPaddingPx  = 20
	fallbackColor = "#9e9e9e"
)

// StatusColor returns the marker colour for a station status.
func StatusColor(status string) string {
	switch status {
	case models.StatusOperational:
		return "#4caf50"
	case models.StatusMaintenance:
		return "#ff9800"
	case models.StatusInactive:
		return "#f44336"
	default:
		return fallbackColor
	}
}

// StatusLabel returns the legend text for a status.
func StatusLabel(status string) string {
	switch status {
	case models.StatusOperational:
		return "Operacional"
	case models.StatusMaintenance:
		return "Manutenção"
	case models.StatusInactive:
		return "Inativo"
	default:
		return status
	}
}

// TypeGlyph returns the marker symbol for a charger type.
func TypeGlyph(chargerType string) string {
	switch chargerType {
	case models.ChargerTypeAC:
		return "~"
	case models.ChargerTypeDC:
		return "="
	case models.ChargerTypeBoth:
		return "≈"
	default:
		return "⚡"
	}
}

// TypeColor returns the badge colour for a charger type.
func TypeColor(chargerType string) string {
	switch chargerType {
	case models.ChargerTypeAC:
		return "#2196f3"
	case models.ChargerTypeDC:
		return "#9c27b0"
	case models.ChargerTypeBoth:
		return "#ff5722"
	default:
		return fallbackColor
	}
}

// TypeLabel returns the badge text for a charger type.
func TypeLabel(chargerType string) string {
	if chargerType == models.ChargerTypeBoth {
		return "AC/DC"
	}
	return chargerType
}

// Marker is one station pin.
type Marker struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Color       string  `json:"color"`
	Glyph       string  `json:"glyph"`
	Status      string  `json:"status"`
	StatusLabel string  `json:"status_label"`
	ChargerType string  `json:"charger_type"`
	TypeLabel   string  `json:"type_label"`
	TypeColor   string  `json:"type_color"`
	PowerKW     float64 `json:"power_kw"`
	NumSpots    int     `json:"num_spots"`
	City        string  `json:"city"`
	State       string  `json:"state"`
}

func validCoords(lat, lng float64) bool {
	return !math.IsNaN(lat) && !math.IsNaN(lng) && lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Markers builds one marker per station with usable coordinates.
func Markers(stations []models.Station) []Marker {
	out := make([]Marker, 0, len(stations))
	for _, s := range stations {
		if !validCoords(s.Latitude, s.Longitude) {
			continue
		}
		out = append(out, Marker{
			ID:          s.ID,
			Name:        s.Name,
			Lat:         s.Latitude,
			Lng:         s.Longitude,
			Color:       StatusColor(s.Status),
			Glyph:       TypeGlyph(s.ChargerType),
			Status:      s.Status,
			StatusLabel: StatusLabel(s.Status),
			ChargerType: s.ChargerType,
			TypeLabel:   TypeLabel(s.ChargerType),
			TypeColor:   TypeColor(s.ChargerType),
			PowerKW:     s.PowerKW,
			NumSpots:    s.NumSpots,
			City:        s.City,
			State:       s.State,
		})
	}
	return out
}

// LatLng is a coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is the south-west and north-east corners of a box.
type Bounds struct {
	SouthWest LatLng `json:"south_west"`
	NorthEast LatLng `json:"north_east"`
}

// Viewport tells a renderer where to look. When Bounds is set the renderer fits it with
// Padding pixels and ignores Center and Zoom.
type Viewport struct {
	Center  LatLng  `json:"center"`
	Zoom    int     `json:"zoom"`
	Bounds  *Bounds `json:"bounds,omitempty"`
	Padding int     `json:"padding,omitempty"`
}

// ComputeViewport centres on the selected marker, else fits all markers, else shows Brazil.
func ComputeViewport(markers []Marker, selected int64) Viewport {
	if selected != 0 {
		for _, m := range markers {
			if m.ID == selected {
				return Viewport{Center: LatLng{m.Lat, m.Lng}, Zoom: SelectedZoom}
			}
		}
	}
	if len(markers) == 0 {
		return Viewport{Center: LatLng{DefaultLat, DefaultLng}, Zoom: DefaultZoom}
	}

	b := Bounds{
		SouthWest: LatLng{markers[0].Lat, markers[0].Lng},
		NorthEast: LatLng{markers[0].Lat, markers[0].Lng},
	}
	for _, m := range markers[1:] {
		b.SouthWest.Lat = math.Min(b.SouthWest.Lat, m.Lat)
		b.SouthWest.Lng = math.Min(b.SouthWest.Lng, m.Lng)
		b.NorthEast.Lat = math.Max(b.NorthEast.Lat, m.Lat)
		b.NorthEast.Lng = math.Max(b.NorthEast.Lng, m.Lng)
	}
	return Viewport{
		Center: LatLng{
			Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
			Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
		},
		Zoom:    DefaultZoom,
		Bounds:  &b,
		Padding: FitPaddingPx,
	}
}

// View is the map payload handed to renderers.
type View struct {
	Markers  []Marker `json:"markers"`
	Viewport Viewport `json:"viewport"`
	Selected int64    `json:"selected,omitempty"`
}

// Build returns markers and viewport for a page of stations.
func Build(stations []models.Station, selected int64) View {
	markers := Markers(stations)
	return View{Markers: markers, Viewport: ComputeViewport(markers, selected), Selected: selected}
}
