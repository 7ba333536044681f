package tui

import (
	"fmt"
	"strconv"
	"strings"

	"evdash/backend/services/dashboard/internal/filter"
	"evdash/backend/services/dashboard/internal/mapview"
)

var filterNames = map[string]string{"type": "Charger Type", "status": "Status", "state": "State"}

func (a App) filterBar() string {
	f := a.sh.Filter()
	parts := make([]string, 0, len(filter.Fields))
	for _, field := range filter.Fields {
		value := "All"
		for _, o := range filter.Options(field) {
			if o.Value != "" && o.Value == f.Get(field) {
				value = o.Label
			}
		}
		parts = append(parts, filterNames[field]+": "+accentStyle.Render(value))
	}
	bar := "Filters"
	if n := f.ActiveCount(); n > 0 {
		bar += " (" + strconv.Itoa(n) + ")"
	}
	return dimStyle.Render(bar) + "  " + strings.Join(parts, "  ")
}

func (a App) listView() string {
	var b strings.Builder
	b.WriteString(accentStyle.Render("Charging Stations"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d stations", a.sh.Total())))
	b.WriteString("\n" + a.filterBar() + "\n\n")

	if msg := a.sh.ErrorMessage(); msg != "" {
		b.WriteString(errorStyle.Render(msg) + "\n\n")
	}
	if a.sh.Loading() && len(a.sh.Stations()) == 0 {
		b.WriteString(dimStyle.Render("Loading…") + "\n")
	}

	stations := a.sh.Stations()
	if len(stations) == 0 && !a.sh.Loading() {
		b.WriteString(dimStyle.Render("No stations found") + "\n")
	}
	for i, st := range stations {
		pin := "  "
		if st.ID == a.sh.Selected() {
			pin = "◉ "
		}
		line := fmt.Sprintf("%s%s %-34s %-22s %s  %s  %s kW  %d vagas",
			pin,
			renderMarker(st.Status, st.ChargerType),
			truncate(st.Name, 34),
			truncate(st.City+", "+st.State, 22),
			renderStatus(st.Status),
			renderType(st.ChargerType),
			strconv.FormatFloat(st.PowerKW, 'f', -1, 64),
			st.NumSpots,
		)
		if i == a.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("Página %d de %d", a.sh.Page(), a.sh.Pages())))

	if st, ok := a.sh.SelectedStation(); ok {
		vp := a.sh.Map().Viewport
		b.WriteString("\n\n" + boxStyle.Render(fmt.Sprintf("%s\n📍 Localização: %s, %s\n⚡ Potência: %s kW\n🚗 Vagas: %d\nLat: %.4f, Lng: %.4f  (zoom %d)",
			accentStyle.Render(st.Name), st.City, st.State,
			strconv.FormatFloat(st.PowerKW, 'f', -1, 64), st.NumSpots,
			st.Latitude, st.Longitude, vp.Zoom)))
	}

	help := "j/k move · enter select · t/s/u filter · x clear · n/p page · c copy coords · r reload · L logout · q quit"
	if a.sh.CanManage() {
		help = "a add · e edit · d delete · " + help
	}
	b.WriteString("\n\n" + helpStyle.Render(help))
	b.WriteString("\n" + helpStyle.Render(legend()))
	return b.String()
}

func legend() string {
	parts := []string{"Legenda:"}
	for _, s := range []string{"OPERATIONAL", "MAINTENANCE", "INACTIVE"} {
		parts = append(parts, renderMarker(s, "")+" "+mapview.StatusLabel(s))
	}
	for _, t := range []string{"AC", "DC", "BOTH"} {
		parts = append(parts, mapview.TypeGlyph(t)+" "+mapview.TypeLabel(t))
	}
	return strings.Join(parts, "  ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
