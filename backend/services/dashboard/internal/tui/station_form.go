package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"evdash/backend/services/dashboard/internal/form"
	"evdash/backend/services/dashboard/internal/models"
)

var formLabels = map[string]string{
	form.FieldName:        "Nome da Estação",
	form.FieldLatitude:    "Latitude",
	form.FieldLongitude:   "Longitude",
	form.FieldChargerType: "Tipo de Carregador",
	form.FieldPowerKW:     "Potência (kW)",
	form.FieldNumSpots:    "Número de Vagas",
	form.FieldStatus:      "Status",
	form.FieldState:       "Estado (UF)",
	form.FieldCity:        "Cidade",
}

// selectOptions are cycled with left/right instead of typed.
var selectOptions = map[string][]models.Option{
	form.FieldChargerType: models.ChargerTypeOptions,
	form.FieldStatus:      models.StatusOptions,
	form.FieldState:       models.StateOptions,
}

type stationForm struct {
	in      form.Input
	focus   int
	errors  form.Errors
	message string
	busy    bool
}

// submitFormMsg asks the app to validate and save.
type submitFormMsg struct{}

// cancelFormMsg returns to the list.
type cancelFormMsg struct{}

func newStationForm(in form.Input) stationForm {
	return stationForm{in: in}
}

func (f stationForm) title() string {
	if f.in.Editing() {
		return "Editar Estação"
	}
	return "Nova Estação de Carregamento"
}

func cycleOption(opts []models.Option, current string, step int) string {
	idx := -1
	for i, o := range opts {
		if o.Value == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		if step > 0 {
			return opts[0].Value
		}
		return opts[len(opts)-1].Value
	}
	return opts[(idx+step+len(opts))%len(opts)].Value
}

func (f stationForm) Update(msg tea.KeyMsg) (stationForm, tea.Cmd) {
	if f.busy {
		return f, nil
	}
	field := form.Fields[f.focus]
	switch key := msg.String(); key {
	case "esc":
		return f, func() tea.Msg { return cancelFormMsg{} }
	case "ctrl+s":
		return f, func() tea.Msg { return submitFormMsg{} }
	case "tab", "down":
		f.focus = (f.focus + 1) % len(form.Fields)
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + len(form.Fields)) % len(form.Fields)
	case "enter":
		if f.focus == len(form.Fields)-1 {
			return f, func() tea.Msg { return submitFormMsg{} }
		}
		f.focus++
	case "left", "right":
		if opts, ok := selectOptions[field]; ok {
			step := 1
			if key == "left" {
				step = -1
			}
			f.in = f.in.Set(field, cycleOption(opts, f.in.Get(field), step))
		}
	default:
		if _, ok := selectOptions[field]; ok {
			return f, nil
		}
		f.in = f.in.Set(field, editRune(f.in.Get(field), key))
	}
	return f, nil
}

func (f stationForm) View() string {
	var b strings.Builder
	b.WriteString(accentStyle.Render(f.title()) + "\n\n")
	for i, field := range form.Fields {
		value := f.in.Get(field)
		if opts, ok := selectOptions[field]; ok {
			for _, o := range opts {
				if o.Value == value {
					value = "‹ " + o.Label + " ›"
				}
			}
			if value == "" {
				value = dimStyle.Render("‹ ›")
			}
		}
		line := formLabels[field] + " *: " + value
		if i == f.focus {
			line = accentStyle.Render("› ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
		if msg, ok := f.errors[field]; ok {
			b.WriteString("    " + errorStyle.Render(msg) + "\n")
		}
	}
	if f.message != "" {
		b.WriteString("\n" + errorStyle.Render(f.message) + "\n")
	}
	if f.busy {
		b.WriteString("\n" + dimStyle.Render("Salvando...") + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("ctrl+s save · tab next · ←/→ choose · esc cancel"))
	return boxStyle.Render(b.String())
}
