package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type loginField int

const (
	loginUsername loginField = iota
	loginPassword
	loginConfirm
)

type loginModel struct {
	fields   [3]string
	focus    loginField
	register bool
	message  string
	success  bool
	busy     bool
}

func (m loginModel) numFields() loginField {
	if m.register {
		return 3
	}
	return 2
}

// submitLoginMsg and submitRegisterMsg ask the app to run the request.
type submitLoginMsg struct{ username, password string }

type submitRegisterMsg struct{ username, password, confirm string }

func (m loginModel) Update(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch msg.String() {
	case "ctrl+r":
		m.register = !m.register
		m.focus = loginUsername
		m.fields[loginPassword], m.fields[loginConfirm] = "", ""
		m.message, m.success = "", false
	case "tab", "down":
		m.focus = (m.focus + 1) % m.numFields()
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + m.numFields()) % m.numFields()
	case "enter":
		if m.focus < m.numFields()-1 {
			m.focus++
			return m, nil
		}
		username := strings.TrimSpace(m.fields[loginUsername])
		if m.register {
			req := submitRegisterMsg{username, m.fields[loginPassword], m.fields[loginConfirm]}
			return m, func() tea.Msg { return req }
		}
		req := submitLoginMsg{username, m.fields[loginPassword]}
		return m, func() tea.Msg { return req }
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m loginModel) View() string {
	var b strings.Builder
	tabs := []string{"Login", "Register"}
	active := 0
	if m.register {
		active = 1
	}
	for i, t := range tabs {
		if i == active {
			b.WriteString(accentStyle.Render("[" + t + "]"))
		} else {
			b.WriteString(dimStyle.Render(" " + t + " "))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	labels := []string{"Username", "Password", "Confirm Password"}
	for i := loginField(0); i < m.numFields(); i++ {
		value := m.fields[i]
		if i != loginUsername {
			value = mask(value)
		}
		line := labels[i] + ": " + value
		if i == m.focus {
			line = accentStyle.Render("› ") + line + "█"
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	if m.busy {
		b.WriteString("\n" + dimStyle.Render("…") + "\n")
	}
	if m.message != "" {
		style := errorStyle
		if m.success {
			style = successStyle
		}
		b.WriteString("\n" + style.Render(m.message) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("enter submit · tab next field · ctrl+r login/register · ctrl+c quit"))
	return boxStyle.Render(b.String())
}
