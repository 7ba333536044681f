package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"evdash/backend/services/dashboard/internal/filter"
	"evdash/backend/services/dashboard/internal/form"
	"evdash/backend/services/dashboard/internal/models"
	"evdash/backend/services/dashboard/internal/session"
	"evdash/backend/services/dashboard/internal/shell"
)

const requestTimeout = 15 * time.Second

type view int

const (
	viewLogin view = iota
	viewList
	viewForm
	viewConfirm
)

// Options configure the terminal app.
type Options struct {
	Logger        *zap.Logger
	ToastInterval time.Duration
	ToastLifetime time.Duration
	// Copy writes to the system clipboard. Defaults to clipboard.WriteAll.
	Copy func(string) error
}

type fetchedMsg struct {
	sh  *shell.Shell
	res shell.Result
}

type mutatedMsg struct {
	sh  *shell.Shell
	res shell.MutationResult
}

type loginDoneMsg struct{ res session.Result }

type registerDoneMsg struct {
	username string
	res      session.Result
}

type copyResultMsg struct{ err error }

type toastTickMsg struct{}

// App is the root Bubbletea model.
type App struct {
	store   *session.Store
	sh      *shell.Shell
	opts    Options
	view    view
	login   loginModel
	form    stationForm
	cursor  int
	confirm models.Station
	ticking bool
	width   int
	height  int
}

// NewApp returns the app on the list when the store holds a session, else on the login view.
func NewApp(store *session.Store, opts Options) App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	a := App{store: store, opts: opts, view: viewLogin}
	if store.Authenticated() {
		a.sh = a.newShell()
		a.view = viewList
	}
	return a
}

func (a App) newShell() *shell.Shell {
	return shell.New(a.store.Client(), shell.Options{
		Logger:        a.opts.Logger,
		Username:      a.store.Username(),
		ToastInterval: a.opts.ToastInterval,
		ToastLifetime: a.opts.ToastLifetime,
	})
}

func (a App) Init() tea.Cmd {
	if a.sh == nil {
		return nil
	}
	return a.fetch(a.sh.BeginFetch())
}

func (a App) fetch(req shell.Request) tea.Cmd {
	sh := a.sh
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return fetchedMsg{sh: sh, res: sh.Fetch(ctx, req)}
	}
}

func (a App) exec(m shell.Mutation) tea.Cmd {
	sh := a.sh
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return mutatedMsg{sh: sh, res: sh.Exec(ctx, m)}
	}
}

// startTicker schedules the next toast tick unless one is pending.
func (a *App) startTicker() tea.Cmd {
	if a.ticking || a.sh == nil || a.sh.Toast() == nil {
		return nil
	}
	a.ticking = true
	return tea.Tick(a.sh.TickInterval(), func(time.Time) tea.Msg { return toastTickMsg{} })
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case toastTickMsg:
		a.ticking = false
		if a.sh != nil {
			a.sh.Tick()
		}
		return a, a.startTicker()

	case fetchedMsg:
		if msg.sh != a.sh || !a.sh.Apply(msg.res) {
			return a, nil
		}
		if a.cursor >= len(a.sh.Stations()) {
			a.cursor = max(0, len(a.sh.Stations())-1)
		}
		return a, nil

	case mutatedMsg:
		if msg.sh != a.sh {
			return a, nil
		}
		return a.applyMutation(msg.res)

	case loginDoneMsg:
		a.login.busy = false
		if !msg.res.Success {
			a.login.message, a.login.success = msg.res.Message, false
			return a, nil
		}
		a.login = loginModel{}
		a.sh = a.newShell()
		a.view = viewList
		a.cursor = 0
		return a, a.fetch(a.sh.BeginFetch())

	case registerDoneMsg:
		a.login.busy = false
		a.login.message, a.login.success = msg.res.Message, msg.res.Success
		if msg.res.Success {
			a.login.register = false
			a.login.fields = [3]string{msg.username}
			a.login.focus = loginPassword
		}
		return a, nil

	case submitLoginMsg:
		a.login.busy = true
		a.login.message = ""
		store := a.store
		return a, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			return loginDoneMsg{res: store.Login(ctx, msg.username, msg.password)}
		}

	case submitRegisterMsg:
		if res := session.CheckConfirmation(msg.password, msg.confirm); !res.Success {
			a.login.message, a.login.success = res.Message, false
			return a, nil
		}
		a.login.busy = true
		a.login.message = ""
		store := a.store
		return a, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			return registerDoneMsg{username: msg.username, res: store.Register(ctx, msg.username, msg.password)}
		}

	case submitFormMsg:
		return a.submitForm()

	case cancelFormMsg:
		a.view = viewList
		return a, nil

	case copyResultMsg:
		if msg.err != nil {
			a.opts.Logger.Warn("clipboard write failed", zap.Error(msg.err))
			a.sh.Notify(shell.SeverityWarning, "Could not copy coordinates")
		} else {
			a.sh.Notify(shell.SeverityInfo, "Coordinates copied")
		}
		return a, a.startTicker()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.view {
		case viewLogin:
			var cmd tea.Cmd
			a.login, cmd = a.login.Update(msg)
			return a, cmd
		case viewForm:
			var cmd tea.Cmd
			a.form, cmd = a.form.Update(msg)
			return a, cmd
		case viewConfirm:
			return a.updateConfirm(msg)
		default:
			return a.updateList(msg)
		}
	}
	return a, nil
}

func (a App) current() (models.Station, bool) {
	stations := a.sh.Stations()
	if a.cursor < 0 || a.cursor >= len(stations) {
		return models.Station{}, false
	}
	return stations[a.cursor], true
}

func (a App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.cursor < len(a.sh.Stations())-1 {
			a.cursor++
		}
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
	case "enter":
		if st, ok := a.current(); ok {
			if a.sh.Selected() == st.ID {
				a.sh.ClearSelection()
			} else {
				a.sh.Select(st.ID)
			}
		}
	case "esc":
		a.sh.ClearSelection()
	case "t", "s", "u":
		field := map[string]string{"t": "type", "s": "status", "u": "state"}[msg.String()]
		a.cursor = 0
		return a, a.fetch(a.sh.SetFilters(a.sh.Filter().Cycle(field, 1)))
	case "T", "S", "U":
		field := map[string]string{"T": "type", "S": "status", "U": "state"}[msg.String()]
		a.cursor = 0
		return a, a.fetch(a.sh.SetFilters(a.sh.Filter().Cycle(field, -1)))
	case "x":
		a.cursor = 0
		return a, a.fetch(a.sh.SetFilters(filter.Clear()))
	case "n", "right":
		if a.sh.HasNext() {
			a.cursor = 0
			return a, a.fetch(a.sh.SetPage(a.sh.Page() + 1))
		}
	case "p", "left":
		if a.sh.HasPrev() {
			a.cursor = 0
			return a, a.fetch(a.sh.SetPage(a.sh.Page() - 1))
		}
	case "r":
		return a, a.fetch(a.sh.BeginFetch())
	case "a":
		if _, err := a.sh.PrepareSave(nil, models.StationPayload{}); err != nil {
			return a, a.startTicker()
		}
		a.form = newStationForm(form.New())
		a.view = viewForm
	case "e":
		st, ok := a.current()
		if !ok {
			return a, nil
		}
		if _, err := a.sh.PrepareSave(&st.ID, models.StationPayload{}); err != nil {
			return a, a.startTicker()
		}
		a.form = newStationForm(form.FromStation(st))
		a.view = viewForm
	case "d":
		st, ok := a.current()
		if !ok {
			return a, nil
		}
		if _, err := a.sh.PrepareDelete(st.ID); err != nil {
			return a, a.startTicker()
		}
		a.confirm = st
		a.view = viewConfirm
	case "c":
		st, ok := a.current()
		if !ok {
			return a, nil
		}
		text := fmt.Sprintf("%.6f, %.6f", st.Latitude, st.Longitude)
		write := a.opts.Copy
		return a, func() tea.Msg { return copyResultMsg{err: write(text)} }
	case "L":
		if err := a.store.Logout(context.Background()); err != nil {
			a.opts.Logger.Warn("logout failed", zap.Error(err))
		}
		a.sh = nil
		a.ticking = false
		a.view = viewLogin
		a.login = loginModel{}
	}
	return a, nil
}

func (a App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m, err := a.sh.PrepareDelete(a.confirm.ID)
		a.view = viewList
		if err != nil {
			return a, a.startTicker()
		}
		return a, a.exec(m)
	case "n", "esc":
		a.view = viewList
	}
	return a, nil
}

func (a App) submitForm() (tea.Model, tea.Cmd) {
	in := a.form.in
	a.form.message = ""
	if errs := in.Validate(); len(errs) > 0 {
		a.form.errors = errs
		return a, nil
	}
	a.form.errors = nil

	var id *int64
	if in.Editing() {
		id = &in.ID
	}
	m, err := a.sh.PrepareSave(id, in.Payload())
	if err != nil {
		a.form.message = form.ErrorMessage(err)
		return a, a.startTicker()
	}
	a.form.busy = true
	return a, a.exec(m)
}

func (a App) applyMutation(res shell.MutationResult) (tea.Model, tea.Cmd) {
	err := a.sh.ApplyMutation(res)
	tick := a.startTicker()
	if err != nil {
		if a.view == viewForm {
			a.form.busy = false
			a.form.message = form.ErrorMessage(err)
		}
		return a, tick
	}
	if a.view == viewForm {
		a.view = viewList
	}
	return a, tea.Batch(a.fetch(a.sh.BeginFetch()), tick)
}

func (a App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("⚡ EV Charging Stations Dashboard"))
	if a.view != viewLogin && a.store.Username() != "" {
		b.WriteString("  " + dimStyle.Render("Welcome, "+a.store.Username()))
	}
	b.WriteString("\n\n")

	switch a.view {
	case viewLogin:
		b.WriteString(a.login.View())
	case viewForm:
		b.WriteString(a.form.View())
	case viewConfirm:
		b.WriteString(a.confirmView())
	default:
		b.WriteString(a.listView())
	}

	if a.sh != nil {
		if toast := renderToast(a.sh.Toast(), a.width/2); toast != "" {
			b.WriteString("\n\n" + toast)
		}
	}
	return b.String()
}

func (a App) confirmView() string {
	body := accentStyle.Render("Confirmar Exclusão") + "\n\n" +
		fmt.Sprintf("Tem certeza que deseja excluir a estação %q?", a.confirm.Name) + "\n" +
		dimStyle.Render("Esta ação não pode ser desfeita.") + "\n\n" +
		helpStyle.Render("y Excluir · n Cancelar")
	return boxStyle.Render(body)
}
