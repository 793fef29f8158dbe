// Package tui is the interactive terminal client.
//
// Each screen owns a screen.Controller; the root model only routes messages
// and keeps the navigation stack. Results of async commands are broadcast to
// every screen, and each screen drops what is not addressed to its live
// activation.
package tui

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/coolsave/internal/logging"
	"github.com/idilsaglam/coolsave/internal/model"
	"github.com/idilsaglam/coolsave/internal/refresh"
)

// Backend is the remote API as the screens use it. *api.Client implements it.
type Backend interface {
	ListFood(ctx context.Context) ([]model.FoodItem, error)
	GetFood(ctx context.Context, id string) (model.FoodItem, error)
	CreateFood(ctx context.Context, in model.FoodInput) (model.FoodItem, bool, error)
	UpdateFood(ctx context.Context, id string, in model.FoodInput) (model.FoodItem, bool, error)
	DeleteFood(ctx context.Context, id string) error
	ListRecipes(ctx context.Context) ([]model.Recipe, error)
	GenerateRecipe(ctx context.Context) (model.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
	LatestReading(ctx context.Context) (model.SensorReading, error)
	Health(ctx context.Context) (json.RawMessage, error)
}

// Options tune timing and wiring; zero values pick the defaults.
type Options struct {
	PollInterval time.Duration
	MinRefresh   time.Duration
	Clock        refresh.Clock
	Today        func() model.CalendarDate
	Logger       *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = refresh.DashboardInterval
	}
	if o.MinRefresh < 0 {
		o.MinRefresh = 0
	}
	if o.Clock == nil {
		o.Clock = refresh.SystemClock{}
	}
	if o.Today == nil {
		o.Today = model.Today
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	return o
}

type screenID int

const (
	homeScreen screenID = iota
	foodScreen
	addFoodScreen
	editFoodScreen
	recipeScreen
)

func (s screenID) title() string {
	switch s {
	case homeScreen:
		return "Cool Save"
	case foodScreen:
		return "Food"
	case addFoodScreen:
		return "Add Food"
	case editFoodScreen:
		return "Edit Food"
	case recipeScreen:
		return "Recipes"
	}
	return ""
}

// page is one screen of the stack.
type page interface {
	mount(arg string) tea.Cmd
	unmount()
	// resume reactivates the page after a back navigation.
	resume(b backMsg) tea.Cmd
	update(msg tea.Msg, focused bool) tea.Cmd
	view(width, height int) string
	help() string
	// capturesKeys reports a text input or modal that needs esc/q itself.
	capturesKeys() bool
}

// env is shared by every page.
type env struct {
	ctx     context.Context
	backend Backend
	opts    Options
	log     *slog.Logger
	help    help.Model
}

// Model is the root Bubble Tea model.
type Model struct {
	env    *env
	pages  map[screenID]page
	stack  []screenID
	width  int
	height int
}

// New builds the app with the home screen on top of the stack.
func New(ctx context.Context, b Backend, opts Options) Model {
	opts = opts.withDefaults()
	e := &env{ctx: ctx, backend: b, opts: opts, log: opts.Logger, help: help.New()}
	e.help.Styles.ShortKey = accentStyle
	e.help.Styles.ShortDesc = helpStyle
	form := newFoodForm(e)
	return Model{
		env: e,
		pages: map[screenID]page{
			homeScreen:     newHome(e),
			foodScreen:     newFoodList(e),
			addFoodScreen:  form,
			editFoodScreen: form,
			recipeScreen:   newRecipeList(e),
		},
		stack:  []screenID{homeScreen},
		width:  80,
		height: 24,
	}
}

// Run starts the program in the alternate screen and blocks until quit.
func Run(ctx context.Context, b Backend, opts Options) error {
	p := tea.NewProgram(New(ctx, b, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) active() screenID { return m.stack[len(m.stack)-1] }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.healthCheck(), m.pages[homeScreen].mount(""))
}

// healthCheck probes the backend once on startup; the result is only logged.
func (m Model) healthCheck() tea.Cmd {
	e := m.env
	return func() tea.Msg {
		body, err := e.backend.Health(e.ctx)
		return healthMsg{body: body, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		msg.Width, msg.Height = innerSize(msg.Width, msg.Height)
		return m, m.broadcast(msg)

	case healthMsg:
		if msg.err != nil {
			m.env.log.Error("health check failed", "err", msg.err)
		} else {
			m.env.log.Info("health check", "body", string(msg.body))
		}
		return m, nil

	case navigateMsg:
		return m.push(msg.to, msg.arg)

	case backMsg:
		return m.pop(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		cur := m.pages[m.active()]
		if !cur.capturesKeys() {
			switch msg.String() {
			case "q":
				if m.active() == homeScreen {
					return m, tea.Quit
				}
			case "esc":
				if len(m.stack) > 1 {
					return m.pop(backMsg{})
				}
				return m, nil
			}
		}
		return m, cur.update(msg, true)
	}

	// async results go to every page; each checks its own tickets
	return m, m.broadcast(msg)
}

func (m Model) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	active := m.pages[m.active()]
	seen := map[page]bool{}
	for _, id := range []screenID{homeScreen, foodScreen, addFoodScreen, recipeScreen} {
		p := m.pages[id]
		if seen[p] {
			continue
		}
		seen[p] = true
		cmds = append(cmds, p.update(msg, p == active))
	}
	return tea.Batch(cmds...)
}

// innerSize is what is left for a page inside the frame, header and help.
func innerSize(w, h int) (int, int) {
	return max(w-4, 20), max(h-6, 5)
}

func (m Model) push(to screenID, arg string) (tea.Model, tea.Cmd) {
	m.pages[m.active()].unmount()
	m.stack = append(m.stack, to)
	return m, m.pages[to].mount(arg)
}

func (m Model) pop(b backMsg) (tea.Model, tea.Cmd) {
	if len(m.stack) < 2 {
		return m, nil
	}
	m.pages[m.active()].unmount()
	m.stack = m.stack[:len(m.stack)-1]
	return m, m.pages[m.active()].resume(b)
}

func (m Model) View() string {
	id := m.active()
	p := m.pages[id]
	header := headerStyle.Render(id.title())
	body := p.view(innerSize(m.width, m.height))
	return panelString(joinNonEmpty(header, body, p.help()))
}

// Screen reports the title of the active screen.
func (m Model) Screen() string { return m.active().title() }

func navigate(to screenID, arg string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to, arg: arg} }
}

func back(b backMsg) tea.Cmd {
	return func() tea.Msg { return b }
}
