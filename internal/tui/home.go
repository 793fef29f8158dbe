package tui

import (
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/coolsave/internal/inventory"
	"github.com/idilsaglam/coolsave/internal/model"
	"github.com/idilsaglam/coolsave/internal/refresh"
	"github.com/idilsaglam/coolsave/internal/screen"
)

// home is the dashboard: fridge climate and the expiration summary, polled
// while it is the active screen.
type home struct {
	env     *env
	ctrl    *screen.Controller[model.FoodItem]
	spin    spinner.Model
	reading model.SensorReading
}

func newHome(e *env) *home {
	return &home{
		env:     e,
		ctrl:    screen.New[model.FoodItem]("home", e.log),
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
		reading: model.SensorReading{},
	}
}

func (h *home) mount(string) tea.Cmd {
	tk, _ := h.ctrl.Mount()
	return tea.Batch(h.fetch(tk, false), h.schedule(), h.spin.Tick)
}

func (h *home) unmount() { h.ctrl.Unmount() }

func (h *home) resume(backMsg) tea.Cmd { return h.mount("") }

func (h *home) capturesKeys() bool { return false }

// fetch loads the inventory and the latest reading together. A failed
// reading only blanks the climate boxes.
func (h *home) fetch(tk refresh.Ticket, hold bool) tea.Cmd {
	e := h.env
	return func() tea.Msg {
		started := e.opts.Clock.Now()
		var (
			wg  sync.WaitGroup
			msg = dashboardMsg{ticket: tk}
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			msg.items, msg.err = e.backend.ListFood(e.ctx)
		}()
		go func() {
			defer wg.Done()
			msg.reading, msg.readingErr = e.backend.LatestReading(e.ctx)
		}()
		wg.Wait()
		if hold {
			_ = refresh.HoldFor(e.ctx, e.opts.Clock, started, e.opts.MinRefresh)
		}
		return msg
	}
}

// schedule arms the next poll for the current activation.
func (h *home) schedule() tea.Cmd {
	e := h.env
	epoch := h.ctrl.Epoch()
	return func() tea.Msg {
		select {
		case <-e.opts.Clock.After(e.opts.PollInterval):
			return pollMsg{epoch: epoch}
		case <-e.ctx.Done():
			return nil
		}
	}
}

func (h *home) update(msg tea.Msg, focused bool) tea.Cmd {
	switch msg := msg.(type) {
	case dashboardMsg:
		if !h.ctrl.Resolve(msg.ticket, msg.items, msg.err) {
			return nil
		}
		if msg.readingErr != nil {
			h.env.log.Error("sensor reading failed", "err", msg.readingErr)
			h.reading = model.SensorReading{}
		} else {
			h.reading = msg.reading
		}
		return nil

	case pollMsg:
		if !focused || msg.epoch != h.ctrl.Epoch() {
			return nil
		}
		// A failed dashboard waits for ctrl+r; ticks keep arming so polling
		// resumes once it recovers.
		tk, ok := h.ctrl.Refresh()
		if !ok {
			return h.schedule()
		}
		return tea.Batch(h.fetch(tk, false), h.schedule(), h.spin.Tick)

	case spinner.TickMsg:
		if !h.busy() {
			return nil
		}
		var cmd tea.Cmd
		h.spin, cmd = h.spin.Update(msg)
		return cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Food):
			return navigate(foodScreen, "")
		case key.Matches(msg, keys.Recipes):
			return navigate(recipeScreen, "")
		case key.Matches(msg, keys.Refresh):
			return h.manualRefresh()
		}
	}
	return nil
}

func (h *home) manualRefresh() tea.Cmd {
	var tk refresh.Ticket
	ok := false
	if h.ctrl.State() == screen.Failed {
		tk, ok = h.ctrl.Retry()
	} else {
		tk, ok = h.ctrl.Refresh()
	}
	if !ok {
		return nil
	}
	return tea.Batch(h.fetch(tk, true), h.spin.Tick)
}

func (h *home) busy() bool {
	s := h.ctrl.State()
	return s == screen.Loading || s == screen.Refreshing
}

// summary is nil until the first successful load.
func (h *home) summary() *model.ExpirationSummary {
	if !h.ctrl.ShowsList() {
		return nil
	}
	s := inventory.Summarize(h.ctrl.Items(), h.env.opts.Today())
	return &s
}

func (h *home) view(width, height int) string {
	climate := lipgloss.JoinHorizontal(lipgloss.Top,
		infoBox("Temperature", h.reading.TemperatureLabel()),
		infoBox("Humidity", h.reading.HumidityLabel()),
	)

	expired, top := model.Unknown, model.Unknown
	if s := h.summary(); s != nil {
		expired, top = s.PercentLabel(), s.TopExpiredCategory
	}
	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		infoBox("Expired", expired),
		infoBox("Most expired", top),
	)

	var status string
	switch h.ctrl.State() {
	case screen.Loading:
		status = h.spin.View() + " Loading..."
	case screen.Refreshing:
		status = h.spin.View() + " Refreshing..."
	case screen.Failed:
		status = errorStyle.Render(h.ctrl.ErrorText()) + mutedStyle.Render("  (ctrl+r to retry)")
	}

	nav := lipgloss.JoinHorizontal(lipgloss.Top,
		navStyle.Render(accentStyle.Render("f")+" Food"),
		navStyle.Render(accentStyle.Render("r")+" Recipes"),
	)
	return lipgloss.NewStyle().MaxWidth(width).MaxHeight(height).
		Render(joinNonEmpty(climate, stats, status, nav))
}

func (h *home) help() string {
	return h.env.help.ShortHelpView([]key.Binding{keys.Food, keys.Recipes, keys.Refresh, keys.Quit})
}
