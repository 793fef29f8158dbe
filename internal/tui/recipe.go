package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/coolsave/internal/model"
	"github.com/idilsaglam/coolsave/internal/refresh"
	"github.com/idilsaglam/coolsave/internal/screen"
)

const (
	msgRecipeGenerated      = "New recipe generated successfully!"
	msgRecipeGenerateFailed = "Failed to generate recipe. Please try again."
	msgRecipeDeleteFailed   = "Failed to delete recipe. Please try again."

	collapsedLines = 2
)

// recipeList shows generated recipes, newest first.
type recipeList struct {
	env  *env
	ctrl *screen.Controller[model.Recipe]
	spin spinner.Model
	vp   viewport.Model

	cursor     int
	expanded   map[string]bool
	generating bool
	confirming *model.Recipe
}

func newRecipeList(e *env) *recipeList {
	return &recipeList{
		env:      e,
		ctrl:     screen.New[model.Recipe]("recipe", e.log),
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
		vp:       viewport.New(76, 16),
		expanded: map[string]bool{},
	}
}

func (r *recipeList) mount(string) tea.Cmd {
	r.confirming = nil
	r.generating = false
	r.cursor = 0
	tk, _ := r.ctrl.Mount()
	return tea.Batch(r.fetch(tk, false), r.spin.Tick)
}

func (r *recipeList) unmount() {
	r.confirming = nil
	r.generating = false
	r.ctrl.Unmount()
}

func (r *recipeList) resume(backMsg) tea.Cmd { return r.mount("") }

func (r *recipeList) capturesKeys() bool { return r.confirming != nil }

func (r *recipeList) fetch(tk refresh.Ticket, hold bool) tea.Cmd {
	e := r.env
	return func() tea.Msg {
		started := e.opts.Clock.Now()
		items, err := e.backend.ListRecipes(e.ctx)
		if hold {
			_ = refresh.HoldFor(e.ctx, e.opts.Clock, started, e.opts.MinRefresh)
		}
		return recipesLoadedMsg{ticket: tk, items: items, err: err}
	}
}

func (r *recipeList) selected() (model.Recipe, bool) {
	items := r.ctrl.Items()
	if r.cursor < 0 || r.cursor >= len(items) {
		return model.Recipe{}, false
	}
	return items[r.cursor], true
}

func (r *recipeList) clampCursor() {
	r.cursor = min(max(r.cursor, 0), max(r.ctrl.Len()-1, 0))
}

func (r *recipeList) update(msg tea.Msg, focused bool) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.vp.Width = msg.Width
		r.vp.Height = max(msg.Height-2, 3)
		return nil

	case recipesLoadedMsg:
		if r.ctrl.Resolve(msg.ticket, msg.items, msg.err) {
			r.clampCursor()
		}
		return nil

	case recipeGeneratedMsg:
		if !r.ctrl.Live(msg.epoch) {
			return nil
		}
		r.generating = false
		if msg.err != nil {
			r.ctrl.MutationFailed(msgRecipeGenerateFailed, msg.err)
			return nil
		}
		r.ctrl.Created(msg.recipe)
		r.ctrl.Notify(msgRecipeGenerated)
		r.cursor = 0
		return nil

	case recipeDeletedMsg:
		if !r.ctrl.Live(msg.epoch) {
			return nil
		}
		if msg.err != nil {
			r.ctrl.Restore(msg.removal)
			r.ctrl.MutationFailed(msgRecipeDeleteFailed, msg.err)
		}
		r.clampCursor()
		return nil

	case spinner.TickMsg:
		if !r.busy() {
			return nil
		}
		var cmd tea.Cmd
		r.spin, cmd = r.spin.Update(msg)
		return cmd

	case tea.KeyMsg:
		if !focused {
			return nil
		}
		if r.confirming != nil {
			return r.confirm(msg)
		}
		return r.key(msg)
	}
	return nil
}

func (r *recipeList) key(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Refresh):
		return r.manualRefresh()
	case key.Matches(msg, keys.Dismiss):
		r.ctrl.DismissNotice()
		return nil
	}
	if !r.ctrl.ShowsList() {
		return nil
	}
	switch {
	case key.Matches(msg, keys.Up):
		r.cursor--
		r.clampCursor()
	case key.Matches(msg, keys.Down):
		r.cursor++
		r.clampCursor()
	case key.Matches(msg, keys.Expand):
		if rec, ok := r.selected(); ok {
			r.expanded[rec.ID] = !r.expanded[rec.ID]
		}
	case key.Matches(msg, keys.Generate):
		return r.generate()
	case key.Matches(msg, keys.Delete):
		if rec, ok := r.selected(); ok {
			r.confirming = &rec
		}
	}
	return nil
}

// generate is ignored while a generation is pending.
func (r *recipeList) generate() tea.Cmd {
	if r.generating {
		return nil
	}
	r.generating = true
	e, epoch := r.env, r.ctrl.Epoch()
	return tea.Batch(r.spin.Tick, func() tea.Msg {
		rec, err := e.backend.GenerateRecipe(e.ctx)
		return recipeGeneratedMsg{epoch: epoch, recipe: rec, err: err}
	})
}

func (r *recipeList) confirm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Yes):
		id := r.confirming.ID
		r.confirming = nil
		removal := r.ctrl.Remove(id)
		r.clampCursor()
		e, epoch := r.env, r.ctrl.Epoch()
		return func() tea.Msg {
			return recipeDeletedMsg{epoch: epoch, removal: removal, err: e.backend.DeleteRecipe(e.ctx, id)}
		}
	case key.Matches(msg, keys.No):
		r.confirming = nil
	}
	return nil
}

func (r *recipeList) manualRefresh() tea.Cmd {
	var tk refresh.Ticket
	ok := false
	if r.ctrl.State() == screen.Failed {
		tk, ok = r.ctrl.Retry()
	} else {
		tk, ok = r.ctrl.Refresh()
	}
	if !ok {
		return nil
	}
	return tea.Batch(r.fetch(tk, true), r.spin.Tick)
}

func (r *recipeList) busy() bool {
	s := r.ctrl.State()
	return r.generating || s == screen.Loading || s == screen.Refreshing
}

// render draws every recipe and reports the line span of the selected one.
func (r *recipeList) render() (content string, top, bottom int) {
	var lines []string
	for i, rec := range r.ctrl.Items() {
		if i > 0 {
			lines = append(lines, "")
		}
		prefix := "  "
		if i == r.cursor {
			prefix = selectedStyle.Render("> ")
			top = len(lines)
		}
		lines = append(lines,
			prefix+titleStyle.Render(rec.Title),
			"  "+mutedStyle.Render(fmt.Sprintf("Ingredients: %d items", len(rec.Ingredients))),
			"  "+mutedStyle.Render("Created: "+model.DateOf(rec.CreatedAt.Local()).String()),
		)
		limit := collapsedLines
		if r.expanded[rec.ID] {
			limit = 0
		}
		for _, l := range rec.InstructionLines(limit) {
			lines = append(lines, "  "+l)
		}
		if i == r.cursor {
			bottom = len(lines)
		}
	}
	return strings.Join(lines, "\n"), top, bottom
}

func (r *recipeList) view(width, height int) string {
	switch r.ctrl.State() {
	case screen.Loading:
		return r.spin.View() + " Loading recipes..."
	case screen.Failed:
		return joinNonEmpty(
			errorStyle.Render(r.ctrl.ErrorText()),
			mutedStyle.Render("ctrl+r to retry"),
			noticeBar(r.ctrl.Notice()),
		)
	}

	var status string
	switch {
	case r.generating:
		status = r.spin.View() + " Generating recipe..."
	case r.ctrl.State() == screen.Refreshing:
		status = r.spin.View() + " Refreshing..."
	}

	var body string
	if r.ctrl.Empty() {
		body = italicStyle.Render("No recipes yet. Press g to generate one.")
	} else {
		content, top, bottom := r.render()
		r.vp.SetContent(content)
		if top < r.vp.YOffset {
			r.vp.SetYOffset(top)
		} else if bottom > r.vp.YOffset+r.vp.Height {
			r.vp.SetYOffset(bottom - r.vp.Height)
		}
		body = r.vp.View()
	}

	var modal string
	if r.confirming != nil {
		modal = confirmBar(fmt.Sprintf("Are you sure you want to delete %s?", r.confirming.Title))
	}
	return joinNonEmpty(status, body, modal, noticeBar(r.ctrl.Notice()))
}

func (r *recipeList) help() string {
	if r.confirming != nil {
		return r.env.help.ShortHelpView([]key.Binding{keys.Yes, keys.No})
	}
	return r.env.help.ShortHelpView([]key.Binding{
		keys.Up, keys.Down, keys.Expand, keys.Generate, keys.Delete, keys.Refresh, keys.Back,
	})
}
