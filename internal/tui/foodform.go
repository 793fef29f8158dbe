package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/coolsave/internal/form"
	"github.com/idilsaglam/coolsave/internal/model"
	"github.com/idilsaglam/coolsave/internal/refresh"
)

const (
	msgLoadProductFailed = "Failed to load product data"
	msgAddFailed         = "Failed to add food product. Please try again."
	msgUpdateFailed      = "Failed to update food product. Please try again."
)

type formField int

const (
	fieldName formField = iota
	fieldCategory
	fieldDay
	fieldMonth
	fieldYear
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Category", "Day", "Month", "Year"}

// foodForm adds a product, or edits one when mounted with its id.
type foodForm struct {
	env  *env
	spin spinner.Model

	// tracker guards both the prefill fetch and the submit.
	tracker refresh.Tracker
	editID  string
	loading bool
	saving  bool

	draft form.Draft
	years []int
	focus formField
	name  textinput.Model
	day   textinput.Model
	err   string
}

func newFoodForm(e *env) *foodForm {
	name := textinput.New()
	name.Prompt = ""
	name.Placeholder = "Product name..."
	name.CharLimit = 100

	day := textinput.New()
	day.Prompt = ""
	day.Placeholder = "DD"
	day.CharLimit = 2
	day.Width = 3

	return &foodForm{
		env:  e,
		spin: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
		name: name,
		day:  day,
	}
}

func (f *foodForm) mount(id string) tea.Cmd {
	today := f.env.opts.Today()
	f.tracker.Activate()
	f.editID = id
	f.saving = false
	f.err = ""
	f.setDraft(form.NewDraft(today))
	f.focusField(fieldName)

	if id == "" {
		return textinput.Blink
	}
	tk, _ := f.tracker.Begin()
	f.loading = true
	e := f.env
	return tea.Batch(f.spin.Tick, func() tea.Msg {
		item, err := e.backend.GetFood(e.ctx, id)
		return productLoadedMsg{ticket: tk, item: item, err: err}
	})
}

func (f *foodForm) unmount() {
	f.tracker.Deactivate()
	f.loading = false
	f.saving = false
}

func (f *foodForm) resume(backMsg) tea.Cmd { return f.mount(f.editID) }

func (f *foodForm) capturesKeys() bool { return true }

func (f *foodForm) setDraft(d form.Draft) {
	f.draft = d
	f.name.SetValue(d.Name)
	f.day.SetValue(d.Day)
	f.years = form.YearChoices(f.env.opts.Today())
	if d.Year != 0 && d.Year < f.years[0] {
		f.years = append([]int{d.Year}, f.years...)
	}
}

func (f *foodForm) focusField(ff formField) {
	f.focus = ff
	f.name.Blur()
	f.day.Blur()
	switch ff {
	case fieldName:
		f.name.Focus()
	case fieldDay:
		f.day.Focus()
	}
}

// current reads the text inputs back into the draft.
func (f *foodForm) current() form.Draft {
	d := f.draft
	d.Name = f.name.Value()
	d.Day = f.day.Value()
	return d
}

func (f *foodForm) update(msg tea.Msg, focused bool) tea.Cmd {
	switch msg := msg.(type) {
	case productLoadedMsg:
		if !f.tracker.Accept(msg.ticket) {
			return nil
		}
		f.loading = false
		if msg.err != nil {
			f.env.log.Error("load product failed", "id", f.editID, "err", msg.err)
			return back(backMsg{notice: msgLoadProductFailed})
		}
		f.setDraft(form.FromItem(msg.item))
		return nil

	case productSavedMsg:
		if !f.tracker.Accept(msg.ticket) {
			return nil
		}
		f.saving = false
		if msg.err != nil {
			text := msgAddFailed
			if msg.editing {
				text = msgUpdateFailed
			}
			f.env.log.Error(text, "err", msg.err)
			f.err = text
			return nil
		}
		b := backMsg{notice: msgFoodAdded}
		if msg.editing {
			b.notice = msgFoodUpdated
		}
		switch {
		case !msg.echoed:
			f.env.log.Debug("save response carried no product; list will refetch")
		case msg.editing:
			b.updated = &msg.item
		default:
			b.created = &msg.item
		}
		return back(b)

	case spinner.TickMsg:
		if !f.loading && !f.saving {
			return nil
		}
		var cmd tea.Cmd
		f.spin, cmd = f.spin.Update(msg)
		return cmd

	case tea.KeyMsg:
		if !focused {
			return nil
		}
		return f.key(msg)
	}

	if focused {
		return f.forward(msg)
	}
	return nil
}

func (f *foodForm) key(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.Back) {
		return back(backMsg{})
	}
	if f.loading || f.saving {
		return nil
	}
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		f.focusField((f.focus + 1) % fieldCount)
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		f.focusField((f.focus + fieldCount - 1) % fieldCount)
		return nil
	case tea.KeyEnter:
		return f.submit()
	case tea.KeyLeft:
		f.cycle(-1)
		return nil
	case tea.KeyRight:
		f.cycle(1)
		return nil
	}

	if f.focus == fieldDay && msg.Type == tea.KeyRunes &&
		!form.AcceptDayKey(f.day.Value(), string(msg.Runes)) {
		return nil
	}
	return f.forward(msg)
}

// forward hands msg to the focused text input.
func (f *foodForm) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldName:
		f.name, cmd = f.name.Update(msg)
	case fieldDay:
		f.day, cmd = f.day.Update(msg)
	}
	return cmd
}

// cycle moves a picker by delta. On text fields it moves the cursor.
func (f *foodForm) cycle(delta int) {
	d := f.current()
	switch f.focus {
	case fieldCategory:
		n := len(model.Categories)
		i := model.CategoryIndex(d.Category)
		if i < 0 {
			i = n - 1
		}
		d.Category = model.Categories[(i+delta+n)%n]
	case fieldMonth:
		m := int(d.Month) - 1
		if m < 0 {
			m = 0
		}
		d.SetMonth(time.Month((m+delta+12)%12 + 1))
	case fieldYear:
		i := 0
		for j, y := range f.years {
			if y == d.Year {
				i = j
			}
		}
		i = min(max(i+delta, 0), len(f.years)-1)
		d.SetYear(f.years[i])
	default:
		f.forward(tea.KeyMsg{Type: keyFor(delta)})
		return
	}
	f.draft = d
	f.day.SetValue(d.Day)
}

func keyFor(delta int) tea.KeyType {
	if delta < 0 {
		return tea.KeyLeft
	}
	return tea.KeyRight
}

// submit validates locally; an invalid draft never reaches the network.
func (f *foodForm) submit() tea.Cmd {
	d := f.current()
	f.draft = d
	in, err := d.Submit(f.env.opts.Today())
	if err != nil {
		f.err = err.Error()
		return nil
	}
	tk, ok := f.tracker.Begin()
	if !ok {
		return nil
	}
	f.err = ""
	f.saving = true

	e, id := f.env, f.editID
	save := func() tea.Msg {
		msg := productSavedMsg{ticket: tk, editing: id != ""}
		if id != "" {
			msg.item, msg.echoed, msg.err = e.backend.UpdateFood(e.ctx, id, in)
		} else {
			msg.item, msg.echoed, msg.err = e.backend.CreateFood(e.ctx, in)
		}
		return msg
	}
	return tea.Batch(save, f.spin.Tick)
}

func (f *foodForm) fieldValue(ff formField) string {
	picker := func(s string) string {
		if f.focus == ff {
			return accentStyle.Render("‹ ") + s + accentStyle.Render(" ›")
		}
		return s
	}
	switch ff {
	case fieldName:
		return f.name.View()
	case fieldCategory:
		return picker(string(f.draft.Category))
	case fieldDay:
		return f.day.View() + mutedStyle.Render(fmt.Sprintf(" (1-%d)", f.draft.MaxDay()))
	case fieldMonth:
		if f.draft.Month == 0 {
			return picker("--")
		}
		return picker(f.draft.Month.String())
	case fieldYear:
		if f.draft.Year == 0 {
			return picker("--")
		}
		return picker(strconv.Itoa(f.draft.Year))
	}
	return ""
}

func (f *foodForm) view(width, height int) string {
	if f.loading {
		return f.spin.View() + " Loading product..."
	}
	var b strings.Builder
	for ff := fieldName; ff < fieldCount; ff++ {
		prefix := "  "
		label := fmt.Sprintf("%-9s", fieldLabels[ff]+":")
		if ff == f.focus {
			prefix = selectedStyle.Render("> ")
			label = titleStyle.Render(label)
		} else {
			label = mutedStyle.Render(label)
		}
		fmt.Fprintf(&b, "%s%s %s\n", prefix, label, f.fieldValue(ff))
	}

	var status string
	switch {
	case f.saving:
		status = f.spin.View() + " Saving..."
	case f.err != "":
		status = errorStyle.Render(f.err)
	}
	return joinNonEmpty(strings.TrimRight(b.String(), "\n"), status)
}

func (f *foodForm) help() string {
	return f.env.help.ShortHelpView([]key.Binding{keys.Next, keys.Left, keys.Right, keys.Submit, keys.Back})
}
