package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/coolsave/internal/inventory"
	"github.com/idilsaglam/coolsave/internal/model"
	"github.com/idilsaglam/coolsave/internal/refresh"
	"github.com/idilsaglam/coolsave/internal/screen"
)

const (
	msgFoodAdded        = "Food product added successfully!"
	msgFoodUpdated      = "Food product updated successfully!"
	msgFoodDeleteFailed = "Failed to delete food product. Please try again."
)

// foodItem adapts model.FoodItem to bubbles/list.Item.
type foodItem struct {
	item    model.FoodItem
	expired bool
}

func (i foodItem) Title() string       { return i.item.Name }
func (i foodItem) Description() string { return string(i.item.Category) }
func (i foodItem) FilterValue() string { return i.item.Name + " " + string(i.item.Category) }

// foodDelegate renders two lines per product: name and category, then the
// expiration date. Expired products are drawn in red.
type foodDelegate struct{}

func (d foodDelegate) Height() int                               { return 2 }
func (d foodDelegate) Spacing() int                              { return 1 }
func (d foodDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d foodDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(foodItem)
	if !ok {
		return
	}
	name := titleStyle.Render(it.item.Name)
	when := mutedStyle.Render("Expires: " + it.item.Expires().String())
	if it.expired {
		name = expiredStyle.Render(it.item.Name)
		when = expiredStyle.Render("Expired: " + it.item.Expires().String())
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s  %s\n", prefix, name, mutedStyle.Render(string(it.item.Category)))
	fmt.Fprintf(w, "  %s", when)
}

// foodList is the inventory screen.
type foodList struct {
	env    *env
	ctrl   *screen.Controller[model.FoodItem]
	list   list.Model
	spin   spinner.Model
	sorted bool

	confirming *model.FoodItem
	// deletes counts delete requests not yet answered, whatever activation
	// started them.
	deletes int
}

func newFoodList(e *env) *foodList {
	l := list.New(nil, foodDelegate{}, 80, 18)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("product", "products")
	// The list re-enables bindings on every SetItems, so quitting is unbound
	// rather than disabled; the app owns q and ctrl+c.
	l.KeyMap.Quit = key.NewBinding()
	l.KeyMap.ForceQuit = key.NewBinding()

	return &foodList{
		env:  e,
		ctrl: screen.New[model.FoodItem]("food", e.log),
		list: l,
		spin: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
	}
}

func (f *foodList) mount(string) tea.Cmd {
	f.confirming = nil
	tk, _ := f.ctrl.Mount()
	return tea.Batch(f.fetch(tk, false), f.spin.Tick)
}

func (f *foodList) unmount() {
	f.confirming = nil
	f.list.ResetFilter()
	f.ctrl.Unmount()
}

// resume applies an echoed product to the list it already holds. Without
// one, with nothing loaded yet, or with a delete whose outcome the closed
// activation never saw, it refetches.
func (f *foodList) resume(b backMsg) tea.Cmd {
	if (b.created == nil && b.updated == nil) || f.deletes > 0 || !f.ctrl.Resume() {
		cmd := f.mount("")
		if b.notice != "" {
			f.ctrl.Notify(b.notice)
		}
		return cmd
	}
	f.ctrl.Notify(b.notice)
	if b.created != nil {
		f.ctrl.Created(*b.created)
	} else {
		// a missing target leaves its own notice
		_ = f.ctrl.Updated(*b.updated)
	}
	return f.sync()
}

func (f *foodList) capturesKeys() bool {
	return f.confirming != nil || f.list.FilterState() != list.Unfiltered
}

func (f *foodList) fetch(tk refresh.Ticket, hold bool) tea.Cmd {
	e := f.env
	return func() tea.Msg {
		started := e.opts.Clock.Now()
		items, err := e.backend.ListFood(e.ctx)
		if hold {
			_ = refresh.HoldFor(e.ctx, e.opts.Clock, started, e.opts.MinRefresh)
		}
		return foodLoadedMsg{ticket: tk, items: items, err: err}
	}
}

// sync rebuilds the list widget from the controller.
func (f *foodList) sync() tea.Cmd {
	items := f.ctrl.Items()
	if f.sorted {
		items = inventory.SortByExpiration(items)
	}
	today := f.env.opts.Today()
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, foodItem{item: it, expired: inventory.IsExpired(it, today)})
	}
	return f.list.SetItems(li)
}

func (f *foodList) selected() (model.FoodItem, bool) {
	it, ok := f.list.SelectedItem().(foodItem)
	if !ok {
		return model.FoodItem{}, false
	}
	return it.item, true
}

func (f *foodList) update(msg tea.Msg, focused bool) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.list.SetSize(msg.Width, msg.Height-2)
		return nil

	case foodLoadedMsg:
		if !f.ctrl.Resolve(msg.ticket, msg.items, msg.err) {
			return nil
		}
		return f.sync()

	case foodDeletedMsg:
		f.deletes--
		if !f.ctrl.Live(msg.epoch) || msg.err == nil {
			return nil
		}
		f.ctrl.Restore(msg.removal)
		f.ctrl.MutationFailed(msgFoodDeleteFailed, msg.err)
		return f.sync()

	case spinner.TickMsg:
		if s := f.ctrl.State(); s != screen.Loading && s != screen.Refreshing {
			return nil
		}
		var cmd tea.Cmd
		f.spin, cmd = f.spin.Update(msg)
		return cmd

	case list.FilterMatchesMsg:
		var cmd tea.Cmd
		f.list, cmd = f.list.Update(msg)
		return cmd

	case tea.KeyMsg:
		if !focused {
			return nil
		}
		if f.confirming != nil {
			return f.confirm(msg)
		}
		if f.list.FilterState() == list.Filtering || !f.ctrl.ShowsList() {
			return f.keyOutsideList(msg)
		}
		switch {
		case key.Matches(msg, keys.Add):
			return navigate(addFoodScreen, "")
		case key.Matches(msg, keys.Edit):
			if it, ok := f.selected(); ok {
				return navigate(editFoodScreen, it.ID)
			}
			return nil
		case key.Matches(msg, keys.Delete):
			if it, ok := f.selected(); ok {
				f.confirming = &it
			}
			return nil
		case key.Matches(msg, keys.Sort):
			f.sorted = !f.sorted
			return f.sync()
		case key.Matches(msg, keys.Refresh):
			return f.manualRefresh()
		case key.Matches(msg, keys.Dismiss):
			f.ctrl.DismissNotice()
			return nil
		}
		var cmd tea.Cmd
		f.list, cmd = f.list.Update(msg)
		return cmd
	}
	return nil
}

// keyOutsideList handles keys while filtering or while no list is shown.
func (f *foodList) keyOutsideList(msg tea.KeyMsg) tea.Cmd {
	if f.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		f.list, cmd = f.list.Update(msg)
		return cmd
	}
	switch {
	case key.Matches(msg, keys.Refresh):
		return f.manualRefresh()
	case key.Matches(msg, keys.Add):
		return navigate(addFoodScreen, "")
	case key.Matches(msg, keys.Dismiss):
		f.ctrl.DismissNotice()
	}
	return nil
}

func (f *foodList) confirm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Yes):
		id := f.confirming.ID
		f.confirming = nil
		removal := f.ctrl.Remove(id)
		f.deletes++
		e, epoch := f.env, f.ctrl.Epoch()
		return tea.Batch(f.sync(), func() tea.Msg {
			return foodDeletedMsg{epoch: epoch, removal: removal, err: e.backend.DeleteFood(e.ctx, id)}
		})
	case key.Matches(msg, keys.No):
		f.confirming = nil
	}
	return nil
}

func (f *foodList) manualRefresh() tea.Cmd {
	var tk refresh.Ticket
	ok := false
	if f.ctrl.State() == screen.Failed {
		tk, ok = f.ctrl.Retry()
	} else {
		tk, ok = f.ctrl.Refresh()
	}
	if !ok {
		return nil
	}
	return tea.Batch(f.fetch(tk, true), f.spin.Tick)
}

func (f *foodList) view(width, height int) string {
	var body, status string
	switch f.ctrl.State() {
	case screen.Loading:
		return f.spin.View() + " Loading food products..."
	case screen.Failed:
		return joinNonEmpty(
			errorStyle.Render(f.ctrl.ErrorText()),
			mutedStyle.Render("ctrl+r to retry"),
			noticeBar(f.ctrl.Notice()),
		)
	case screen.Refreshing:
		status = f.spin.View() + " Refreshing..."
	}

	if f.ctrl.Empty() {
		body = italicStyle.Render("No food products found")
	} else {
		body = f.list.View()
	}
	if f.sorted {
		status = joinNonEmpty(status, mutedStyle.Render("sorted by expiration"))
	}

	var modal string
	if f.confirming != nil {
		modal = confirmBar(fmt.Sprintf("Are you sure you want to delete %s?", f.confirming.Name))
	}
	return joinNonEmpty(status, body, modal, noticeBar(f.ctrl.Notice()))
}

func (f *foodList) help() string {
	if f.confirming != nil {
		return f.env.help.ShortHelpView([]key.Binding{keys.Yes, keys.No})
	}
	return f.env.help.ShortHelpView([]key.Binding{
		keys.Add, keys.Edit, keys.Delete, keys.Sort, keys.Refresh, keys.Back,
	})
}
