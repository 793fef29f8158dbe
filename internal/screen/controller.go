// Package screen drives the fetch/render lifecycle shared by every list screen.
//
//	Loading ──ok──▶ Ready ──refresh──▶ Refreshing ──ok──▶ Ready
//	   │                                   │
//	   └──err──▶ Failed ◀──────err─────────┘
//	              │
//	              └──retry──▶ Loading
package screen

import (
	"errors"
	"log/slog"

	"github.com/idilsaglam/coolsave/internal/liststore"
	"github.com/idilsaglam/coolsave/internal/model"
	"github.com/idilsaglam/coolsave/internal/refresh"
)

// State is the render state of a screen.
type State int

const (
	Loading State = iota
	Ready
	Refreshing
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Refreshing:
		return "refreshing"
	case Failed:
		return "error"
	}
	return "unknown"
}

// Controller owns a screen's list, its fetch tracker and its render state.
type Controller[T model.Keyed] struct {
	name    string
	log     *slog.Logger
	store   *liststore.Store[T]
	tracker refresh.Tracker

	state  State
	err    error
	notice string
}

func New[T model.Keyed](name string, log *slog.Logger) *Controller[T] {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Controller[T]{
		name:  name,
		log:   log.With("screen", name),
		store: liststore.New[T](),
	}
}

// Mount activates the screen and starts the initial fetch.
func (c *Controller[T]) Mount() (refresh.Ticket, bool) {
	c.tracker.Activate()
	c.state = Loading
	c.err = nil
	return c.tracker.Begin()
}

// Unmount deactivates the screen. Responses still in flight will be dropped.
func (c *Controller[T]) Unmount() {
	c.tracker.Deactivate()
	c.notice = ""
}

// Resume reactivates the screen on the list it already holds, without a
// fetch. It reports false when there is nothing to show, in which case the
// caller should Mount instead.
func (c *Controller[T]) Resume() bool {
	if c.state != Ready && c.state != Refreshing {
		return false
	}
	c.tracker.Activate()
	c.state = Ready
	return true
}

// Refresh starts a re-fetch from Ready. It refuses while another fetch is in
// flight or the screen is not showing a list.
func (c *Controller[T]) Refresh() (refresh.Ticket, bool) {
	if c.state != Ready {
		return refresh.Ticket{}, false
	}
	tk, ok := c.tracker.Begin()
	if ok {
		c.state = Refreshing
	}
	return tk, ok
}

// Retry leaves Failed for a fresh Loading attempt.
func (c *Controller[T]) Retry() (refresh.Ticket, bool) {
	if c.state != Failed {
		return refresh.Ticket{}, false
	}
	tk, ok := c.tracker.Begin()
	if ok {
		c.state = Loading
		c.err = nil
	}
	return tk, ok
}

// Resolve applies the outcome of the fetch tagged tk. It returns false when
// the response is stale and was discarded.
func (c *Controller[T]) Resolve(tk refresh.Ticket, items []T, err error) bool {
	if !c.tracker.Accept(tk) {
		c.log.Debug("discarding stale response", "seq", tk.Seq, "epoch", tk.Epoch)
		return false
	}
	if err != nil {
		c.log.Error("fetch failed", "err", err)
		c.state = Failed
		c.err = err
		return true
	}
	c.store.ReplaceAll(items)
	c.state = Ready
	c.err = nil
	return true
}

// Current reports whether tk belongs to the live activation of the screen.
func (c *Controller[T]) Current(tk refresh.Ticket) bool { return c.tracker.Current(tk) }

// Epoch identifies the live activation; periodic ticks and mutation results
// carry it.
func (c *Controller[T]) Epoch() uint64 { return c.tracker.Epoch() }

// Live reports whether a result tagged with epoch may still touch the screen.
// Results from a closed or since-reopened activation are logged and dropped.
func (c *Controller[T]) Live(epoch uint64) bool {
	if c.tracker.Live(epoch) {
		return true
	}
	c.log.Debug("discarding result for inactive screen", "epoch", epoch)
	return false
}

// Created prepends an entity the server just created.
func (c *Controller[T]) Created(item T) { c.store.InsertFront(item) }

// Updated swaps in an entity the server just updated. A stale reference is
// surfaced as a notice and returned.
func (c *Controller[T]) Updated(item T) error {
	if err := c.store.ReplaceByID(item.Key(), item); err != nil {
		c.log.Warn("update target missing", "id", item.Key(), "err", err)
		c.notice = "This item no longer exists. Refresh to see the latest list."
		return err
	}
	return nil
}

// Removal is an optimistic delete that can be rolled back.
type Removal[T model.Keyed] struct {
	ID    string
	item  T
	index int
	found bool
}

// Remove drops id from the view before the server confirms. Removing an
// absent id is a no-op.
func (c *Controller[T]) Remove(id string) Removal[T] {
	r := Removal[T]{ID: id, index: c.store.IndexOf(id)}
	r.item, r.found = c.store.Get(id)
	c.store.RemoveByID(id)
	return r
}

// Restore undoes a removal whose request failed, leaving the list as it was.
func (c *Controller[T]) Restore(r Removal[T]) {
	if !r.found {
		return
	}
	if _, exists := c.store.Get(r.ID); exists {
		return
	}
	c.store.InsertAt(r.index, r.item)
}

// MutationFailed records a failed create/update/delete/generate. The list is
// left as is and msg is shown as a dismissible notice.
func (c *Controller[T]) MutationFailed(msg string, err error) {
	c.log.Error(msg, "err", err)
	c.notice = msg
}

// Notify shows a dismissible message that is not an error.
func (c *Controller[T]) Notify(msg string) { c.notice = msg }

func (c *Controller[T]) DismissNotice() { c.notice = "" }

func (c *Controller[T]) Notice() string { return c.notice }

func (c *Controller[T]) State() State { return c.state }

// Err is the fetch error shown in the Failed state.
func (c *Controller[T]) Err() error { return c.err }

// ErrorText is the message rendered full-screen in the Failed state.
func (c *Controller[T]) ErrorText() string {
	if c.err == nil {
		return ""
	}
	var msg interface{ UserMessage() string }
	if errors.As(c.err, &msg) {
		return msg.UserMessage()
	}
	return c.err.Error()
}

func (c *Controller[T]) Items() []T { return c.store.Items() }

func (c *Controller[T]) Get(id string) (T, bool) { return c.store.Get(id) }

func (c *Controller[T]) Len() int { return c.store.Len() }

// Empty reports a loaded list with nothing in it.
func (c *Controller[T]) Empty() bool {
	return (c.state == Ready || c.state == Refreshing) && c.store.Len() == 0
}

// ShowsList reports whether the list (or its empty state) should render.
func (c *Controller[T]) ShowsList() bool { return c.state == Ready || c.state == Refreshing }

func (c *Controller[T]) Name() string { return c.name }
