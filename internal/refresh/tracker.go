// Package refresh decides when a screen fetches and which responses it keeps.
package refresh

import "time"

const (
	// DashboardInterval is the home screen polling period.
	DashboardInterval = 10 * time.Second
	// MinVisible is the shortest time a manual refresh indicator stays up.
	MinVisible = 2 * time.Second
)

// Ticket tags one fetch. A response is applied only if its ticket is still
// the latest one issued in the current activation.
type Ticket struct {
	Seq   uint64
	Epoch uint64
}

// Tracker enforces single-flight and response sequencing for one screen.
//
// While a fetch is in flight further triggers are coalesced into it: Begin
// refuses them and the caller simply waits for the pending result.
// Deactivate starts a new epoch so anything still in flight lands stale.
type Tracker struct {
	seq      uint64
	epoch    uint64
	active   bool
	inFlight bool
}

// Activate marks the screen mounted. Tickets from earlier activations stay stale.
func (t *Tracker) Activate() {
	t.epoch++
	t.active = true
	t.inFlight = false
}

// Deactivate marks the screen unmounted; late responses are then discarded.
func (t *Tracker) Deactivate() {
	t.epoch++
	t.active = false
	t.inFlight = false
}

// Begin issues a ticket for a new fetch. ok is false when the screen is not
// active or a fetch is already in flight.
func (t *Tracker) Begin() (tk Ticket, ok bool) {
	if !t.active || t.inFlight {
		return Ticket{}, false
	}
	t.seq++
	t.inFlight = true
	return Ticket{Seq: t.seq, Epoch: t.epoch}, true
}

// Accept reports whether the response for tk may be applied, and if so
// clears the in-flight mark.
func (t *Tracker) Accept(tk Ticket) bool {
	if !t.active || tk.Epoch != t.epoch || tk.Seq != t.seq {
		return false
	}
	t.inFlight = false
	return true
}

// Current reports whether tk belongs to the current activation, whether or
// not its response has been applied. Periodic ticks use it to stop re-arming.
func (t *Tracker) Current(tk Ticket) bool { return t.active && tk.Epoch == t.epoch }

// Live reports whether epoch is the current activation of a mounted screen.
// Mutation results carry the epoch they were started in.
func (t *Tracker) Live(epoch uint64) bool { return t.active && epoch == t.epoch }

// Epoch identifies the current activation.
func (t *Tracker) Epoch() uint64 { return t.epoch }

func (t *Tracker) Active() bool { return t.active }

// Busy reports whether a fetch is in flight.
func (t *Tracker) Busy() bool { return t.inFlight }
