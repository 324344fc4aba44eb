// README: Conversation states, events, and the replies the transport relays.
package conversation

import (
	"sync"
	"time"

	"expedition/internal/trip"
)

// State identifies the step the session is waiting on. The flow is strictly
// linear; Cancelled is reachable from any non-terminal state.
type State string

const (
	StateAwaitingStartDate State = "awaiting_start_date"
	StateAwaitingEndDate   State = "awaiting_end_date"
	StateAwaitingLocation  State = "awaiting_location"
	StateAwaitingOccasion  State = "awaiting_occasion"
	StateAwaitingBudget    State = "awaiting_budget"
	StateComplete          State = "complete"
	StateCancelled         State = "cancelled"
)

// nextState encodes the linear flow as data, mirroring the state diagram.
var nextState = map[State]State{
	StateAwaitingStartDate: StateAwaitingEndDate,
	StateAwaitingEndDate:   StateAwaitingLocation,
	StateAwaitingLocation:  StateAwaitingOccasion,
	StateAwaitingOccasion:  StateAwaitingBudget,
	StateAwaitingBudget:    StateComplete,
}

// Event is one inbound user action, attributable to exactly one session.
// Exactly one of Text, Callback, or Cancel is meaningful.
type Event struct {
	SessionID string
	Text      string
	Callback  string
	Cancel    bool
}

// Reply is what the transport should deliver back to the user.
type Reply struct {
	Messages []string
	Keyboard [][]Button

	// Completed carries the finished trip request exactly once, when the
	// final step was accepted. The session is already discarded by then.
	Completed *trip.Request

	Cancelled bool

	// Ignored marks an event that did not match the session's current state
	// (stale picker click, message after cancel). Nothing was mutated.
	Ignored bool
}

func textReply(msgs ...string) Reply {
	return Reply{Messages: msgs}
}

func ignored() Reply {
	return Reply{Ignored: true}
}

// Session is one user's in-progress conversation. Each session carries its
// own lock: at most one in-flight transition per session, while distinct
// sessions proceed independently.
type Session struct {
	mu   sync.Mutex
	done bool // completed or cancelled; late events are ignored

	ID        string
	State     State
	Trip      *trip.Request
	Picker    *Picker
	StartedAt time.Time
}
