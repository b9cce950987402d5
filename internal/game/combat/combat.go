// Package combat implements the paired-combat subsystem: combat math,
// the combat-room registry, and the turn orchestrator that multiplexes
// the shared countdown timer with player actions.
package combat

import (
	"sync"

	"github.com/A-Paradis/gridduel/internal/game/board"
	"github.com/A-Paradis/gridduel/internal/game/room"
)

// Combat tuning constants shared by resolution, registry, and orchestrator.
const (
	// AttributeInitValue is the base value of every attribute and the
	// full starting health of a combatant.
	AttributeInitValue = 4
	// BonusValue is the increment granted by a player's bonus attribute
	// and the penalty for fighting from a slime tile.
	BonusValue = 2
	// MaxEvasionAttempts is the per-combat evasion budget.
	MaxEvasionAttempts = 2
	// EvasionSuccessProbability is the chance a single evasion attempt
	// defuses the combat.
	EvasionSuccessProbability = 0.4
)

// State is the lifecycle state of a combat room.
type State int

const (
	// StateActive: timer running, waiting for a timeout or an action.
	StateActive State = iota
	// StateEventOngoing: an action is being resolved. Transient; never
	// observable outside a transition.
	StateEventOngoing
	// StateEventDone: an action resolved without ending combat; the
	// polling loop restarts a fresh turn on observing it.
	StateEventDone
	// StateFinished: a winner or a successful evasion ended combat.
	StateFinished
	// StatePlayerLeft: a participant disconnected mid-combat.
	StatePlayerLeft
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateEventOngoing:
		return "event-ongoing"
	case StateEventDone:
		return "event-done"
	case StateFinished:
		return "finished"
	case StatePlayerLeft:
		return "player-left"
	default:
		return "unknown"
	}
}

// Room is an ephemeral pairing of two connected players for one combat.
// Player1 is always the initiating attacker. The Player objects are the
// same objects the parent game room references; the combat mutates them
// in place and the orchestrator folds the outcome back on completion.
//
// All state transitions happen under mu, owned by the Orchestrator; no
// other code writes state.
type Room struct {
	mu      sync.Mutex
	Player1 room.ConnectedPlayer
	Player2 room.ConnectedPlayer
	// Active points at the combatant whose turn it is.
	Active *board.Player
	// TimerID keys this room's countdown in the timer registry.
	TimerID string
	// Winner is set once a combat resolves with a victor.
	Winner *board.Player

	state State
	// turn counts started turns. A countdown expiry carries the count of
	// the turn it was armed for and may only resolve that turn.
	turn uint64
}

// State returns the current lifecycle state.
func (r *Room) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Defender returns the combatant that is not currently active.
func (r *Room) Defender() *board.Player {
	if r.Active == r.Player1.Player {
		return r.Player2.Player
	}
	return r.Player1.Player
}

// toggleActive hands the turn to the other combatant.
// Callers must hold r.mu.
func (r *Room) toggleActive() {
	if r.Active == r.Player1.Player {
		r.Active = r.Player2.Player
	} else {
		r.Active = r.Player1.Player
	}
}
