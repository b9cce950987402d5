// Package room provides the game-room directory: the authoritative
// per-session state and the lookups the action and combat layers consume.
package room

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/A-Paradis/gridduel/internal/game/board"
)

// Client is the narrow transport handle the game layer sees. The concrete
// implementation lives in the websocket layer.
type Client interface {
	// ID returns the stable connection identity.
	ID() string
	// Send delivers one named event with its payload to the client.
	Send(event string, payload any) error
}

// ConnectedPlayer pairs a player with their transport handle.
type ConnectedPlayer struct {
	Player *board.Player
	Client Client
}

// Room is the authoritative state of one game session.
type Room struct {
	State   *board.State
	Players []ConnectedPlayer
	// Locked blocks new joins when set.
	Locked bool
	// Turn counts completed game turns; Actions counts actions taken in
	// the current turn.
	Turn    int
	Actions int

	accessHash []byte
}

// SetAccessCode stores a bcrypt hash of the room's access code.
//
// Postcondition: CheckAccessCode(code) returns true for the given code.
func (r *Room) SetAccessCode(code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	r.accessHash = hash
	return nil
}

// CheckAccessCode reports whether code matches the stored access code.
// A room with no access code set accepts nothing.
func (r *Room) CheckAccessCode(code string) bool {
	if len(r.accessHash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(r.accessHash, []byte(code)) == nil
}

// PlayerByName returns the named player, or nil when no player in the
// room carries that name.
func (r *Room) PlayerByName(name string) *board.Player {
	for _, cp := range r.Players {
		if cp.Player != nil && cp.Player.Name == name {
			return cp.Player
		}
	}
	return nil
}

// ApplyMove resolves the named player and walks them along path on the
// room's board. An unknown player name resolves to a no-op.
func (r *Room) ApplyMove(path []board.Vec2, playerName string) {
	player := r.PlayerByName(playerName)
	if player == nil {
		return
	}
	board.ApplyMove(r.State, path, player)
}
