// Package gateway binds the socket wire contract to the game services:
// it decodes inbound action and combat events, drives the room and
// combat subsystems, and emits the resulting notifications.
package gateway

import "github.com/A-Paradis/gridduel/internal/game/board"

// Inbound events.
const (
	EventInteractDoor  = "interact-door"
	EventRequestMoves  = "request-accessible-tiles"
	EventMove          = "move"
	EventRequestCombat = "request-combat"
	EventAttack        = "attack"
	EventEvade         = "evade"
)

// Outbound events.
const (
	EventDoorChanged       = "door-changed"
	EventAccessibleTiles   = "accessible-tiles"
	EventPlayerMoved       = "player-moved"
	EventPlayerChallenged  = "player-challenged"
	EventCombatOngoing     = "combat-ongoing-in-room"
	EventCombatFirstPlayer = "combat-first-player"
	EventTimerUpdate       = "timer-update"
	EventActivePlayer      = "active-player-changed"
	EventCombatFinished    = "combat-finished"
	EventEvasionSuccessful = "evasion-successful"
)

// topicStartingCombat is the in-process topic bridging the challenge
// announcement to the delayed combat kickoff.
const topicStartingCombat = "starting-combat"

// MoveRequest is the payload of a move event: the tile path the client
// wants to walk, in order, excluding the starting tile.
type MoveRequest struct {
	Path []board.Vec2 `json:"path"`
}

// PlayerMove reports a completed move to the room.
type PlayerMove struct {
	Player *board.Player `json:"player"`
	Path   []board.Vec2  `json:"path"`
}

// CombatRequest is the payload of a request-combat event.
type CombatRequest struct {
	Attacker  board.Player `json:"attacker"`
	Combatant board.Player `json:"combatant"`
}

// Notice is a plain user-facing message.
type Notice struct {
	Message string `json:"message"`
}

// PlayerNotice is a user-facing message about one player.
type PlayerNotice struct {
	Message string        `json:"message"`
	Player  *board.Player `json:"player"`
}

// FirstPlayerNotice announces the combatant who opens a combat.
type FirstPlayerNotice struct {
	FirstPlayer *board.Player `json:"firstPlayer"`
	Message     string        `json:"message"`
}

// startingCombat is the internal payload carried by topicStartingCombat.
type startingCombat struct {
	RoomID        string
	AttackerName  string
	CombatantName string
}

// Broadcaster is the outbound half of the socket layer the gateways
// emit through.
type Broadcaster interface {
	// SendTo delivers an event to one connection.
	SendTo(clientID, event string, payload any)
	// SendToGroup delivers an event to every member of a group.
	SendToGroup(group, event string, payload any)
	// SendToGroupExcept delivers an event to every member of a group
	// but the excluded connections.
	SendToGroupExcept(group string, except []string, event string, payload any)
	// Join adds a connection to a group.
	Join(group, clientID string)
	// Leave removes a connection from a group.
	Leave(group, clientID string)
}
