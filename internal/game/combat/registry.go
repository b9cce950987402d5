package combat

import (
	"sync"

	"github.com/google/uuid"

	"github.com/A-Paradis/gridduel/internal/game/board"
	"github.com/A-Paradis/gridduel/internal/game/room"
)

// Registry owns all active combat rooms, keyed by combat room id, with a
// client-id index maintained transactionally on create/remove.
//
// Invariant: a client participates in at most one combat room at a time;
// the orchestrator's create/teardown discipline upholds it.
//
// All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	clients map[string]string // client id → combat room id
}

// NewRegistry creates an empty combat room registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:   make(map[string]*Room),
		clients: make(map[string]string),
	}
}

// Create pairs the attacker with the challenged combatant in a fresh
// combat room. Both shared Player objects are reset to full health and a
// full evasion budget, and the opening turn goes to the faster combatant
// (Speed bonus counts; the attacker wins ties).
//
// Postcondition: Returns the new room id and room; both clients are
// indexed to the room.
func (reg *Registry) Create(attacker, combatant room.ConnectedPlayer) (string, *Room) {
	id := uuid.NewString()

	initCombatant(attacker.Player)
	initCombatant(combatant.Player)

	cr := &Room{
		Player1: attacker,
		Player2: combatant,
		Active:  firstPlayer(attacker.Player, combatant.Player),
		TimerID: uuid.NewString(),
		state:   StateActive,
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.rooms[id] = cr
	if attacker.Client != nil {
		reg.clients[attacker.Client.ID()] = id
	}
	if combatant.Client != nil {
		reg.clients[combatant.Client.ID()] = id
	}
	return id, cr
}

// ByID returns the combat room registered under id, or nil.
func (reg *Registry) ByID(id string) *Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.rooms[id]
}

// Remove deletes the room and both client-index entries.
func (reg *Registry) Remove(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, id)
	for clientID, roomID := range reg.clients {
		if roomID == id {
			delete(reg.clients, clientID)
		}
	}
}

// RoomForClient resolves the combat room a connection participates in.
//
// Postcondition: Returns (roomID, room, true) when the client is in a
// live combat; zero values and false otherwise.
func (reg *Registry) RoomForClient(clientID string) (string, *Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	id, ok := reg.clients[clientID]
	if !ok {
		return "", nil, false
	}
	cr, ok := reg.rooms[id]
	if !ok {
		return "", nil, false
	}
	return id, cr, true
}

// AdversaryOf returns the other participant of the client's combat room,
// or nil when the client is not in combat.
func (reg *Registry) AdversaryOf(clientID string) *room.ConnectedPlayer {
	_, cr, ok := reg.RoomForClient(clientID)
	if !ok {
		return nil
	}
	if cr.Player1.Client != nil && cr.Player1.Client.ID() == clientID {
		return &cr.Player2
	}
	if cr.Player2.Client != nil && cr.Player2.Client.ID() == clientID {
		return &cr.Player1
	}
	return nil
}

// initCombatant resets the combat-scoped resources on the shared Player.
func initCombatant(p *board.Player) {
	p.Health = AttributeInitValue
	p.EvadingAttempts = MaxEvasionAttempts
}

// firstPlayer picks the opening combatant by effective speed. The
// attacker (first argument) wins ties.
func firstPlayer(attacker, combatant *board.Player) *board.Player {
	if speedScore(combatant) > speedScore(attacker) {
		return combatant
	}
	return attacker
}

func speedScore(p *board.Player) int {
	score := AttributeInitValue
	if p.Bonus == board.Speed {
		score += BonusValue
	}
	return score
}
