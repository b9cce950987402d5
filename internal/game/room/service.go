package room

import (
	"sync"

	"github.com/A-Paradis/gridduel/internal/game/board"
)

// Service is the room directory. It owns the id→room map and a
// client-id→room-id index kept transactionally in step with it, so
// per-connection lookups avoid scanning every room.
//
// All methods are safe for concurrent use.
type Service struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	clients map[string]string // client id → room id
}

// NewService creates an empty room directory.
func NewService() *Service {
	return &Service{
		rooms:   make(map[string]*Room),
		clients: make(map[string]string),
	}
}

// Add registers a room under id and indexes its connected players.
func (s *Service) Add(id string, r *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[id] = r
	for _, cp := range r.Players {
		if cp.Client != nil {
			s.clients[cp.Client.ID()] = id
		}
	}
}

// Remove deletes the room and every client-index entry pointing at it.
func (s *Service) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	for clientID, roomID := range s.clients {
		if roomID == id {
			delete(s.clients, clientID)
		}
	}
}

// ByID returns the room registered under id, or nil.
func (s *Service) ByID(id string) *Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms[id]
}

// Exists reports whether a room is registered under id.
func (s *Service) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[id]
	return ok
}

// IsLocked reports whether the identified room refuses new joins.
// Unknown rooms report false.
func (s *Service) IsLocked(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return ok && r.Locked
}

// StateByID returns the board state of a room, or nil for unknown rooms.
func (s *Service) StateByID(id string) *board.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil
	}
	return r.State
}

// SetState replaces the board state of a room. Unknown rooms are a no-op.
func (s *Service) SetState(id string, state *board.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[id]; ok {
		r.State = state
	}
}

// ApplyMove walks the named player along path on the identified room's
// board. An unknown room or player is a no-op.
func (s *Service) ApplyMove(roomID string, path []board.Vec2, playerName string) {
	s.mu.RLock()
	r, ok := s.rooms[roomID]
	s.mu.RUnlock()
	if !ok {
		return
	}
	r.ApplyMove(path, playerName)
}

// RoomAndIDForClient resolves the room a connection belongs to.
//
// Postcondition: Returns (roomID, room, true) when the client is indexed
// and the room still exists; zero values and false otherwise.
func (s *Service) RoomAndIDForClient(clientID string) (string, *Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roomID, ok := s.clients[clientID]
	if !ok {
		return "", nil, false
	}
	r, ok := s.rooms[roomID]
	if !ok {
		return "", nil, false
	}
	return roomID, r, true
}

// RoomIDForPlayer returns the id of the room holding a player with the
// given name, or "" when no room does.
func (s *Service) RoomIDForPlayer(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, r := range s.rooms {
		if r.PlayerByName(name) != nil {
			return id
		}
	}
	return ""
}

// PlayerForClient resolves the player record behind a connection, or
// nil when the client is not registered in any room.
func (s *Service) PlayerForClient(clientID string) *board.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roomID, ok := s.clients[clientID]
	if !ok {
		return nil
	}
	r, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	for _, cp := range r.Players {
		if cp.Client != nil && cp.Client.ID() == clientID {
			return cp.Player
		}
	}
	return nil
}

// ClientForPlayer returns the transport handle of the named player, or
// nil when the player is not connected to any room.
func (s *Service) ClientForPlayer(name string) Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rooms {
		for _, cp := range r.Players {
			if cp.Player != nil && cp.Player.Name == name {
				return cp.Client
			}
		}
	}
	return nil
}

// PlayerByName returns the named player within a specific room, or nil.
func (s *Service) PlayerByName(roomID, name string) *board.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	return r.PlayerByName(name)
}

// Players returns the connected players of a room; nil for unknown rooms.
func (s *Service) Players(roomID string) []ConnectedPlayer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	return r.Players
}

// SetPlayers replaces a room's player list and reindexes its clients.
func (s *Service) SetPlayers(roomID string, players []ConnectedPlayer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return
	}
	for clientID, id := range s.clients {
		if id == roomID {
			delete(s.clients, clientID)
		}
	}
	r.Players = players
	for _, cp := range players {
		if cp.Client != nil {
			s.clients[cp.Client.ID()] = roomID
		}
	}
}
