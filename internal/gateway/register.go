package gateway

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/A-Paradis/gridduel/internal/game/board"
	"github.com/A-Paradis/gridduel/internal/game/combat"
	"github.com/A-Paradis/gridduel/internal/game/room"
)

// Registrar places connecting players into game rooms. Rooms are
// instantiated lazily from the loaded board layouts; a departing
// player's tile is vacated and an emptied room is removed.
type Registrar struct {
	rooms        *room.Service
	layouts      map[string]*board.State
	defaultBoard string
	bcast        Broadcaster
	logger       *zap.Logger

	// mu serializes the check-then-create of room registration.
	mu sync.Mutex
}

// NewRegistrar builds a registrar over the given layouts.
//
// Precondition: layouts must contain defaultBoard.
func NewRegistrar(rooms *room.Service, layouts map[string]*board.State, defaultBoard string, bcast Broadcaster, logger *zap.Logger) *Registrar {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registrar{
		rooms:        rooms,
		layouts:      layouts,
		defaultBoard: defaultBoard,
		bcast:        bcast,
		logger:       logger,
	}
}

// Register joins a connecting player to a room. The room is created
// from the named board layout on first use (empty boardName falls back
// to the default layout); the player spawns on the first free passable
// tile and the connection joins the room's broadcast group.
//
// Postcondition: Returns a non-nil error on an unknown layout, a locked
// room, a taken player name, or a full board; the room is unchanged then.
func (g *Registrar) Register(client room.Client, roomID, playerName, boardName, bonus string) error {
	if roomID == "" || playerName == "" {
		return fmt.Errorf("room and player must not be empty")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	rm := g.rooms.ByID(roomID)
	if rm == nil {
		if boardName == "" {
			boardName = g.defaultBoard
		}
		layout, ok := g.layouts[boardName]
		if !ok {
			return fmt.Errorf("unknown board layout %q", boardName)
		}
		rm = &room.Room{State: layout.Clone()}
		g.rooms.Add(roomID, rm)
	}
	if rm.Locked {
		return fmt.Errorf("room %s is locked", roomID)
	}
	if rm.PlayerByName(playerName) != nil {
		return fmt.Errorf("player name %q is taken in room %s", playerName, roomID)
	}

	p := newPlayer(playerName, bonus)
	tile := freeTile(rm.State)
	if tile == nil {
		return fmt.Errorf("room %s has no free tile", roomID)
	}
	tile.Player = p
	p.CurrPosition = tile.Position

	g.rooms.SetPlayers(roomID, append(rm.Players, room.ConnectedPlayer{Player: p, Client: client}))
	g.bcast.Join(roomID, client.ID())

	g.logger.Info("player joined",
		zap.String("room", roomID),
		zap.String("player", playerName))
	return nil
}

// Unregister removes a departing connection's player from its room,
// vacating the tile. An emptied room is dropped entirely.
func (g *Registrar) Unregister(clientID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	roomID, rm, ok := g.rooms.RoomAndIDForClient(clientID)
	if !ok {
		return
	}
	g.bcast.Leave(roomID, clientID)

	remaining := make([]room.ConnectedPlayer, 0, len(rm.Players))
	for _, cp := range rm.Players {
		if cp.Client != nil && cp.Client.ID() == clientID {
			if tile := rm.State.TileOf(cp.Player.Name); tile != nil {
				tile.Player = nil
			}
			continue
		}
		remaining = append(remaining, cp)
	}

	if len(remaining) == 0 {
		g.rooms.Remove(roomID)
		g.logger.Info("room emptied", zap.String("room", roomID))
		return
	}
	g.rooms.SetPlayers(roomID, remaining)
}

// newPlayer builds a fresh player with full combat resources. A speed
// bonus also raises the movement budget.
func newPlayer(name, bonus string) *board.Player {
	p := &board.Player{
		Name:            name,
		Health:          combat.AttributeInitValue,
		EvadingAttempts: combat.MaxEvasionAttempts,
		AttackDie:       6,
		DefenseDie:      4,
		InitMoves:       combat.AttributeInitValue,
	}
	switch bonus {
	case "speed":
		p.Bonus = board.Speed
		p.InitMoves += combat.BonusValue
	case "attack":
		p.Bonus = board.Attack
	case "defense":
		p.Bonus = board.Defense
	case "life":
		p.Bonus = board.Life
	}
	p.MovesLeft = p.InitMoves
	return p
}

// freeTile returns the first unoccupied passable tile, or nil.
func freeTile(s *board.State) *board.Tile {
	for i := range s.Tiles {
		t := &s.Tiles[i]
		if t.Player != nil || t.ItemID != "" {
			continue
		}
		if _, ok := t.Type.Cost(); ok {
			return t
		}
	}
	return nil
}
