package gateway

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/A-Paradis/gridduel/internal/events"
	"github.com/A-Paradis/gridduel/internal/game/board"
	"github.com/A-Paradis/gridduel/internal/game/room"
)

// DefaultCombatDelay is the pause between announcing a challenge and
// opening the combat, giving clients time to stage their combat view.
const DefaultCombatDelay = 3 * time.Second

// ActionGateway handles in-room player actions: door interaction and
// combat challenges.
type ActionGateway struct {
	rooms       *room.Service
	bus         *events.Bus
	bcast       Broadcaster
	logger      *zap.Logger
	combatDelay time.Duration
}

// NewActionGateway assembles the action gateway. A non-positive
// combatDelay falls back to DefaultCombatDelay.
func NewActionGateway(rooms *room.Service, bus *events.Bus, bcast Broadcaster, logger *zap.Logger, combatDelay time.Duration) *ActionGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if combatDelay <= 0 {
		combatDelay = DefaultCombatDelay
	}
	return &ActionGateway{
		rooms:       rooms,
		bus:         bus,
		bcast:       bcast,
		logger:      logger,
		combatDelay: combatDelay,
	}
}

// HandleInteractDoor toggles the door tile at position on the board of
// the client's room and broadcasts the changed tile. An unknown client,
// a position without a door, or an occupied door is a silent no-op.
func (g *ActionGateway) HandleInteractDoor(clientID string, position board.Vec2) {
	roomID, rm, ok := g.rooms.RoomAndIDForClient(clientID)
	if !ok {
		return
	}
	door := board.ToggleDoor(rm.State, position)
	if door == nil {
		return
	}
	g.bcast.SendToGroup(roomID, EventDoorChanged, door)
	g.logger.Debug("door toggled",
		zap.String("room", roomID),
		zap.Int("x", position.X),
		zap.Int("y", position.Y))
}

// HandleRequestMoves answers a client with the tiles its player can
// currently reach. Unknown clients get nothing.
func (g *ActionGateway) HandleRequestMoves(clientID string) {
	_, rm, ok := g.rooms.RoomAndIDForClient(clientID)
	if !ok {
		return
	}
	player := g.rooms.PlayerForClient(clientID)
	if player == nil {
		return
	}
	g.bcast.SendTo(clientID, EventAccessibleTiles, board.AccessibleTiles(rm.State, player))
}

// HandleMove walks the client's player along the requested path and
// broadcasts the result. The path's destination must be reachable
// within the player's remaining moves; anything else is a silent no-op.
func (g *ActionGateway) HandleMove(clientID string, req MoveRequest) {
	if len(req.Path) == 0 {
		return
	}
	roomID, rm, ok := g.rooms.RoomAndIDForClient(clientID)
	if !ok {
		return
	}
	player := g.rooms.PlayerForClient(clientID)
	if player == nil {
		return
	}
	dest := req.Path[len(req.Path)-1]
	if !reachable(board.AccessibleTiles(rm.State, player), dest) {
		g.logger.Debug("move to unreachable tile dropped",
			zap.String("room", roomID),
			zap.String("player", player.Name),
			zap.Int("x", dest.X),
			zap.Int("y", dest.Y))
		return
	}
	board.ApplyMove(rm.State, req.Path, player)
	g.bcast.SendToGroup(roomID, EventPlayerMoved, PlayerMove{Player: player, Path: req.Path})
}

func reachable(tiles []board.Vec2, pos board.Vec2) bool {
	for _, t := range tiles {
		if t == pos {
			return true
		}
	}
	return false
}

// HandleRequestCombat announces the challenge to both combatants, tells
// the rest of the room a duel is on, and schedules the combat kickoff
// after the staging delay.
func (g *ActionGateway) HandleRequestCombat(clientID string, req CombatRequest) {
	combatantClient := g.rooms.ClientForPlayer(req.Combatant.Name)
	if combatantClient == nil {
		g.logger.Warn("combat request against an unconnected player",
			zap.String("combatant", req.Combatant.Name))
		return
	}

	challenged := Notice{Message: fmt.Sprintf("Préparer vous à combattre: %s vs %s!", req.Attacker.Name, req.Combatant.Name)}
	g.bcast.SendTo(clientID, EventPlayerChallenged, challenged)
	g.bcast.SendTo(combatantClient.ID(), EventPlayerChallenged, challenged)

	roomID := g.rooms.RoomIDForPlayer(req.Attacker.Name)
	g.bcast.SendToGroupExcept(roomID, []string{clientID, combatantClient.ID()}, EventCombatOngoing,
		Notice{Message: fmt.Sprintf("%s a défié %s à un duel!", req.Attacker.Name, req.Combatant.Name)})

	g.logger.Info("combat requested",
		zap.String("room", roomID),
		zap.String("attacker", req.Attacker.Name),
		zap.String("combatant", req.Combatant.Name))

	g.bus.PublishAfter(g.combatDelay, topicStartingCombat, startingCombat{
		RoomID:        roomID,
		AttackerName:  req.Attacker.Name,
		CombatantName: req.Combatant.Name,
	})
}
