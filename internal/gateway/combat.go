package gateway

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/A-Paradis/gridduel/internal/events"
	"github.com/A-Paradis/gridduel/internal/game/board"
	"github.com/A-Paradis/gridduel/internal/game/combat"
	"github.com/A-Paradis/gridduel/internal/game/room"
)

// CombatGateway handles the combat wire events and relays turn
// notifications. It subscribes to the staged combat kickoff published by
// the action gateway.
type CombatGateway struct {
	rooms  *room.Service
	orch   *combat.Orchestrator
	bcast  Broadcaster
	logger *zap.Logger
}

// NewCombatGateway assembles the combat gateway and subscribes it to
// the combat kickoff topic on bus.
func NewCombatGateway(rooms *room.Service, orch *combat.Orchestrator, bus *events.Bus, bcast Broadcaster, logger *zap.Logger) *CombatGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &CombatGateway{
		rooms:  rooms,
		orch:   orch,
		bcast:  bcast,
		logger: logger,
	}
	bus.Subscribe(topicStartingCombat, func(payload any) {
		sc, ok := payload.(startingCombat)
		if !ok {
			g.logger.Error("unexpected combat kickoff payload")
			return
		}
		g.onCombatStarted(sc)
	})
	return g
}

// onCombatStarted opens the combat room for a staged challenge: both
// combatants join the combat group, the opening player is announced, and
// the first turn starts.
func (g *CombatGateway) onCombatStarted(sc startingCombat) {
	gameRoom := g.rooms.ByID(sc.RoomID)
	attacker := g.connectedPlayer(sc.RoomID, sc.AttackerName)
	combatant := g.connectedPlayer(sc.RoomID, sc.CombatantName)
	if gameRoom == nil || attacker == nil || combatant == nil {
		g.logger.Warn("combat kickoff with missing participants",
			zap.String("room", sc.RoomID),
			zap.String("attacker", sc.AttackerName),
			zap.String("combatant", sc.CombatantName))
		return
	}

	combatRoomID, cr := g.orch.Registry().Create(*attacker, *combatant)
	g.bcast.Join(combatRoomID, attacker.Client.ID())
	g.bcast.Join(combatRoomID, combatant.Client.ID())

	g.bcast.SendToGroup(combatRoomID, EventCombatFirstPlayer, FirstPlayerNotice{
		FirstPlayer: cr.Active,
		Message:     fmt.Sprintf("%s commence le combat", cr.Active.Name),
	})

	g.logger.Info("combat started",
		zap.String("room", sc.RoomID),
		zap.String("combatRoom", combatRoomID))

	g.orch.StartTurn(cr, gameRoom, g.callbacks(combatRoomID, cr))
}

// HandleAttack resolves an attack action by the client. Clients outside
// a game room or a combat are ignored.
func (g *CombatGateway) HandleAttack(clientID string) {
	_, gameRoom, ok := g.rooms.RoomAndIDForClient(clientID)
	if !ok {
		return
	}
	combatRoomID, cr, ok := g.orch.Registry().RoomForClient(clientID)
	if !ok {
		return
	}
	g.orch.AttackTurn(cr, gameRoom, g.callbacks(combatRoomID, cr))
}

// HandleEvade resolves an evasion action by the client. Clients outside
// a game room or a combat are ignored.
func (g *CombatGateway) HandleEvade(clientID string) {
	if _, _, ok := g.rooms.RoomAndIDForClient(clientID); !ok {
		return
	}
	combatRoomID, cr, ok := g.orch.Registry().RoomForClient(clientID)
	if !ok {
		return
	}
	g.orch.EvadeTurn(cr, g.callbacks(combatRoomID, cr))
}

// HandleDisconnect dissolves the combat a departing connection was in
// and crowns the remaining combatant.
func (g *CombatGateway) HandleDisconnect(clientID string) {
	cr, combatRoomID, adversary, ok := g.orch.HandleDisconnect(clientID)
	if !ok {
		return
	}
	g.leaveGroup(combatRoomID, cr)
	if adversary != nil && adversary.Client != nil {
		g.bcast.SendTo(adversary.Client.ID(), EventCombatFinished, PlayerNotice{
			Message: "Votre adversaire s'est déconnecté. Vous être le gagnant!",
			Player:  adversary.Player,
		})
	}
}

// callbacks wires the turn notifications of one combat room to the
// socket layer.
func (g *CombatGateway) callbacks(combatRoomID string, cr *combat.Room) combat.Callbacks {
	return combat.Callbacks{
		OnTimerUpdate: func(secondsLeft int) {
			g.bcast.SendToGroup(combatRoomID, EventTimerUpdate, secondsLeft)
		},
		OnActivePlayer: func(active *board.Player) {
			g.bcast.SendToGroup(combatRoomID, EventActivePlayer, active)
		},
		OnWinner: func() {
			g.signalWonCombat(combatRoomID, cr)
		},
		OnEvasion: func() {
			g.signalEvadedCombat(combatRoomID, cr)
		},
	}
}

func (g *CombatGateway) signalWonCombat(combatRoomID string, cr *combat.Room) {
	winner, loser := cr.Player1, cr.Player2
	if cr.Winner == cr.Player2.Player {
		winner, loser = cr.Player2, cr.Player1
	}
	if winner.Client != nil {
		g.bcast.SendTo(winner.Client.ID(), EventCombatFinished, PlayerNotice{
			Message: "Félicitation! Vous avez gagné le combat.",
			Player:  winner.Player,
		})
	}
	if loser.Client != nil {
		g.bcast.SendTo(loser.Client.ID(), EventCombatFinished, PlayerNotice{
			Message: "Vous avez perdu. Meilleur chance la prochaine fois.",
			Player:  loser.Player,
		})
	}
	g.dissolve(combatRoomID, cr)
}

// signalEvadedCombat notifies both sides of a successful evasion. The
// turn never passes on success, so the active player is the evader.
func (g *CombatGateway) signalEvadedCombat(combatRoomID string, cr *combat.Room) {
	evader, adversary := cr.Player1, cr.Player2
	if cr.Active == cr.Player2.Player {
		evader, adversary = cr.Player2, cr.Player1
	}
	if evader.Client != nil {
		g.bcast.SendTo(evader.Client.ID(), EventEvasionSuccessful, PlayerNotice{
			Message: "Vous avez évader votre adversaire.",
			Player:  evader.Player,
		})
	}
	if adversary.Client != nil {
		g.bcast.SendTo(adversary.Client.ID(), EventEvasionSuccessful, PlayerNotice{
			Message: "Votre adversaire s'est échappé.",
			Player:  adversary.Player,
		})
	}
	g.dissolve(combatRoomID, cr)
}

// dissolve detaches both combatants from the combat group and releases
// the timer and registry entry.
func (g *CombatGateway) dissolve(combatRoomID string, cr *combat.Room) {
	g.leaveGroup(combatRoomID, cr)
	g.orch.Teardown(combatRoomID, cr)
}

func (g *CombatGateway) leaveGroup(combatRoomID string, cr *combat.Room) {
	if cr.Player1.Client != nil {
		g.bcast.Leave(combatRoomID, cr.Player1.Client.ID())
	}
	if cr.Player2.Client != nil {
		g.bcast.Leave(combatRoomID, cr.Player2.Client.ID())
	}
}

// connectedPlayer resolves a room member and their connection by name.
func (g *CombatGateway) connectedPlayer(roomID, name string) *room.ConnectedPlayer {
	p := g.rooms.PlayerByName(roomID, name)
	if p == nil {
		return nil
	}
	client := g.rooms.ClientForPlayer(name)
	if client == nil {
		return nil
	}
	return &room.ConnectedPlayer{Player: p, Client: client}
}
