package gateway

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/A-Paradis/gridduel/internal/game/board"
)

// Router dispatches decoded socket frames to the gateways. It is the
// inbound handler the websocket hub runs.
type Router struct {
	actions   *ActionGateway
	combats   *CombatGateway
	registrar *Registrar
	logger    *zap.Logger
}

// NewRouter wires the gateways behind one inbound dispatch point.
// registrar may be nil when players are managed externally.
func NewRouter(actions *ActionGateway, combats *CombatGateway, registrar *Registrar, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{actions: actions, combats: combats, registrar: registrar, logger: logger}
}

// HandleMessage decodes the event payload and routes it. Unknown events
// and undecodable payloads are logged and dropped.
func (r *Router) HandleMessage(clientID, event string, data json.RawMessage) {
	switch event {
	case EventInteractDoor:
		var pos board.Vec2
		if err := json.Unmarshal(data, &pos); err != nil {
			r.logger.Warn("bad interact-door payload", zap.String("client", clientID), zap.Error(err))
			return
		}
		r.actions.HandleInteractDoor(clientID, pos)
	case EventRequestMoves:
		r.actions.HandleRequestMoves(clientID)
	case EventMove:
		var req MoveRequest
		if err := json.Unmarshal(data, &req); err != nil {
			r.logger.Warn("bad move payload", zap.String("client", clientID), zap.Error(err))
			return
		}
		r.actions.HandleMove(clientID, req)
	case EventRequestCombat:
		var req CombatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			r.logger.Warn("bad request-combat payload", zap.String("client", clientID), zap.Error(err))
			return
		}
		r.actions.HandleRequestCombat(clientID, req)
	case EventAttack:
		r.combats.HandleAttack(clientID)
	case EventEvade:
		r.combats.HandleEvade(clientID)
	default:
		r.logger.Debug("unknown event", zap.String("client", clientID), zap.String("event", event))
	}
}

// HandleDisconnect resolves any combat in flight against the departing
// player, then detaches the player from their room.
func (r *Router) HandleDisconnect(clientID string) {
	r.combats.HandleDisconnect(clientID)
	if r.registrar != nil {
		r.registrar.Unregister(clientID)
	}
}
