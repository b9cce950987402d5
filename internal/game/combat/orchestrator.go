package combat

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/A-Paradis/gridduel/internal/game/board"
	"github.com/A-Paradis/gridduel/internal/game/dice"
	"github.com/A-Paradis/gridduel/internal/game/room"
	"github.com/A-Paradis/gridduel/internal/game/timer"
)

// Timings configures the turn scheduling cadence.
type Timings struct {
	// Long is the turn duration while the active player still holds
	// evasion attempts.
	Long time.Duration
	// Short is the turn duration once the evasion budget is spent.
	Short time.Duration
	// Tick is the cadence of countdown notifications.
	Tick time.Duration
}

// DefaultTimings returns the standard turn schedule.
func DefaultTimings() Timings {
	return Timings{
		Long:  5 * time.Second,
		Short: 3 * time.Second,
		Tick:  time.Second,
	}
}

func (t Timings) withDefaults() Timings {
	def := DefaultTimings()
	if t.Long <= 0 {
		t.Long = def.Long
	}
	if t.Short <= 0 {
		t.Short = def.Short
	}
	if t.Tick <= 0 {
		t.Tick = def.Tick
	}
	return t
}

// Callbacks carries the notification hooks a turn drives. All hooks are
// invoked outside the combat room lock and must be non-nil.
type Callbacks struct {
	// OnTimerUpdate fires each tick with the whole seconds left.
	OnTimerUpdate func(secondsLeft int)
	// OnActivePlayer fires at the start of each turn.
	OnActivePlayer func(active *board.Player)
	// OnWinner fires once a combat resolves with a victor.
	OnWinner func()
	// OnEvasion fires once an evasion ends the combat.
	OnEvasion func()
}

// Orchestrator drives combat turns: it arms the countdown for each turn,
// relays ticks, and funnels both timeouts and explicit player actions
// through the same state-guarded resolution path so that a turn resolves
// exactly once.
type Orchestrator struct {
	timers   *timer.Registry
	registry *Registry
	src      dice.Source
	logger   *zap.Logger
	timings  Timings
}

// NewOrchestrator assembles a turn orchestrator. Zero fields of timings
// fall back to DefaultTimings.
func NewOrchestrator(timers *timer.Registry, registry *Registry, src dice.Source, logger *zap.Logger, timings Timings) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		timers:   timers,
		registry: registry,
		src:      src,
		logger:   logger,
		timings:  timings.withDefaults(),
	}
}

// Registry exposes the combat room registry the orchestrator drives.
func (o *Orchestrator) Registry() *Registry { return o.registry }

// StartTurn opens a turn for the room's active player: marks the room
// active, announces the active player, arms the countdown whose expiry
// forces an attack, and launches the tick loop that relays the remaining
// time and chains the next turn.
func (o *Orchestrator) StartTurn(cr *Room, game *room.Room, cb Callbacks) {
	cr.mu.Lock()
	cr.state = StateActive
	cr.turn++
	gen := cr.turn
	active := cr.Active
	duration := o.turnDuration(active)
	cr.mu.Unlock()

	o.logger.Debug("combat turn started",
		zap.String("player", active.Name),
		zap.Duration("duration", duration))

	cb.OnActivePlayer(active)
	o.timers.Start(cr.TimerID, duration, func() {
		o.expireTurn(cr, game, cb, gen)
	})

	go o.tickLoop(cr, game, cb)
}

// tickLoop relays the countdown once per tick and restarts the turn when
// an action resolved without ending the combat. It terminates when the
// combat finishes or a player leaves.
func (o *Orchestrator) tickLoop(cr *Room, game *room.Room, cb Callbacks) {
	ticker := time.NewTicker(o.timings.Tick)
	defer ticker.Stop()

	for range ticker.C {
		state := cr.State()
		remaining, _ := o.timers.Remaining(cr.TimerID)
		switch {
		case state == StateActive && remaining > 0:
			cb.OnTimerUpdate(int(math.Ceil(remaining.Seconds())))
		case state == StateEventDone || (state == StateActive && remaining <= 0):
			o.StartTurn(cr, game, cb)
			return
		default:
			return
		}
	}
}

// AttackTurn resolves an attack of the active player, whether triggered
// by the player or by the countdown expiring. The turn state gates entry:
// once one resolution claims the turn, the competing trigger observes a
// non-active room and returns without effect.
func (o *Orchestrator) AttackTurn(cr *Room, game *room.Room, cb Callbacks) {
	cr.mu.Lock()
	if cr.state != StateActive {
		cr.mu.Unlock()
		return
	}
	o.attackLocked(cr, game, cb)
}

// expireTurn is the countdown expiry path. gen pins the turn the
// countdown was armed for: an expiry that slept through an explicit
// resolution and a fresh StartTurn observes a newer turn count and must
// not claim the new player's turn.
func (o *Orchestrator) expireTurn(cr *Room, game *room.Room, cb Callbacks, gen uint64) {
	cr.mu.Lock()
	if cr.state != StateActive || cr.turn != gen {
		cr.mu.Unlock()
		return
	}
	o.attackLocked(cr, game, cb)
}

// attackLocked resolves one attack of the active player. Callers hold
// cr.mu with the room in StateActive; the lock is released before the
// winner callback fires.
func (o *Orchestrator) attackLocked(cr *Room, game *room.Room, cb Callbacks) {
	cr.state = StateEventOngoing
	o.timers.Stop(cr.TimerID)

	result := Attack(cr, game, o.src)
	finished := o.resolveWinner(cr, game)
	if !finished {
		cr.toggleActive()
		cr.state = StateEventDone
	}
	cr.mu.Unlock()

	o.logger.Debug("attack resolved",
		zap.String("attacker", result.AttackerName),
		zap.String("defender", result.DefenderName),
		zap.Int("damage", result.Damage),
		zap.Bool("finished", finished))

	if finished {
		cb.OnWinner()
	}
}

// EvadeTurn resolves an evasion attempt of the active player. A success
// finishes the combat with no winner; a failure passes the turn, same as
// a resolved attack.
func (o *Orchestrator) EvadeTurn(cr *Room, cb Callbacks) {
	cr.mu.Lock()
	if cr.state != StateActive {
		cr.mu.Unlock()
		return
	}
	cr.state = StateEventOngoing
	o.timers.Stop(cr.TimerID)

	escaped := Evade(cr, o.src)
	if escaped {
		cr.state = StateFinished
	} else {
		cr.toggleActive()
		cr.state = StateEventDone
	}
	cr.mu.Unlock()

	o.logger.Debug("evasion attempted", zap.Bool("escaped", escaped))

	if escaped {
		cb.OnEvasion()
	}
}

// HandleDisconnect tears down the combat a departing connection was part
// of: the adversary is credited a victory and the room leaves the
// registry. Returns the dissolved room, its id, and the remaining
// participant; ok is false when the client was not in combat.
func (o *Orchestrator) HandleDisconnect(clientID string) (cr *Room, roomID string, adversary *room.ConnectedPlayer, ok bool) {
	roomID, cr, ok = o.registry.RoomForClient(clientID)
	if !ok {
		return nil, "", nil, false
	}
	adversary = o.registry.AdversaryOf(clientID)

	cr.mu.Lock()
	cr.state = StatePlayerLeft
	cr.mu.Unlock()

	if adversary != nil && adversary.Player != nil {
		adversary.Player.Victories++
	}
	o.Teardown(roomID, cr)

	o.logger.Info("combat dissolved on disconnect",
		zap.String("combatRoom", roomID),
		zap.String("client", clientID))
	return cr, roomID, adversary, true
}

// Teardown releases the room's countdown and registry entry once the
// combat is over. Idempotent.
func (o *Orchestrator) Teardown(roomID string, cr *Room) {
	o.timers.Delete(cr.TimerID)
	o.registry.Remove(roomID)
}

// resolveWinner checks for a defeated combatant and, when exactly one
// side is at or below zero health, credits the victory, records the
// winner, folds the outcome back into the parent room, and finishes the
// combat. Callers must hold cr.mu.
func (o *Orchestrator) resolveWinner(cr *Room, game *room.Room) bool {
	p1 := cr.Player1.Player
	p2 := cr.Player2.Player

	var winner *board.Player
	switch {
	case p1.Health <= 0 && p2.Health > 0:
		winner = p2
	case p2.Health <= 0 && p1.Health > 0:
		winner = p1
	default:
		return false
	}

	winner.Victories++
	cr.Winner = winner
	mergeStats(cr, game)
	cr.state = StateFinished
	return true
}

// mergeStats folds the combat outcome back into the parent room by
// player name. Each combatant merges independently; a name with no
// counterpart in the room is skipped.
func mergeStats(cr *Room, game *room.Room) {
	if game == nil {
		return
	}
	for _, cp := range []*board.Player{cr.Player1.Player, cr.Player2.Player} {
		gp := game.PlayerByName(cp.Name)
		if gp == nil {
			continue
		}
		gp.Health = AttributeInitValue
		gp.Victories = cp.Victories
		gp.EvadingAttempts = cp.EvadingAttempts
	}
}

// turnDuration is long while the player still holds evasion attempts and
// short once the budget is spent.
func (o *Orchestrator) turnDuration(p *board.Player) time.Duration {
	if p.EvadingAttempts > 0 {
		return o.timings.Long
	}
	return o.timings.Short
}
