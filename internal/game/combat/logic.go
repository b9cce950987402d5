package combat

import (
	"github.com/A-Paradis/gridduel/internal/game/board"
	"github.com/A-Paradis/gridduel/internal/game/dice"
	"github.com/A-Paradis/gridduel/internal/game/room"
)

// AttackResult records one resolved attack for logging and inspection.
type AttackResult struct {
	AttackerName string
	DefenderName string
	AttackRoll   int
	DefenseRoll  int
	// Damage is the health subtracted from the defender; zero when the
	// defense held.
	Damage int
}

// Attack resolves one attack of the active player against the other
// combatant. Each side scores AttributeInitValue plus a die roll, minus a
// slime penalty when standing on a slime tile of the parent room's board;
// a positive difference is subtracted from the defender's health. Health
// is not clamped — win detection treats anything at or below zero as
// defeated.
//
// Precondition: src must be non-nil; game must be the parent room of both
// combatants.
func Attack(cr *Room, game *room.Room, src dice.Source) AttackResult {
	attacker := cr.Active
	defender := cr.Defender()

	attackRoll := dice.Roll(dice.Die(attacker.AttackDie), src)
	defenseRoll := dice.Roll(dice.Die(defender.DefenseDie), src)

	attackScore := AttributeInitValue + attackRoll - slimePenalty(game, attacker)
	defenseScore := AttributeInitValue + defenseRoll - slimePenalty(game, defender)

	result := AttackResult{
		AttackerName: attacker.Name,
		DefenderName: defender.Name,
		AttackRoll:   attackRoll,
		DefenseRoll:  defenseRoll,
	}
	if diff := attackScore - defenseScore; diff > 0 {
		defender.Health -= diff
		result.Damage = diff
	}
	return result
}

// Evade resolves one evasion attempt by the active player. Without
// remaining attempts the attempt always fails and nothing changes. On a
// successful draw both combatants regain full starting health and the
// active player spends one attempt; the combat is over with no winner.
//
// Postcondition: Returns true iff the evasion succeeded.
func Evade(cr *Room, src dice.Source) bool {
	if cr.Active.EvadingAttempts <= 0 {
		return false
	}
	if src.Float64() > EvasionSuccessProbability {
		return false
	}
	cr.Player1.Player.Health = AttributeInitValue
	cr.Player2.Player.Health = AttributeInitValue
	cr.Active.EvadingAttempts--
	return true
}

// slimePenalty returns BonusValue when the combatant stands on a slime
// tile of the game board, zero otherwise (including when the player is
// not found on the board).
func slimePenalty(game *room.Room, p *board.Player) int {
	if game == nil || game.State == nil {
		return 0
	}
	if onSlime, found := board.OnSlime(game.State, p); found && onSlime {
		return BonusValue
	}
	return 0
}
