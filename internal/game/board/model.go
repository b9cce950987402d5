// Package board provides the grid data model and the reachability engine:
// tiles, terrain costs, players, and the cost-weighted search that gates
// legal moves.
package board

import "fmt"

// Vec2 is a grid position. X grows rightward, Y grows downward.
type Vec2 struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// directions are the four orthogonal neighbor offsets. Diagonal movement
// is not legal on the board.
var directions = []Vec2{
	{X: 0, Y: -1},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
}

// TileType identifies the terrain of a tile.
type TileType string

// Terrain types. Doors toggle between the two door types; walls and closed
// doors cannot be crossed at any cost.
const (
	Dirt       TileType = "dirt"
	Mud        TileType = "mud"
	Slime      TileType = "slime"
	Wall       TileType = "wall"
	OpenedDoor TileType = "opened-door"
	ClosedDoor TileType = "closed-door"
)

// tileCosts maps passable terrain to its traversal cost. Slime is free to
// enter; the price is paid in combat instead.
var tileCosts = map[TileType]int{
	Dirt:       1,
	Mud:        2,
	Slime:      0,
	OpenedDoor: 1,
}

// Cost returns the traversal cost of the terrain. ok is false for
// impassable terrain (walls, closed doors, unknown types).
func (t TileType) Cost() (cost int, ok bool) {
	cost, ok = tileCosts[t]
	return cost, ok
}

// IsDoor reports whether the terrain is a door in either state.
func (t TileType) IsDoor() bool {
	return t == OpenedDoor || t == ClosedDoor
}

// Attribute is a player's bonus attribute tag.
type Attribute string

// The four bonus attributes a player can carry.
const (
	Speed   Attribute = "speed"
	Attack  Attribute = "attack"
	Defense Attribute = "defense"
	Life    Attribute = "life"
)

// Player holds a participant's identity and combat-relevant attributes.
// The game room owns the canonical Player; a combat room works on the same
// shared object for the duration of a combat.
type Player struct {
	// Name is unique within a room and is the merge-back key after combat.
	Name         string `json:"name"`
	CurrPosition Vec2   `json:"currPosition"`
	// MovesLeft is the remaining movement budget this turn.
	MovesLeft int `json:"movesLeft"`
	// InitMoves is the per-turn starting movement budget.
	InitMoves int `json:"initMoves"`
	Health    int `json:"health"`
	Victories int `json:"victories"`
	// EvadingAttempts is the per-combat evasion budget.
	EvadingAttempts int `json:"evadingAttempts"`
	// AttackDie and DefenseDie are the face counts rolled in combat.
	AttackDie  int       `json:"attackDice"`
	DefenseDie int       `json:"defenseDice"`
	Bonus      Attribute `json:"bonus"`
}

// Tile is one cell of the board.
type Tile struct {
	Type     TileType `json:"id"`
	Position Vec2     `json:"position"`
	// ItemID is the id of an item occupying the tile, if any.
	ItemID string `json:"item,omitempty"`
	// Player is a weak reference to the occupying player. Existence
	// implies occupancy, not ownership.
	Player *Player `json:"player,omitempty"`
}

// State is the board of a game room: an ordered set of tiles plus the side
// length of the square grid.
type State struct {
	Tiles []Tile `json:"board"`
	Size  int    `json:"boardSize"`
}

// InBounds reports whether pos lies on the board.
func (s *State) InBounds(pos Vec2) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < s.Size && pos.Y < s.Size
}

// TileAt returns the tile at pos, or nil when no tile carries that
// position.
func (s *State) TileAt(pos Vec2) *Tile {
	for i := range s.Tiles {
		if s.Tiles[i].Position == pos {
			return &s.Tiles[i]
		}
	}
	return nil
}

// TileOf returns the tile occupied by the named player, or nil when the
// player is not on the board.
func (s *State) TileOf(name string) *Tile {
	for i := range s.Tiles {
		if p := s.Tiles[i].Player; p != nil && p.Name == name {
			return &s.Tiles[i]
		}
	}
	return nil
}

// Clone returns an independent copy of the board with no occupants, for
// instantiating a room from a shared layout.
func (s *State) Clone() *State {
	out := &State{Size: s.Size, Tiles: make([]Tile, len(s.Tiles))}
	copy(out.Tiles, s.Tiles)
	for i := range out.Tiles {
		out.Tiles[i].Player = nil
	}
	return out
}

// Validate checks board invariants: size > 0, one tile per position, all
// positions in bounds.
func (s *State) Validate() error {
	if s.Size <= 0 {
		return fmt.Errorf("board size must be positive, got %d", s.Size)
	}
	seen := make(map[Vec2]bool, len(s.Tiles))
	for _, t := range s.Tiles {
		if !s.InBounds(t.Position) {
			return fmt.Errorf("tile at (%d,%d) is out of bounds for size %d", t.Position.X, t.Position.Y, s.Size)
		}
		if seen[t.Position] {
			return fmt.Errorf("duplicate tile at (%d,%d)", t.Position.X, t.Position.Y)
		}
		seen[t.Position] = true
	}
	return nil
}
