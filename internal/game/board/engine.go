package board

// AccessibleTiles returns the set of positions the player can legally
// reach this move: a cost-weighted breadth-first search from the player's
// position bounded by MovesLeft. Only 4-connected neighbors are explored;
// a neighbor qualifies when it is in bounds, its terrain has finite cost,
// and no other player occupies it. Only the lowest-cost arrival per tile
// is kept. The starting tile itself is never part of the result.
//
// Slime costs nothing to enter, so a player with zero moves left can still
// reach a connected chain of slime tiles.
//
// Postcondition: Every returned position is reachable at cumulative cost
// <= player.MovesLeft, and none equals player.CurrPosition.
func AccessibleTiles(s *State, player *Player) []Vec2 {
	type visit struct {
		pos  Vec2
		cost int
	}

	start := player.CurrPosition
	settled := map[Vec2]int{start: 0}
	queue := []visit{{pos: start, cost: 0}}
	var reachable []Vec2

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, d := range directions {
			next := Vec2{X: cur.pos.X + d.X, Y: cur.pos.Y + d.Y}
			if !s.InBounds(next) {
				continue
			}
			tile := s.TileAt(next)
			if tile == nil || tile.Player != nil {
				continue
			}
			stepCost, ok := tile.Type.Cost()
			if !ok {
				continue
			}
			total := cur.cost + stepCost
			if total > player.MovesLeft {
				continue
			}
			if prev, seen := settled[next]; seen && prev <= total {
				continue
			}
			if _, seen := settled[next]; !seen {
				reachable = append(reachable, next)
			}
			settled[next] = total
			queue = append(queue, visit{pos: next, cost: total})
		}
	}

	return reachable
}

// ToggleDoor flips the door at pos between opened and closed. The toggle
// only applies when the tile is a door and no player stands on it; in any
// other case nil is returned and nothing is mutated.
func ToggleDoor(s *State, pos Vec2) *Tile {
	tile := s.TileAt(pos)
	if tile == nil || !tile.Type.IsDoor() || tile.Player != nil {
		return nil
	}
	if tile.Type == ClosedDoor {
		tile.Type = OpenedDoor
	} else {
		tile.Type = ClosedDoor
	}
	return tile
}

// OnSlime reports whether the player stands on a slime tile. found is
// false when the player is not present on any tile of this board.
func OnSlime(s *State, player *Player) (onSlime, found bool) {
	tile := s.TileOf(player.Name)
	if tile == nil {
		return false, false
	}
	return tile.Type == Slime, true
}

// ApplyMove walks the player along path: the movement cost of every tile
// on the path is charged against MovesLeft, the player's previous tile is
// vacated, and the final tile becomes occupied. The first and last path
// elements determine the position update; occupied tiles along the way are
// skipped for costing (defensive — a validated path never contains any).
//
// An empty path is a no-op.
func ApplyMove(s *State, path []Vec2, player *Player) {
	if len(path) == 0 {
		return
	}

	cost := 0
	for _, pos := range path {
		tile := s.TileAt(pos)
		if tile == nil || tile.Player != nil {
			continue
		}
		if c, ok := tile.Type.Cost(); ok {
			cost += c
		}
	}
	player.MovesLeft -= cost

	if prev := s.TileAt(player.CurrPosition); prev != nil && prev.Player == player {
		prev.Player = nil
	}
	last := path[len(path)-1]
	if dest := s.TileAt(last); dest != nil {
		dest.Player = player
	}
	player.CurrPosition = last
}
