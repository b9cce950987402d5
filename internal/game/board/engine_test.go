package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/A-Paradis/gridduel/internal/game/board"
)

// grid3 builds a 3x3 board from terrain types in row-major order.
func grid3(types ...board.TileType) *board.State {
	s := &board.State{Size: 3}
	for i, tt := range types {
		s.Tiles = append(s.Tiles, board.Tile{
			Type:     tt,
			Position: board.Vec2{X: i % 3, Y: i / 3},
		})
	}
	return s
}

// place puts the player on the tile at pos and syncs the player position.
func place(s *board.State, p *board.Player, pos board.Vec2) {
	p.CurrPosition = pos
	s.TileAt(pos).Player = p
}

func positions(tiles []board.Vec2) map[board.Vec2]bool {
	set := make(map[board.Vec2]bool, len(tiles))
	for _, pos := range tiles {
		set[pos] = true
	}
	return set
}

func TestAccessibleTiles_ZeroMovesReachesSlimeChains(t *testing.T) {
	s := grid3(
		board.Slime, board.Slime, board.ClosedDoor,
		board.OpenedDoor, board.Slime, board.Slime,
		board.ClosedDoor, board.Mud, board.Dirt,
	)
	p := &board.Player{Name: "ada", MovesLeft: 0, InitMoves: 4}
	place(s, p, board.Vec2{X: 1, Y: 1})

	got := positions(board.AccessibleTiles(s, p))
	want := map[board.Vec2]bool{
		{X: 1, Y: 0}: true,
		{X: 2, Y: 1}: true,
		{X: 0, Y: 0}: true,
	}
	assert.Equal(t, want, got, "zero moves must still reach connected slime")
}

func TestAccessibleTiles_ReturnsAllReachable(t *testing.T) {
	s := grid3(
		board.Wall, board.OpenedDoor, board.Wall,
		board.ClosedDoor, board.Slime, board.Mud,
		board.ClosedDoor, board.ClosedDoor, board.ClosedDoor,
	)
	p := &board.Player{Name: "ada", MovesLeft: 3, InitMoves: 4}
	place(s, p, board.Vec2{X: 1, Y: 1})

	got := positions(board.AccessibleTiles(s, p))
	want := map[board.Vec2]bool{
		{X: 1, Y: 0}: true,
		{X: 2, Y: 1}: true,
	}
	assert.Equal(t, want, got)
}

func TestAccessibleTiles_NoDiagonalSteps(t *testing.T) {
	s := grid3(
		board.ClosedDoor, board.OpenedDoor, board.ClosedDoor,
		board.ClosedDoor, board.Slime, board.Wall,
		board.Slime, board.ClosedDoor, board.Dirt,
	)
	p := &board.Player{Name: "ada", MovesLeft: 3, InitMoves: 4}
	place(s, p, board.Vec2{X: 1, Y: 1})

	got := positions(board.AccessibleTiles(s, p))
	want := map[board.Vec2]bool{{X: 1, Y: 0}: true}
	assert.Equal(t, want, got, "tiles behind blocked orthogonal chains stay out")
}

func TestAccessibleTiles_SkipsOccupiedTiles(t *testing.T) {
	s := grid3(
		board.Wall, board.OpenedDoor, board.Wall,
		board.ClosedDoor, board.Slime, board.Mud,
		board.ClosedDoor, board.ClosedDoor, board.ClosedDoor,
	)
	p := &board.Player{Name: "ada", MovesLeft: 3, InitMoves: 4}
	rival := &board.Player{Name: "bob"}
	place(s, p, board.Vec2{X: 1, Y: 1})
	place(s, rival, board.Vec2{X: 1, Y: 0})

	got := positions(board.AccessibleTiles(s, p))
	want := map[board.Vec2]bool{{X: 2, Y: 1}: true}
	assert.Equal(t, want, got)
}

// minCosts is an independent Dijkstra used to cross-check the engine. It
// relaxes edges by repeated sweeps, which is slow but obviously correct on
// the small boards rapid generates.
func minCosts(s *board.State, start board.Vec2, occupied func(board.Vec2) bool) map[board.Vec2]int {
	const unreached = 1 << 20
	cost := map[board.Vec2]int{start: 0}
	for changed := true; changed; {
		changed = false
		for _, tile := range s.Tiles {
			from, ok := cost[tile.Position]
			if !ok {
				continue
			}
			for _, d := range []board.Vec2{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}} {
				next := board.Vec2{X: tile.Position.X + d.X, Y: tile.Position.Y + d.Y}
				if !s.InBounds(next) || occupied(next) {
					continue
				}
				nt := s.TileAt(next)
				if nt == nil {
					continue
				}
				step, passable := nt.Type.Cost()
				if !passable {
					continue
				}
				prev, seen := cost[next]
				if !seen {
					prev = unreached
				}
				if from+step < prev {
					cost[next] = from + step
					changed = true
				}
			}
		}
	}
	return cost
}

// TestAccessibleTiles_Invariants checks, over random boards, that the
// result never contains the origin, an occupied tile, or a tile whose
// cheapest path exceeds the movement budget.
func TestAccessibleTiles_Invariants(t *testing.T) {
	terrains := []board.TileType{
		board.Dirt, board.Mud, board.Slime, board.Wall, board.OpenedDoor, board.ClosedDoor,
	}
	rapid.Check(t, func(rt *rapid.T) {
		size := rapid.IntRange(2, 7).Draw(rt, "size")
		s := &board.State{Size: size}
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				tt := terrains[rapid.IntRange(0, len(terrains)-1).Draw(rt, "terrain")]
				s.Tiles = append(s.Tiles, board.Tile{Type: tt, Position: board.Vec2{X: x, Y: y}})
			}
		}

		p := &board.Player{Name: "ada", InitMoves: 6}
		p.MovesLeft = rapid.IntRange(0, 6).Draw(rt, "moves")
		start := board.Vec2{
			X: rapid.IntRange(0, size-1).Draw(rt, "sx"),
			Y: rapid.IntRange(0, size-1).Draw(rt, "sy"),
		}
		place(s, p, start)

		rival := &board.Player{Name: "bob"}
		rx := rapid.IntRange(0, size-1).Draw(rt, "rx")
		ry := rapid.IntRange(0, size-1).Draw(rt, "ry")
		rivalPos := board.Vec2{X: rx, Y: ry}
		if rivalPos != start {
			place(s, rival, rivalPos)
		}

		occupied := func(pos board.Vec2) bool {
			tile := s.TileAt(pos)
			return tile != nil && tile.Player != nil
		}
		costs := minCosts(s, start, occupied)

		for _, pos := range board.AccessibleTiles(s, p) {
			require.NotEqual(rt, start, pos, "result must not contain the origin")
			require.True(rt, s.InBounds(pos))
			require.False(rt, occupied(pos), "result must not contain occupied tiles")
			c, reachable := costs[pos]
			require.True(rt, reachable)
			require.LessOrEqual(rt, c, p.MovesLeft, "cheapest path cost must fit the budget")
		}
	})
}

func TestToggleDoor_IsItsOwnInverse(t *testing.T) {
	s := grid3(
		board.Dirt, board.Dirt, board.Dirt,
		board.Dirt, board.ClosedDoor, board.Dirt,
		board.Dirt, board.Dirt, board.Dirt,
	)
	pos := board.Vec2{X: 1, Y: 1}

	first := board.ToggleDoor(s, pos)
	require.NotNil(t, first)
	assert.Equal(t, board.OpenedDoor, first.Type)

	second := board.ToggleDoor(s, pos)
	require.NotNil(t, second)
	assert.Equal(t, board.ClosedDoor, second.Type)
}

func TestToggleDoor_OccupiedDoorIsNoop(t *testing.T) {
	s := grid3(
		board.Dirt, board.Dirt, board.Dirt,
		board.Dirt, board.OpenedDoor, board.Dirt,
		board.Dirt, board.Dirt, board.Dirt,
	)
	pos := board.Vec2{X: 1, Y: 1}
	place(s, &board.Player{Name: "ada"}, pos)

	assert.Nil(t, board.ToggleDoor(s, pos))
	assert.Equal(t, board.OpenedDoor, s.TileAt(pos).Type, "occupied door must not change")
}

func TestToggleDoor_NonDoorIsNoop(t *testing.T) {
	s := grid3(
		board.Dirt, board.Dirt, board.Dirt,
		board.Dirt, board.Mud, board.Dirt,
		board.Dirt, board.Dirt, board.Dirt,
	)
	pos := board.Vec2{X: 1, Y: 1}

	assert.Nil(t, board.ToggleDoor(s, pos))
	assert.Equal(t, board.Mud, s.TileAt(pos).Type)
}

func TestToggleDoor_UnknownPositionIsNoop(t *testing.T) {
	s := grid3(
		board.Dirt, board.Dirt, board.Dirt,
		board.Dirt, board.Dirt, board.Dirt,
		board.Dirt, board.Dirt, board.Dirt,
	)
	assert.Nil(t, board.ToggleDoor(s, board.Vec2{X: 9, Y: 9}))
}

func TestOnSlime(t *testing.T) {
	s := grid3(
		board.Slime, board.Dirt, board.Dirt,
		board.Dirt, board.Dirt, board.Dirt,
		board.Dirt, board.Dirt, board.Dirt,
	)
	slimy := &board.Player{Name: "ada"}
	dry := &board.Player{Name: "bob"}
	place(s, slimy, board.Vec2{X: 0, Y: 0})
	place(s, dry, board.Vec2{X: 1, Y: 1})

	on, found := board.OnSlime(s, slimy)
	assert.True(t, found)
	assert.True(t, on)

	on, found = board.OnSlime(s, dry)
	assert.True(t, found)
	assert.False(t, on)

	_, found = board.OnSlime(s, &board.Player{Name: "ghost"})
	assert.False(t, found, "player absent from the board is unknown")
}

func TestApplyMove(t *testing.T) {
	s := grid3(
		board.Dirt, board.Dirt, board.Dirt,
		board.Mud, board.Dirt, board.Dirt,
		board.Dirt, board.Dirt, board.Dirt,
	)
	p := &board.Player{Name: "ada", MovesLeft: 4, InitMoves: 4}
	start := board.Vec2{X: 0, Y: 0}
	place(s, p, start)

	path := []board.Vec2{{X: 0, Y: 1}, {X: 0, Y: 2}}
	board.ApplyMove(s, path, p)

	assert.Equal(t, 1, p.MovesLeft, "mud(2) + dirt(1) charged against the budget")
	assert.Equal(t, board.Vec2{X: 0, Y: 2}, p.CurrPosition)
	assert.Nil(t, s.TileAt(start).Player, "origin tile is vacated")
	assert.Same(t, p, s.TileAt(board.Vec2{X: 0, Y: 2}).Player)
}

func TestApplyMove_EmptyPathIsNoop(t *testing.T) {
	s := grid3(
		board.Dirt, board.Dirt, board.Dirt,
		board.Dirt, board.Dirt, board.Dirt,
		board.Dirt, board.Dirt, board.Dirt,
	)
	p := &board.Player{Name: "ada", MovesLeft: 4}
	place(s, p, board.Vec2{X: 0, Y: 0})

	board.ApplyMove(s, nil, p)
	assert.Equal(t, 4, p.MovesLeft)
	assert.Same(t, p, s.TileAt(board.Vec2{X: 0, Y: 0}).Player)
}

func TestApplyMove_SkipsOccupiedTilesInCosting(t *testing.T) {
	s := grid3(
		board.Dirt, board.Dirt, board.Dirt,
		board.Mud, board.Dirt, board.Dirt,
		board.Dirt, board.Dirt, board.Dirt,
	)
	p := &board.Player{Name: "ada", MovesLeft: 4, InitMoves: 4}
	rival := &board.Player{Name: "bob"}
	place(s, p, board.Vec2{X: 0, Y: 0})
	place(s, rival, board.Vec2{X: 0, Y: 1})

	board.ApplyMove(s, []board.Vec2{{X: 0, Y: 1}, {X: 0, Y: 2}}, p)
	assert.Equal(t, 3, p.MovesLeft, "occupied mud tile is not charged")
	assert.Equal(t, board.Vec2{X: 0, Y: 2}, p.CurrPosition)
}
