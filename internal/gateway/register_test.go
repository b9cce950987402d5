package gateway_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/A-Paradis/gridduel/internal/game/board"
	"github.com/A-Paradis/gridduel/internal/game/room"
	"github.com/A-Paradis/gridduel/internal/gateway"
)

func newRegistrar(t *testing.T) (*gateway.Registrar, *room.Service, *fakeBroadcaster) {
	t.Helper()
	layouts := map[string]*board.State{
		"meadow": {Size: 2, Tiles: []board.Tile{
			{Type: board.Dirt, Position: board.Vec2{X: 0, Y: 0}},
			{Type: board.Mud, Position: board.Vec2{X: 1, Y: 0}},
			{Type: board.Wall, Position: board.Vec2{X: 0, Y: 1}},
			{Type: board.Dirt, Position: board.Vec2{X: 1, Y: 1}},
		}},
		"pit": {Size: 1, Tiles: []board.Tile{
			{Type: board.Wall, Position: board.Vec2{X: 0, Y: 0}},
		}},
	}
	rooms := room.NewService()
	bcast := newFakeBroadcaster()
	return gateway.NewRegistrar(rooms, layouts, "meadow", bcast, zap.NewNop()), rooms, bcast
}

func TestRegister_CreatesRoomFromDefaultLayout(t *testing.T) {
	reg, rooms, bcast := newRegistrar(t)

	err := reg.Register(&fakeClient{id: "c1"}, "room-1", "ada", "", "speed")
	require.NoError(t, err)

	rm := rooms.ByID("room-1")
	require.NotNil(t, rm)
	p := rm.PlayerByName("ada")
	require.NotNil(t, p)
	assert.Equal(t, board.Speed, p.Bonus)
	assert.Equal(t, 6, p.InitMoves)
	assert.Equal(t, board.Vec2{X: 0, Y: 0}, p.CurrPosition)
	require.NotNil(t, rm.State.TileOf("ada"))

	bcast.mu.Lock()
	joined := bcast.joins["room-1"]
	bcast.mu.Unlock()
	assert.Equal(t, []string{"c1"}, joined)
}

func TestRegister_SecondPlayerSpawnsOnNextFreeTile(t *testing.T) {
	reg, rooms, _ := newRegistrar(t)
	require.NoError(t, reg.Register(&fakeClient{id: "c1"}, "room-1", "ada", "", ""))
	require.NoError(t, reg.Register(&fakeClient{id: "c2"}, "room-1", "grace", "", ""))

	rm := rooms.ByID("room-1")
	assert.Equal(t, board.Vec2{X: 1, Y: 0}, rm.PlayerByName("grace").CurrPosition)
}

func TestRegister_Rejections(t *testing.T) {
	reg, rooms, _ := newRegistrar(t)
	require.NoError(t, reg.Register(&fakeClient{id: "c1"}, "room-1", "ada", "", ""))

	assert.Error(t, reg.Register(&fakeClient{id: "c2"}, "room-1", "ada", "", ""), "duplicate name")
	assert.Error(t, reg.Register(&fakeClient{id: "c2"}, "room-2", "ada", "atlantis", ""), "unknown layout")
	assert.Error(t, reg.Register(&fakeClient{id: "c2"}, "", "ada", "", ""), "empty room id")
	assert.Error(t, reg.Register(&fakeClient{id: "c2"}, "room-1", "", "", ""), "empty player name")

	rooms.ByID("room-1").Locked = true
	assert.Error(t, reg.Register(&fakeClient{id: "c3"}, "room-1", "grace", "", ""), "locked room")
}

func TestRegister_FullBoard(t *testing.T) {
	reg, _, _ := newRegistrar(t)

	err := reg.Register(&fakeClient{id: "c1"}, "room-1", "ada", "pit", "")
	assert.Error(t, err)
}

func TestUnregister_VacatesTileAndDropsEmptyRoom(t *testing.T) {
	reg, rooms, bcast := newRegistrar(t)
	require.NoError(t, reg.Register(&fakeClient{id: "c1"}, "room-1", "ada", "", ""))
	require.NoError(t, reg.Register(&fakeClient{id: "c2"}, "room-1", "grace", "", ""))

	reg.Unregister("c1")

	rm := rooms.ByID("room-1")
	require.NotNil(t, rm)
	assert.Nil(t, rm.PlayerByName("ada"))
	assert.Nil(t, rm.State.TileOf("ada"))
	bcast.mu.Lock()
	left := bcast.leaves["room-1"]
	bcast.mu.Unlock()
	assert.Equal(t, []string{"c1"}, left)

	reg.Unregister("c2")
	assert.Nil(t, rooms.ByID("room-1"))

	reg.Unregister("ghost")
}
