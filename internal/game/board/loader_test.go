package board_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/A-Paradis/gridduel/internal/game/board"
)

const smallLayout = `
board:
  name: small
  rows:
    - "DDS"
    - "MCW"
    - "DOD"
`

func TestLoadLayoutFromBytes(t *testing.T) {
	s, err := board.LoadLayoutFromBytes([]byte(smallLayout))
	require.NoError(t, err)

	assert.Equal(t, 3, s.Size)
	assert.Len(t, s.Tiles, 9)
	assert.Equal(t, board.Slime, s.TileAt(board.Vec2{X: 2, Y: 0}).Type)
	assert.Equal(t, board.Mud, s.TileAt(board.Vec2{X: 0, Y: 1}).Type)
	assert.Equal(t, board.ClosedDoor, s.TileAt(board.Vec2{X: 1, Y: 1}).Type)
	assert.Equal(t, board.Wall, s.TileAt(board.Vec2{X: 2, Y: 1}).Type)
	assert.Equal(t, board.OpenedDoor, s.TileAt(board.Vec2{X: 1, Y: 2}).Type)
}

func TestLoadLayoutFromBytes_RejectsRaggedRows(t *testing.T) {
	_, err := board.LoadLayoutFromBytes([]byte(`
board:
  name: ragged
  rows:
    - "DD"
    - "D"
`))
	assert.Error(t, err)
}

func TestLoadLayoutFromBytes_RejectsUnknownSymbol(t *testing.T) {
	_, err := board.LoadLayoutFromBytes([]byte(`
board:
  name: bad
  rows:
    - "DX"
    - "DD"
`))
	assert.Error(t, err)
}

func TestLoadLayoutFromBytes_RejectsEmptyBoard(t *testing.T) {
	_, err := board.LoadLayoutFromBytes([]byte("board:\n  name: empty\n  rows: []\n"))
	assert.Error(t, err)
}

func TestLoadLayoutsFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "small.yaml"), []byte(smallLayout), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	layouts, err := board.LoadLayoutsFromDir(dir)
	require.NoError(t, err)
	require.Contains(t, layouts, "small")
	assert.Len(t, layouts, 1)
	assert.Equal(t, 3, layouts["small"].Size)
}
