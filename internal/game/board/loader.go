package board

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlBoardFile is the top-level YAML structure for board layout files.
type yamlBoardFile struct {
	Board yamlBoard `yaml:"board"`
}

// yamlBoard is the YAML representation of a board layout. Each row is a
// string of single-character terrain symbols; the board must be square.
type yamlBoard struct {
	Name string   `yaml:"name"`
	Rows []string `yaml:"rows"`
}

// terrainSymbols maps layout characters to terrain types.
var terrainSymbols = map[byte]TileType{
	'D': Dirt,
	'M': Mud,
	'S': Slime,
	'W': Wall,
	'O': OpenedDoor,
	'C': ClosedDoor,
}

// LoadLayoutFromFile reads and validates a single board layout YAML file.
//
// Postcondition: Returns a validated State or a non-nil error.
func LoadLayoutFromFile(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading board file %s: %w", path, err)
	}
	return LoadLayoutFromBytes(data)
}

// LoadLayoutFromBytes parses and validates a board layout from YAML bytes.
func LoadLayoutFromBytes(data []byte) (*State, error) {
	var file yamlBoardFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing board YAML: %w", err)
	}

	size := len(file.Board.Rows)
	if size == 0 {
		return nil, fmt.Errorf("board %q has no rows", file.Board.Name)
	}

	state := &State{Size: size, Tiles: make([]Tile, 0, size*size)}
	for y, row := range file.Board.Rows {
		if len(row) != size {
			return nil, fmt.Errorf("board %q: row %d has %d columns, want %d", file.Board.Name, y, len(row), size)
		}
		for x := 0; x < size; x++ {
			terrain, ok := terrainSymbols[row[x]]
			if !ok {
				return nil, fmt.Errorf("board %q: unknown terrain symbol %q at (%d,%d)", file.Board.Name, string(row[x]), x, y)
			}
			state.Tiles = append(state.Tiles, Tile{
				Type:     terrain,
				Position: Vec2{X: x, Y: y},
			})
		}
	}

	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("validating board %q: %w", file.Board.Name, err)
	}
	return state, nil
}

// LoadLayoutsFromDir loads all YAML files in dir as board layouts, keyed
// by file basename without extension.
func LoadLayoutsFromDir(dir string) (map[string]*State, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading board directory %s: %w", dir, err)
	}

	layouts := make(map[string]*State)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		state, err := LoadLayoutFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		layouts[strings.TrimSuffix(name, ext)] = state
	}
	return layouts, nil
}
