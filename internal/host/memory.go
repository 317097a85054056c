// Package host provides a reference implementation of the engine's host
// contract: tilesets and a map grid held in memory.
//
// The CLI loads a project file into a Memory host, runs engine events against
// it, and writes the result back. Tests use it as the Accessor fake.
package host

import (
	"fmt"

	"github.com/joshuapare/metatilekit/metatile"
)

// Notice is an error report raised through ShowError.
type Notice struct {
	Title   string
	Summary string
	Detail  string
}

// Memory is an in-memory tileset pair and map grid.
//
// NOT thread-safe. The engine serializes access to its host.
type Memory struct {
	numPrimary   int
	numSecondary int
	metatiles    []metatile.Content

	width  int
	height int
	blocks []metatile.Block // row-major: index = y*width + x

	actions map[string]string
	notices []Notice

	redraws int
	commits int

	// OnCommit, when set, is called by Commit. A returned error is passed
	// back to the engine.
	OnCommit func() error
}

// NewMemory creates a host with all-blank tilesets and a map filled with BlankID.
func NewMemory(numPrimary, numSecondary, width, height int) *Memory {
	numPrimary = max(numPrimary, 0)
	numSecondary = max(numSecondary, 0)
	width = max(width, 0)
	height = max(height, 0)
	return &Memory{
		numPrimary:   numPrimary,
		numSecondary: numSecondary,
		metatiles:    make([]metatile.Content, numPrimary+numSecondary),
		width:        width,
		height:       height,
		blocks:       make([]metatile.Block, width*height),
		actions:      make(map[string]string),
	}
}

func (m *Memory) checkID(id metatile.ID) error {
	if id < 0 || int(id) >= len(m.metatiles) {
		return fmt.Errorf("%w: %d (max %d)", metatile.ErrBadID, id, len(m.metatiles))
	}
	return nil
}

func (m *Memory) index(x, y int) (int, error) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return 0, fmt.Errorf("%w: (%d, %d) in %dx%d", metatile.ErrOutOfBounds, x, y, m.width, m.height)
	}
	return y*m.width + x, nil
}

// MetatileTiles implements metatile.Accessor.
func (m *Memory) MetatileTiles(id metatile.ID, first, last int) ([]metatile.Tile, error) {
	if err := m.checkID(id); err != nil {
		return nil, err
	}
	if err := metatile.CheckRange(first, last); err != nil {
		return nil, err
	}
	out := make([]metatile.Tile, last-first+1)
	copy(out, m.metatiles[id][first:last+1])
	return out, nil
}

// SetMetatileTiles implements metatile.Accessor.
func (m *Memory) SetMetatileTiles(id metatile.ID, tiles []metatile.Tile, first, last int) error {
	if err := m.checkID(id); err != nil {
		return err
	}
	if err := metatile.CheckRange(first, last); err != nil {
		return err
	}
	if len(tiles) != last-first+1 {
		return fmt.Errorf("%w: got %d for [%d, %d]", metatile.ErrTileCount, len(tiles), first, last)
	}
	copy(m.metatiles[id][first:last+1], tiles)
	return nil
}

// Block implements metatile.Accessor.
func (m *Memory) Block(x, y int) (metatile.Block, error) {
	i, err := m.index(x, y)
	if err != nil {
		return metatile.Block{}, err
	}
	return m.blocks[i], nil
}

// SetBlock implements metatile.Accessor.
func (m *Memory) SetBlock(x, y int, b metatile.Block) error {
	i, err := m.index(x, y)
	if err != nil {
		return err
	}
	m.blocks[i] = b
	return nil
}

// Width implements metatile.Accessor.
func (m *Memory) Width() int { return m.width }

// Height implements metatile.Accessor.
func (m *Memory) Height() int { return m.height }

// NumPrimaryMetatiles implements metatile.Accessor.
func (m *Memory) NumPrimaryMetatiles() int { return m.numPrimary }

// NumSecondaryMetatiles implements metatile.Accessor.
func (m *Memory) NumSecondaryMetatiles() int { return m.numSecondary }

// Redraw counts redraw requests.
func (m *Memory) Redraw() { m.redraws++ }

// Commit counts commits and runs OnCommit.
func (m *Memory) Commit() error {
	m.commits++
	if m.OnCommit != nil {
		return m.OnCommit()
	}
	return nil
}

// ShowError records a user-visible error.
func (m *Memory) ShowError(title, summary, detail string) {
	m.notices = append(m.notices, Notice{Title: title, Summary: summary, Detail: detail})
}

// RegisterAction records a named host action.
func (m *Memory) RegisterAction(name, label string) {
	m.actions[name] = label
}

// Content returns the content of id, or blank content when id is out of range.
func (m *Memory) Content(id metatile.ID) metatile.Content {
	if m.checkID(id) != nil {
		return metatile.Content{}
	}
	return m.metatiles[id]
}

// SetContent replaces the content of id.
func (m *Memory) SetContent(id metatile.ID, c metatile.Content) error {
	if err := m.checkID(id); err != nil {
		return err
	}
	m.metatiles[id] = c
	return nil
}

// Fill sets every map cell to b.
func (m *Memory) Fill(b metatile.Block) {
	for i := range m.blocks {
		m.blocks[i] = b
	}
}

// Resize replaces the tileset sizes, keeping existing content where it still fits.
// This is how a tileset switch looks from the engine's side.
func (m *Memory) Resize(numPrimary, numSecondary int) {
	numPrimary = max(numPrimary, 0)
	numSecondary = max(numSecondary, 0)
	next := make([]metatile.Content, numPrimary+numSecondary)
	copy(next, m.metatiles)
	m.numPrimary = numPrimary
	m.numSecondary = numSecondary
	m.metatiles = next
}

// Notices returns every error raised through ShowError.
func (m *Memory) Notices() []Notice {
	out := make([]Notice, len(m.notices))
	copy(out, m.notices)
	return out
}

// Actions returns registered actions keyed by name.
func (m *Memory) Actions() map[string]string {
	out := make(map[string]string, len(m.actions))
	for k, v := range m.actions {
		out[k] = v
	}
	return out
}

// Redraws returns the number of Redraw calls.
func (m *Memory) Redraws() int { return m.redraws }

// Commits returns the number of Commit calls.
func (m *Memory) Commits() int { return m.commits }

// Assign replaces the tilesets and map of m with copies of src's.
// Commit and redraw counters, registered actions and OnCommit are kept.
func (m *Memory) Assign(src *Memory) {
	m.numPrimary = src.numPrimary
	m.numSecondary = src.numSecondary
	m.metatiles = append([]metatile.Content(nil), src.metatiles...)
	m.width = src.width
	m.height = src.height
	m.blocks = append([]metatile.Block(nil), src.blocks...)
}
