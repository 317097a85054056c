// Package project reads and writes metatilectl project files: a tileset pair
// and one map, stored as JSON.
//
// Files may be UTF-8 (with or without BOM) or UTF-16 with a BOM.
package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/joshuapare/metatilekit/internal/host"
	"github.com/joshuapare/metatilekit/metatile"
)

// ErrFormat is wrapped by every decode and validation failure.
var ErrFormat = errors.New("project: invalid file")

// File is a decoded project document.
type File struct {
	Name      string  `json:"name"`
	Primary   Tileset `json:"primary"`
	Secondary Tileset `json:"secondary"`
	Map       Map     `json:"map"`

	// Protected is the cleanup ledger of the last session. Nil when empty.
	Protected *Protection `json:"protected,omitempty"`
}

// Protection records the protected metatile IDs together with the tileset
// pair they were recorded against. The IDs are dropped once the pair is
// renamed or resized.
type Protection struct {
	Tileset string `json:"tileset"`
	Slots   int    `json:"slots"`
	IDs     []int  `json:"ids"`
}

// Tileset is a named list of metatiles. Each metatile lists up to eight
// tiles, bottom layer first; missing trailing tiles are blank.
type Tileset struct {
	Name      string   `json:"name"`
	Metatiles [][]Tile `json:"metatiles"`
}

// Tile is the on-disk form of metatile.Tile.
type Tile struct {
	Tile    uint16 `json:"tile"`
	XFlip   bool   `json:"xflip,omitempty"`
	YFlip   bool   `json:"yflip,omitempty"`
	Palette uint8  `json:"palette,omitempty"`
}

// Map is the grid, stored as Height rows of Width blocks.
type Map struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Blocks [][]Block `json:"blocks"`
}

// Block is the on-disk form of metatile.Block.
type Block struct {
	ID        int `json:"id"`
	Collision int `json:"collision,omitempty"`
	Elevation int `json:"elevation,omitempty"`
}

// New returns a project with blank tilesets and a map filled with BlankID.
func New(name string, numPrimary, numSecondary, width, height int) *File {
	f := &File{
		Name:      name,
		Primary:   Tileset{Name: name + "_primary", Metatiles: blankMetatiles(numPrimary)},
		Secondary: Tileset{Name: name + "_secondary", Metatiles: blankMetatiles(numSecondary)},
		Map:       Map{Width: width, Height: height, Blocks: make([][]Block, height)},
	}
	for y := range f.Map.Blocks {
		f.Map.Blocks[y] = make([]Block, width)
	}
	return f
}

func blankMetatiles(n int) [][]Tile {
	out := make([][]Tile, n)
	for i := range out {
		out[i] = []Tile{}
	}
	return out
}

// Load reads and validates the project at path.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode reads a project document from r and validates it.
func Decode(r io.Reader) (*File, error) {
	// BOMOverride switches to UTF-16 when a BOM says so and strips a UTF-8 BOM.
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return nil, fmt.Errorf("%w: decode text: %v", ErrFormat, err)
	}

	jd := json.NewDecoder(bytes.NewReader(data))
	jd.DisallowUnknownFields()
	var f File
	if err := jd.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the grid shape, tile counts and block IDs.
// Blocks may reference IDs beyond the tileset pair; only negatives are rejected.
func (f *File) Validate() error {
	if len(f.Primary.Metatiles)+len(f.Secondary.Metatiles) == 0 {
		return fmt.Errorf("%w: no metatiles", ErrFormat)
	}
	for _, ts := range []*Tileset{&f.Primary, &f.Secondary} {
		for i, mt := range ts.Metatiles {
			if len(mt) > metatile.TilesPerMetatile {
				return fmt.Errorf("%w: tileset %q metatile %d has %d tiles", ErrFormat, ts.Name, i, len(mt))
			}
		}
	}

	if p := f.Protected; p != nil {
		for _, id := range p.IDs {
			if id < 0 {
				return fmt.Errorf("%w: protected id %d", ErrFormat, id)
			}
		}
	}

	m := f.Map
	if m.Width < 0 || m.Height < 0 {
		return fmt.Errorf("%w: map size %dx%d", ErrFormat, m.Width, m.Height)
	}
	if len(m.Blocks) != m.Height {
		return fmt.Errorf("%w: map has %d rows, want %d", ErrFormat, len(m.Blocks), m.Height)
	}
	for y, row := range m.Blocks {
		if len(row) != m.Width {
			return fmt.Errorf("%w: map row %d has %d blocks, want %d", ErrFormat, y, len(row), m.Width)
		}
		for x, b := range row {
			if b.ID < 0 {
				return fmt.Errorf("%w: block (%d, %d) has id %d", ErrFormat, x, y, b.ID)
			}
		}
	}
	return nil
}

// TilesetName names the active tileset pair.
func (f *File) TilesetName() string {
	return f.Primary.Name + "+" + f.Secondary.Name
}

// Slots returns the metatile count of the tileset pair.
func (f *File) Slots() int {
	return len(f.Primary.Metatiles) + len(f.Secondary.Metatiles)
}

// ProtectedIDs returns the stored ledger when it was recorded against the
// current tileset pair, or nil.
func (f *File) ProtectedIDs() []metatile.ID {
	p := f.Protected
	if p == nil || p.Tileset != f.TilesetName() || p.Slots != f.Slots() {
		return nil
	}
	out := make([]metatile.ID, len(p.IDs))
	for i, id := range p.IDs {
		out[i] = metatile.ID(id)
	}
	return out
}

// SetProtected stores ids as the ledger of the current tileset pair.
// An empty list removes the ledger.
func (f *File) SetProtected(ids []metatile.ID) {
	if len(ids) == 0 {
		f.Protected = nil
		return
	}
	p := &Protection{Tileset: f.TilesetName(), Slots: f.Slots(), IDs: make([]int, len(ids))}
	for i, id := range ids {
		p.IDs[i] = int(id)
	}
	f.Protected = p
}

// Host builds an in-memory host holding the project's tilesets and map.
func (f *File) Host() (*host.Memory, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	np, ns := len(f.Primary.Metatiles), len(f.Secondary.Metatiles)
	h := host.NewMemory(np, ns, f.Map.Width, f.Map.Height)

	id := metatile.ID(0)
	for _, ts := range []Tileset{f.Primary, f.Secondary} {
		for _, mt := range ts.Metatiles {
			var c metatile.Content
			for i, t := range mt {
				c[i] = metatile.Tile{TileID: t.Tile, XFlip: t.XFlip, YFlip: t.YFlip, Palette: t.Palette}
			}
			if err := h.SetContent(id, c); err != nil {
				return nil, err
			}
			id++
		}
	}

	for y, row := range f.Map.Blocks {
		for x, b := range row {
			mb := metatile.Block{MetatileID: metatile.ID(b.ID), Collision: b.Collision, Elevation: b.Elevation}
			if err := h.SetBlock(x, y, mb); err != nil {
				return nil, err
			}
		}
	}
	return h, nil
}

// Update copies the tilesets and map of h back into f.
// Trailing blank tiles are trimmed from each metatile.
func (f *File) Update(h *host.Memory) error {
	np, ns := h.NumPrimaryMetatiles(), h.NumSecondaryMetatiles()
	f.Primary.Metatiles = make([][]Tile, np)
	f.Secondary.Metatiles = make([][]Tile, ns)

	for id := range np + ns {
		tiles := encodeContent(h.Content(metatile.ID(id)))
		if id < np {
			f.Primary.Metatiles[id] = tiles
		} else {
			f.Secondary.Metatiles[id-np] = tiles
		}
	}

	f.Map.Width, f.Map.Height = h.Width(), h.Height()
	f.Map.Blocks = make([][]Block, h.Height())
	for y := range f.Map.Blocks {
		row := make([]Block, h.Width())
		for x := range row {
			b, err := h.Block(x, y)
			if err != nil {
				return err
			}
			row[x] = Block{ID: int(b.MetatileID), Collision: b.Collision, Elevation: b.Elevation}
		}
		f.Map.Blocks[y] = row
	}
	return nil
}

func encodeContent(c metatile.Content) []Tile {
	n := len(c)
	for n > 0 && c[n-1] == (metatile.Tile{}) {
		n--
	}
	out := make([]Tile, n)
	for i := range out {
		t := c[i]
		out[i] = Tile{Tile: t.TileID, XFlip: t.XFlip, YFlip: t.YFlip, Palette: t.Palette}
	}
	return out
}

// Encode writes f to w as indented UTF-8 JSON.
func (f *File) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// Save writes f to path atomically: the document goes to a temporary file in
// the same directory, which is synced and renamed over path.
func Save(path string, f *File) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := f.Encode(tmp); err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync project: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close project: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace project: %w", err)
	}
	return nil
}
