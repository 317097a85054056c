package metatile

import "fmt"

// ID identifies a metatile slot in the combined primary + secondary tileset table.
type ID int

const (
	// BlankID is the blank metatile. It is never claimed as a free slot by default.
	BlankID ID = 0

	// BlankTileID is the tile identity that marks an entry as empty.
	BlankTileID uint16 = 0
)

// Tile layout constants.
const (
	TilesPerLayer    = 4
	NumLayers        = 2
	TilesPerMetatile = TilesPerLayer * NumLayers

	FirstTile = 0
	LastTile  = TilesPerMetatile - 1
)

// Layer selects one half of a metatile's tiles.
type Layer uint8

const (
	LayerBottom Layer = 0 // tiles 0-3
	LayerTop    Layer = 1 // tiles 4-7
)

// Bounds returns the inclusive tile index range covered by the layer.
func (l Layer) Bounds() (first, last int) {
	first = int(l) * TilesPerLayer
	return first, first + TilesPerLayer - 1
}

// Valid reports whether l is one of the two defined layers.
func (l Layer) Valid() bool {
	return l < NumLayers
}

func (l Layer) String() string {
	switch l {
	case LayerBottom:
		return "bottom"
	case LayerTop:
		return "top"
	default:
		return fmt.Sprintf("layer(%d)", uint8(l))
	}
}

// Tile is a single tile entry inside a metatile.
//
// Only TileID takes part in content matching. Flip and palette attributes are
// carried through composition untouched.
type Tile struct {
	TileID  uint16
	XFlip   bool
	YFlip   bool
	Palette uint8
}

// Blank reports whether the entry holds the blank tile.
func (t Tile) Blank() bool {
	return t.TileID == BlankTileID
}

// SameTile reports whether t and o reference the same tile identity.
func (t Tile) SameTile(o Tile) bool {
	return t.TileID == o.TileID
}

// Content is the full eight-entry content of one metatile slot.
type Content [TilesPerMetatile]Tile

// BlankContent returns content with every entry set to the blank tile.
func BlankContent() Content {
	return Content{}
}

// ContentFrom copies exactly TilesPerMetatile tiles into a Content.
func ContentFrom(tiles []Tile) (Content, error) {
	var c Content
	if len(tiles) != TilesPerMetatile {
		return c, fmt.Errorf("%w: got %d, want %d", ErrTileCount, len(tiles), TilesPerMetatile)
	}
	copy(c[:], tiles)
	return c, nil
}

// Tiles returns the content as a freshly allocated slice.
func (c Content) Tiles() []Tile {
	out := make([]Tile, TilesPerMetatile)
	copy(out, c[:])
	return out
}

// Layer returns the four tiles of the given layer.
func (c Content) Layer(l Layer) [TilesPerLayer]Tile {
	var out [TilesPerLayer]Tile
	first, _ := l.Bounds()
	copy(out[:], c[first:first+TilesPerLayer])
	return out
}

// LayerBlank reports whether every tile in layer l is blank.
func (c Content) LayerBlank(l Layer) bool {
	first, last := l.Bounds()
	return allBlank(c[first : last+1])
}

// Blank reports whether both layers are blank.
func (c Content) Blank() bool {
	return allBlank(c[:])
}

// SameTiles compares two contents entry by entry using tile identity only.
func (c Content) SameTiles(o Content) bool {
	for i := range c {
		if !c[i].SameTile(o[i]) {
			return false
		}
	}
	return true
}

// TileIDs returns the tile identities in index order. The array is comparable
// and is used as a map key by the hashed matcher.
func (c Content) TileIDs() [TilesPerMetatile]uint16 {
	var ids [TilesPerMetatile]uint16
	for i, t := range c {
		ids[i] = t.TileID
	}
	return ids
}

// Compose builds a composite from the bottom layer of bottom and the top layer
// of top, in that order.
func Compose(bottom, top Content) Content {
	var c Content
	copy(c[:TilesPerLayer], bottom[:TilesPerLayer])
	copy(c[TilesPerLayer:], top[TilesPerLayer:])
	return c
}

// Block is a map cell: a metatile reference plus its collision and elevation.
type Block struct {
	MetatileID ID
	Collision  int
	Elevation  int
}

func allBlank(tiles []Tile) bool {
	for _, t := range tiles {
		if !t.Blank() {
			return false
		}
	}
	return true
}
