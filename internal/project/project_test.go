package project

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/metatilekit/metatile"
)

const sampleDoc = `{
  "name": "route1",
  "primary": {"name": "general", "metatiles": [[], [{"tile": 99}]]},
  "secondary": {"name": "petalburg", "metatiles": [
    [{"tile": 1}, {"tile": 2, "xflip": true}, {"tile": 3}, {"tile": 4, "palette": 5}],
    [{"tile": 0}, {"tile": 0}, {"tile": 0}, {"tile": 0}, {"tile": 5}, {"tile": 6}, {"tile": 7}, {"tile": 8, "yflip": true}]
  ]},
  "map": {"width": 3, "height": 2, "blocks": [
    [{"id": 1}, {"id": 2, "collision": 1}, {"id": 3, "elevation": 3}],
    [{"id": 1}, {"id": 1}, {"id": 40}]
  ]}
}`

func TestDecode(t *testing.T) {
	f, err := Decode(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "route1", f.Name)
	assert.Equal(t, "general+petalburg", f.TilesetName())
	assert.Len(t, f.Primary.Metatiles, 2)
	assert.Len(t, f.Secondary.Metatiles, 2)
	assert.Equal(t, 3, f.Map.Width)
	assert.Equal(t, Block{ID: 2, Collision: 1}, f.Map.Blocks[0][1])
}

func TestDecode_BOMs(t *testing.T) {
	tests := []struct {
		name string
		enc  func(string) []byte
	}{
		{"utf8 bom", func(s string) []byte { return append([]byte{0xEF, 0xBB, 0xBF}, s...) }},
		{"utf16le bom", func(s string) []byte {
			out, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(s))
			require.NoError(t, err)
			return out
		}},
		{"utf16be bom", func(s string) []byte {
			out, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(s))
			require.NoError(t, err)
			return out
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Decode(bytes.NewReader(tt.enc(sampleDoc)))
			require.NoError(t, err)
			assert.Equal(t, "route1", f.Name)
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", "metatiles please"},
		{"unknown field", `{"name": "x", "colour": 1}`},
		{"no metatiles", `{"map": {"width": 0, "height": 0, "blocks": []}}`},
		{"too many tiles", `{"primary": {"metatiles": [[{},{},{},{},{},{},{},{},{}]]}, "map": {"blocks": []}}`},
		{"row count", `{"primary": {"metatiles": [[]]}, "map": {"width": 1, "height": 2, "blocks": [[{"id": 0}]]}}`},
		{"row width", `{"primary": {"metatiles": [[]]}, "map": {"width": 2, "height": 1, "blocks": [[{"id": 0}]]}}`},
		{"negative id", `{"primary": {"metatiles": [[]]}, "map": {"width": 1, "height": 1, "blocks": [[{"id": -3}]]}}`},
		{"negative protected id", `{"primary": {"metatiles": [[]]}, "map": {"blocks": []}, "protected": {"tileset": "+", "slots": 1, "ids": [-1]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestHost(t *testing.T) {
	f, err := Decode(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	h, err := f.Host()
	require.NoError(t, err)
	assert.Equal(t, 2, h.NumPrimaryMetatiles())
	assert.Equal(t, 2, h.NumSecondaryMetatiles())
	assert.Equal(t, 3, h.Width())
	assert.Equal(t, 2, h.Height())

	assert.True(t, h.Content(0).Blank())
	c := h.Content(2)
	assert.Equal(t, metatile.Tile{TileID: 2, XFlip: true}, c[1])
	assert.Equal(t, metatile.Tile{TileID: 4, Palette: 5}, c[3])
	assert.True(t, c.LayerBlank(metatile.LayerTop))
	assert.Equal(t, metatile.Tile{TileID: 8, YFlip: true}, h.Content(3)[7])

	b, err := h.Block(2, 0)
	require.NoError(t, err)
	assert.Equal(t, metatile.Block{MetatileID: 3, Elevation: 3}, b)
	b, err = h.Block(2, 1)
	require.NoError(t, err)
	assert.Equal(t, metatile.ID(40), b.MetatileID, "out-of-range ids are kept")
}

func TestUpdate_RoundTripsThroughHost(t *testing.T) {
	f, err := Decode(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	h, err := f.Host()
	require.NoError(t, err)

	require.NoError(t, h.SetContent(0, metatile.Content{{TileID: 11}}))
	require.NoError(t, h.SetBlock(0, 1, metatile.Block{MetatileID: 3, Collision: 2}))
	require.NoError(t, f.Update(h))

	assert.Equal(t, []Tile{{Tile: 11}}, f.Primary.Metatiles[0])
	assert.Equal(t, []Tile{{Tile: 99}}, f.Primary.Metatiles[1])
	assert.Len(t, f.Secondary.Metatiles[1], 8, "leading blank tiles are kept")
	assert.Equal(t, Block{ID: 3, Collision: 2}, f.Map.Blocks[1][0])
	require.NoError(t, f.Validate())
}

func TestNew(t *testing.T) {
	f := New("scratch", 4, 2, 3, 5)
	require.NoError(t, f.Validate())

	h, err := f.Host()
	require.NoError(t, err)
	assert.Equal(t, 6, metatile.MaxMetatiles(h))
	assert.Equal(t, 3, h.Width())
	assert.Equal(t, 5, h.Height())
	assert.Equal(t, "scratch_primary+scratch_secondary", f.TilesetName())
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "route1.json")

	f, err := Decode(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	require.NoError(t, Save(path, f))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, f, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSave_MissingDir(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "gone", "route1.json"), New("x", 1, 0, 1, 1))
	require.Error(t, err)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "route1.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestProtectedIDs(t *testing.T) {
	f, err := Decode(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	assert.Nil(t, f.ProtectedIDs())

	f.SetProtected([]metatile.ID{1, 3})
	assert.Equal(t, &Protection{Tileset: "general+petalburg", Slots: 4, IDs: []int{1, 3}}, f.Protected)
	assert.Equal(t, []metatile.ID{1, 3}, f.ProtectedIDs())

	var buf bytes.Buffer
	require.NoError(t, f.Encode(&buf))
	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []metatile.ID{1, 3}, got.ProtectedIDs())

	f.SetProtected(nil)
	assert.Nil(t, f.Protected)
}

func TestProtectedIDs_DroppedOnTilesetChange(t *testing.T) {
	tests := []struct {
		name   string
		change func(f *File)
	}{
		{"primary renamed", func(f *File) { f.Primary.Name = "cave" }},
		{"secondary renamed", func(f *File) { f.Secondary.Name = "rustboro" }},
		{"secondary resized", func(f *File) { f.Secondary.Metatiles = append(f.Secondary.Metatiles, []Tile{}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Decode(strings.NewReader(sampleDoc))
			require.NoError(t, err)
			f.SetProtected([]metatile.ID{1, 3})

			tt.change(f)
			assert.Nil(t, f.ProtectedIDs())
		})
	}
}
