package metatile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/metatilekit/internal/testutil"
	"github.com/joshuapare/metatilekit/metatile"
)

func TestLayer(t *testing.T) {
	first, last := metatile.LayerBottom.Bounds()
	assert.Equal(t, [2]int{0, 3}, [2]int{first, last})
	first, last = metatile.LayerTop.Bounds()
	assert.Equal(t, [2]int{4, 7}, [2]int{first, last})

	assert.True(t, metatile.LayerTop.Valid())
	assert.False(t, metatile.Layer(2).Valid())
	assert.Equal(t, "top", metatile.LayerTop.String())
	assert.Equal(t, "layer(5)", metatile.Layer(5).String())
}

func TestContent_Layers(t *testing.T) {
	c := testutil.Layered([4]uint16{1, 2, 3, 4}, [4]uint16{})
	assert.False(t, c.LayerBlank(metatile.LayerBottom))
	assert.True(t, c.LayerBlank(metatile.LayerTop))
	assert.False(t, c.Blank())
	assert.True(t, metatile.BlankContent().Blank())

	bottom := c.Layer(metatile.LayerBottom)
	assert.Equal(t, uint16(3), bottom[2].TileID)
}

func TestContent_SameTilesIgnoresAttributes(t *testing.T) {
	a := testutil.Content(1, 2)
	b := a
	b[0].XFlip = true
	b[1].Palette = 7
	assert.True(t, a.SameTiles(b))
	assert.NotEqual(t, a, b)

	b[1].TileID = 3
	assert.False(t, a.SameTiles(b))
}

func TestCompose(t *testing.T) {
	bottom := testutil.Content(1, 2, 3, 4, 90, 91, 92, 93)
	top := testutil.Content(80, 81, 82, 83, 5, 6, 7, 8)
	assert.Equal(t, testutil.Content(1, 2, 3, 4, 5, 6, 7, 8), metatile.Compose(bottom, top))
}

func TestContentFrom(t *testing.T) {
	c, err := metatile.ContentFrom(testutil.Content(1, 2, 3, 4, 5, 6, 7, 8).Tiles())
	require.NoError(t, err)
	assert.Equal(t, [8]uint16{1, 2, 3, 4, 5, 6, 7, 8}, c.TileIDs())

	_, err = metatile.ContentFrom(make([]metatile.Tile, 4))
	assert.ErrorIs(t, err, metatile.ErrTileCount)
}

func TestAccessorHelpers(t *testing.T) {
	h := testutil.SetupMergeScenario(t, false)
	assert.Equal(t, 32, metatile.MaxMetatiles(h))

	blank, err := metatile.IsLayerBlank(h, testutil.ScenarioTop, metatile.LayerBottom)
	require.NoError(t, err)
	assert.True(t, blank)
	blank, err = metatile.IsBlank(h, testutil.ScenarioTop)
	require.NoError(t, err)
	assert.False(t, blank)

	require.NoError(t, metatile.WriteContent(h, 3, testutil.ScenarioCompositeContent()))
	c, err := metatile.ReadContent(h, 3)
	require.NoError(t, err)
	assert.Equal(t, testutil.ScenarioCompositeContent(), c)

	_, err = metatile.ReadContent(h, 99)
	assert.ErrorIs(t, err, metatile.ErrBadID)
	_, err = metatile.ReadLayer(h, 3, metatile.Layer(4))
	assert.ErrorIs(t, err, metatile.ErrBadRange)

	assert.NoError(t, metatile.CheckRange(0, 7))
	assert.ErrorIs(t, metatile.CheckRange(3, 2), metatile.ErrBadRange)
	assert.ErrorIs(t, metatile.CheckRange(-1, 2), metatile.ErrBadRange)
}
