package index

import (
	"testing"

	"github.com/joshuapare/metatilekit/internal/host"
	"github.com/joshuapare/metatilekit/metatile"
)

// benchHost fills every slot of a 512+512 tileset pair with distinct content.
func benchHost(b *testing.B) (*host.Memory, metatile.Content) {
	b.Helper()
	h := host.NewMemory(512, 512, 1, 1)
	var last metatile.Content
	for id := 1; id < metatile.MaxMetatiles(h); id++ {
		var c metatile.Content
		c[0].TileID = uint16(id)
		c[7].TileID = uint16(id >> 8)
		if err := h.SetContent(metatile.ID(id), c); err != nil {
			b.Fatal(err)
		}
		last = c
	}
	return h, last
}

// BenchmarkFind measures the worst case for the linear scan: the only match
// is the highest slot.
func BenchmarkFind(b *testing.B) {
	h, target := benchHost(b)
	max := metatile.MaxMetatiles(h)

	for _, kind := range []Kind{KindLinear, KindHashed} {
		b.Run(kind.String(), func(b *testing.B) {
			m := New(kind, h, max)
			b.ReportAllocs()
			for b.Loop() {
				if _, ok, err := m.Find(target); err != nil || !ok {
					b.Fatalf("find: ok=%v err=%v", ok, err)
				}
			}
		})
	}
}
