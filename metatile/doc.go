// Package metatile defines the data model shared by the metatile allocation
// and merging engine.
//
// # Overview
//
// A metatile is a fixed-size slot in the combined primary + secondary tileset
// table. Each slot holds exactly eight tile entries split into two layers:
//
//	index:  0  1  2  3 | 4  5  6  7
//	layer:  bottom (0) | top (1)
//
// Map cells (Blocks) reference slots by ID. Many cells may reference the same
// slot; a Block never owns slot content.
//
// # Accessor
//
// The engine never stores tiles or map cells itself. Everything goes through
// the Accessor interface, which the host editor implements:
//
//	tiles, err := acc.MetatileTiles(id, metatile.FirstTile, metatile.LastTile)
//	err = acc.SetMetatileTiles(id, tiles, metatile.FirstTile, metatile.LastTile)
//	b, err := acc.Block(x, y)
//
// Helpers in this package (ReadContent, ReadLayer, IsBlank, WriteContent)
// wrap the raw accessor calls with range checks so callers deal in Content
// values instead of slices.
//
// # Blank Content
//
// Tile ID 0 (BlankTileID) is the blank tile and metatile ID 0 (BlankID) is the
// blank metatile. A slot whose eight entries are all blank is free and may be
// claimed for a new composite.
//
// # Related Packages
//
//   - github.com/joshuapare/metatilekit/metatile/alloc: free-slot registry
//   - github.com/joshuapare/metatilekit/metatile/index: content matching
//   - github.com/joshuapare/metatilekit/metatile/merge: layer compositor
//   - github.com/joshuapare/metatilekit/metatile/usage: usage scan and cleanup
//   - github.com/joshuapare/metatilekit/metatile/engine: event entry points
package metatile
