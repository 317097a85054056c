// Package merge composes two metatiles into one.
//
// # Overview
//
// When a user paints a block whose top layer is blank over a block whose
// bottom layer is blank, the two can share one cell: the bottom layer of the
// new block plus the top layer of the old one. Merger finds or creates the
// metatile holding that composite.
//
// # Merge Steps
//
//  1. Compose: bottom layer (tiles 0-3) of the bottom source, top layer
//     (tiles 4-7) of the top source
//  2. Match: ask the index.Matcher for an existing slot with that content.
//     A hit is returned as-is and nothing is written
//  3. Take: pop a free slot from the alloc.Registry. An empty registry means
//     metatile.ErrExhausted and nothing is written
//  4. Write: store all eight composite tiles into the claimed slot
//
// A failed write puts the claimed slot back on the registry, so a merge
// either fully succeeds or leaves no trace.
//
// # Eligibility Gate
//
// Gate decides whether a block change should merge at all. The previous
// block's bottom layer and the new block's top layer must be blank, neither
// block may be the blank metatile, and the two must differ. Cheap ID checks
// run before any tile reads.
//
// An eligible change is merged with the new block as the bottom source and
// the previous block as the top source, so the two layers that the gate
// required to be blank are the ones dropped:
//
//	prev = {0,0,0,0 | e,f,g,h}   next = {a,b,c,d | 0,0,0,0}
//	Merge(next, prev) → {a,b,c,d | e,f,g,h}
//
// # Related Packages
//
//   - github.com/joshuapare/metatilekit/metatile/alloc: free-slot registry
//   - github.com/joshuapare/metatilekit/metatile/index: content matchers
//   - github.com/joshuapare/metatilekit/metatile/engine: calls Gate and Merge on block changes
package merge
