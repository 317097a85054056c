// Package alloc tracks free metatile slots for the merge engine.
//
// # Overview
//
// A slot is free when all eight of its tiles are blank. The Registry finds
// free slots with one full scan (Rebuild) and then hands them out one at a
// time (Take) in O(1), so the per-merge cost stays constant.
//
// # Ordering
//
// The registry is a LIFO Stack. Rebuild scans from the highest ID down to
// the search start and pushes every free slot it finds, so the tail of the
// stack is the lowest free ID:
//
//	slots 0..7, free = {2, 5, 6}, searchStart = 0
//	Rebuild → stack [6, 5, 2]
//	Take()  → 2, stack [6, 5]
//	Take()  → 5, stack [6]
//
// "Lowest ID first" only holds right after a Rebuild. Take never re-sorts.
//
// # Search Start
//
// IDs at or below the search start are never pushed. The default is
// metatile.BlankID, so the blank metatile is never reused as scratch space.
// Setting it to the last primary ID restricts allocation to the secondary
// tileset.
//
// # Staleness
//
// The registry is a cache. Slots written behind its back (a host edit, a
// cleanup pass) are not noticed until the next Rebuild. Take does not
// re-verify that a popped slot is still blank.
//
// # Thread Safety
//
// Registry instances are not thread-safe. The engine serializes access.
package alloc
