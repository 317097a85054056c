// Package usage scans the map grid for metatile references and reclaims
// slots nothing uses.
//
// # Overview
//
// FindUnused is the reference scan: for each slot ID it walks the grid
// row by row and stops at the first cell that references it. Its cost is
// O(slots × cells) in the worst case, which is why it only runs when a user
// asks for a cleanup.
//
// Counts walks the grid once and tallies references per slot. It answers the
// same question for statistics output without the per-ID rescans.
//
// Reclaim blanks every unused slot that is not protected. Blanked slots are
// NOT returned to the free-slot registry; they become free again on the next
// registry rebuild.
//
// # Cancellation
//
// Both scans check the context between slot IDs (FindUnused) or rows
// (Counts). A cancelled scan returns ctx.Err() and no partial result.
package usage
