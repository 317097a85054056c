// Package index finds existing metatiles whose content matches a candidate.
//
// # Overview
//
// Before the merge engine claims a free slot it asks a Matcher whether the
// composite already exists. Reusing an existing slot avoids running the
// tileset out of free slots.
//
// # Matcher Implementations
//
// Linear: reference implementation.
//   - Reads every slot 0..max-1 in ascending order through the Accessor
//   - Compares tile identity only (flip and palette are ignored)
//   - First match wins, so ties resolve to the lowest ID
//   - O(max) accessor reads per lookup
//
// Hashed: lazily built lookup table keyed by the eight tile identities.
//   - Built with one linear pass on the first Find after creation or Invalidate
//   - Returns the same ID Linear would return while no slot changed since the build
//   - Hits are re-read through the Accessor; a stale hit triggers one rebuild
//   - Call Invalidate after any slot write the matcher did not make
//
// Linear stays the default. Hashed exists for large tilesets where merges
// are frequent.
//
// # Usage Example
//
//	m := index.NewLinear(acc, metatile.MaxMetatiles(acc))
//	id, ok, err := m.Find(composite)
//	if err != nil {
//	    return err
//	}
//	if ok {
//	    // reuse id
//	}
package index
