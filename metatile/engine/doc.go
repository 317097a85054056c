// Package engine wires the metatile allocator, matcher, merger, ledger and
// usage scanner behind the four events a host editor raises.
//
// # Overview
//
// The Engine owns all state that must survive between events:
//
//   - max: slot count of the active tileset pair
//   - the free-slot registry (alloc.Registry)
//   - the protected-ID ledger (ledger.Ledger)
//   - the content matcher (index.Matcher)
//
// # Events
//
//	OnProjectOpened(path)         register the cleanup action with the host
//	OnTilesetReloaded(name)       recompute max, clear ledger, rebuild registry
//	OnBlockChanged(x, y, p, n)    gate, merge, write back, protect sources
//	OnCleanupRequested(ctx)       find unused slots, blank unprotected ones
//
// New performs the first tileset load itself. Protect seeds the ledger, for
// hosts that persist it between sessions.
//
// # Usage Example
//
//	opt := engine.DefaultOptions()
//	opt.Tileset = "gTileset_General+gTileset_Petalburg"
//	eng, err := engine.New(h, opt) // loads the tileset pair
//	if err != nil {
//	    return err
//	}
//	eng.Protect(savedIDs...) // ledger of an earlier session, if any
//	eng.OnProjectOpened(projectPath)
//
//	// host calls this after the user paints a cell
//	if _, err := eng.OnBlockChanged(x, y, prev, next); errors.Is(err, metatile.ErrExhausted) {
//	    // already reported to the user through Host.ShowError
//	}
//
// # Thread Safety
//
// Every event takes the engine mutex, so events never overlap. Host methods
// are called with the mutex held and must not call back into the engine.
package engine
