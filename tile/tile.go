// Package tile schedules the conversion of decoded tile payloads into renderable geometry.
//
// A Loader owns one tile's build progress: it consumes the tile's DecodedTile exactly once and
// feeds it, whole or phase by phase, to a geometry-assembly Backend. A Manager drives the loaders
// of all visible tiles once per frame and decides how much work each frame gets.
//
// Everything here runs on the frame-update goroutine; nothing is safe for concurrent use.
package tile

import (
	"log/slog"

	"github.com/paulmach/orb/maptile"
)

// Tile is the loader's view of a map tile. Implementations must be comparable (typically
// pointers): managers use identity to notice a tile being replaced at the same key.
type Tile interface {
	Key() maptile.Tile
	// DecodedTile returns the payload delivered by the decoder, or nil.
	DecodedTile() *DecodedTile
	RemoveDecodedTile()
	Disposed() bool
	Visible() bool
	DataSource() DataSource
}

// DataSource describes where a tile's data came from.
type DataSource interface {
	Name() string
	// Cacheable is false for throwaway tiles whose geometry is never worth building.
	Cacheable() bool
}

// Scheduler defers a task to a later tick of the frame loop.
type Scheduler interface {
	Defer(task func()) error
}

// Evictor removes a tile from the set of visible tiles.
type Evictor interface {
	EvictTile(t Tile)
}

// FrameRequester asks the frame loop for another frame.
type FrameRequester interface {
	RequestFrame()
}

func cacheable(t Tile) bool {
	ds := t.DataSource()
	return ds == nil || ds.Cacheable()
}

func keyAttr(t Tile) slog.Attr {
	k := t.Key()
	return slog.Group("tile", "x", k.X, "y", k.Y, "z", k.Z)
}
