package tile

import "github.com/paulmach/orb/maptile"

// Manager owns the loaders of the visible tiles and drives them once per frame.
type Manager interface {
	// InitTile returns the tile's loader, creating it if needed.
	InitTile(t Tile) Loader
	// UpdateTiles advances the loaders of tiles; it is called once per frame.
	UpdateTiles(tiles []Tile)
	// Clear disposes every loader.
	Clear()
}

// registry maps tile keys to loaders.
type registry[L Loader] struct {
	loaders   map[maptile.Tile]L
	newLoader func(t Tile) L
}

func newRegistry[L Loader](newLoader func(t Tile) L) registry[L] {
	return registry[L]{loaders: make(map[maptile.Tile]L), newLoader: newLoader}
}

// get returns the loader for t. A loader bound to a different tile at the same key is disposed
// and replaced.
func (r *registry[L]) get(t Tile) L {
	key := t.Key()
	if l, ok := r.loaders[key]; ok {
		if l.Tile() == t {
			return l
		}
		l.Dispose()
	}
	l := r.newLoader(t)
	r.loaders[key] = l
	return l
}

// live returns the loaders of the visible tiles, creating missing ones. Loaders of disposed tiles
// are dropped; invisible tiles keep their loader but sit out the frame.
func (r *registry[L]) live(tiles []Tile) []L {
	out := make([]L, 0, len(tiles))
	for _, t := range tiles {
		if t == nil {
			continue
		}
		if t.Disposed() {
			if l, ok := r.loaders[t.Key()]; ok && l.Tile() == t {
				r.dispose(t.Key())
			}
			continue
		}
		if !t.Visible() {
			continue
		}
		out = append(out, r.get(t))
	}
	return out
}

func (r *registry[L]) lookup(key maptile.Tile) (L, bool) {
	l, ok := r.loaders[key]
	return l, ok
}

func (r *registry[L]) dispose(key maptile.Tile) {
	if l, ok := r.loaders[key]; ok {
		l.Dispose()
		delete(r.loaders, key)
	}
}

func (r *registry[L]) clear() {
	for key, l := range r.loaders {
		l.Dispose()
		delete(r.loaders, key)
	}
}
