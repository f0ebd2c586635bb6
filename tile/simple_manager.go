package tile

import "github.com/paulmach/orb/maptile"

// SimpleManager gives every visible tile one Update per frame.
type SimpleManager struct {
	reg registry[*SimpleLoader]
}

var (
	_ Manager = (*SimpleManager)(nil)
	_ Evictor = (*SimpleManager)(nil)
)

// NewSimpleManager returns a manager whose loaders defer their builds to scheduler. Loaders whose
// tile turns invisible before its build runs are handed to evictor; when evictor is nil the
// manager evicts them itself, dropping their loader.
func NewSimpleManager(backend Backend, scheduler Scheduler, evictor Evictor) *SimpleManager {
	m := &SimpleManager{}
	if evictor == nil {
		evictor = m
	}
	m.reg = newRegistry(func(t Tile) *SimpleLoader {
		return NewSimpleLoader(t, backend, scheduler, evictor)
	})
	return m
}

// EvictTile disposes and forgets t's loader so that t starts a fresh load when it is visible
// again.
func (m *SimpleManager) EvictTile(t Tile) {
	if l, ok := m.reg.lookup(t.Key()); ok && l.Tile() == t {
		m.reg.dispose(t.Key())
	}
}

func (m *SimpleManager) InitTile(t Tile) Loader { return m.reg.get(t) }

func (m *SimpleManager) UpdateTiles(tiles []Tile) {
	for _, l := range m.reg.live(tiles) {
		l.Update()
	}
}

func (m *SimpleManager) Clear() { m.reg.clear() }

// Loader returns the loader registered for key.
func (m *SimpleManager) Loader(key maptile.Tile) (Loader, bool) {
	l, ok := m.reg.lookup(key)
	if !ok {
		return nil, false
	}
	return l, true
}

// DisposeTile disposes and forgets the loader registered for key.
func (m *SimpleManager) DisposeTile(key maptile.Tile) { m.reg.dispose(key) }

// Len returns the number of registered loaders.
func (m *SimpleManager) Len() int { return len(m.reg.loaders) }
