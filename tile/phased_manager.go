package tile

import (
	"fmt"

	"github.com/paulmach/orb/maptile"

	"github.com/comalice/mapscene"
	"github.com/comalice/mapscene/style"
)

// InteractionMode selects how a PhasedManager spends a frame.
type InteractionMode int

const (
	// Static advances all tiles in lock step, never letting one get more than one phase ahead.
	Static InteractionMode = iota
	// Dynamic advances up to a fixed number of tiles by one phase each.
	Dynamic
)

func (m InteractionMode) String() string {
	switch m {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("InteractionMode(%d)", int(m))
	}
}

// PhasedManager drives PhasedLoaders under a per-frame budget.
type PhasedManager struct {
	reg              registry[*PhasedLoader]
	backend          Backend
	phases           PhaseList
	basicKinds       []style.GeometryKind
	maxTilesPerFrame int
	mode             InteractionMode
	requester        FrameRequester
}

var _ Manager = (*PhasedManager)(nil)

// NewPhasedManager returns a manager in Static mode using DefaultPhases and DefaultBasicKinds
// unless options say otherwise.
func NewPhasedManager(backend Backend, opts ...Option) *PhasedManager {
	m := &PhasedManager{
		backend:          backend,
		phases:           DefaultPhases(),
		basicKinds:       DefaultBasicKinds(),
		maxTilesPerFrame: DefaultMaxTilesPerFrame,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.reg = newRegistry(func(t Tile) *PhasedLoader {
		return NewPhasedLoader(t, m.backend, m.phases, m.basicKinds)
	})
	return m
}

func (m *PhasedManager) SetInteractionMode(mode InteractionMode) { m.mode = mode }

func (m *PhasedManager) InteractionMode() InteractionMode { return m.mode }

func (m *PhasedManager) SetFrameRequester(r FrameRequester) { m.requester = r }

func (m *PhasedManager) MaxTilesPerFrame() int { return m.maxTilesPerFrame }

func (m *PhasedManager) InitTile(t Tile) Loader { return m.reg.get(t) }

func (m *PhasedManager) Clear() { m.reg.clear() }

// Loader returns the loader registered for key.
func (m *PhasedManager) Loader(key maptile.Tile) (*PhasedLoader, bool) {
	return m.reg.lookup(key)
}

// DisposeTile disposes and forgets the loader registered for key.
func (m *PhasedManager) DisposeTile(key maptile.Tile) { m.reg.dispose(key) }

// Len returns the number of registered loaders.
func (m *PhasedManager) Len() int { return len(m.reg.loaders) }

// UpdateTiles spends one frame on tiles and asks for another frame while any of them is
// incomplete.
func (m *PhasedManager) UpdateTiles(tiles []Tile) {
	loaders := m.reg.live(tiles)

	var updated int
	if m.mode == Dynamic {
		updated = m.updateDynamic(loaders)
	} else {
		updated = m.updateStatic(loaders)
	}

	pending := 0
	for _, l := range loaders {
		if !l.AllGeometryLoaded() {
			pending++
		}
	}
	mapscene.Logger().Debug("tile: frame",
		"mode", m.mode, "tiles", len(loaders), "updated", updated, "pending", pending)
	if pending > 0 && m.requester != nil {
		m.requester.RequestFrame()
	}
}

func (m *PhasedManager) updateDynamic(loaders []*PhasedLoader) int {
	updated := 0
	for _, l := range loaders {
		if updated >= m.maxTilesPerFrame {
			break
		}
		if l.Update() {
			updated++
		}
	}
	return updated
}

// updateStatic brings lagging tiles, up to the frame budget, to one phase past the slowest
// unfinished tile.
func (m *PhasedManager) updateStatic(loaders []*PhasedLoader) int {
	lowest := -1
	for _, l := range loaders {
		if l.IsFinished() {
			continue
		}
		if lowest < 0 || l.CurrentPhase() < lowest {
			lowest = l.CurrentPhase()
		}
	}
	if lowest < 0 {
		return 0
	}
	target := lowest + 1
	updated := 0
	for _, l := range loaders {
		if updated >= m.maxTilesPerFrame {
			break
		}
		if l.IsFinished() || l.CurrentPhase() >= target {
			continue
		}
		if l.UpdateToPhase(target) {
			updated++
		}
	}
	return updated
}
