package tile

import (
	"sort"

	"github.com/comalice/mapscene"
	"github.com/comalice/mapscene/style"
)

// PhasedLoader builds a tile's geometry synchronously, one phase per Update.
type PhasedLoader struct {
	lifecycle
	backend    Backend
	phases     PhaseList
	basicKinds style.GeometryKindSet
	// cursor is the number of phases built.
	cursor int
}

var _ Loader = (*PhasedLoader)(nil)

// NewPhasedLoader returns a loader for t building phases in order. The loader counts as
// basic-loaded once every kind in basicKinds has been built.
func NewPhasedLoader(t Tile, backend Backend, phases PhaseList, basicKinds []style.GeometryKind) *PhasedLoader {
	l := &PhasedLoader{
		backend:    backend,
		phases:     phases,
		basicKinds: style.NewGeometryKindSet(basicKinds...),
	}
	l.setup(t, func() { l.cursor = 0 })
	return l
}

// CurrentPhase returns the number of phases built so far.
func (l *PhasedLoader) CurrentPhase() int { return l.cursor }

// Phases returns the number of phases in the build plan.
func (l *PhasedLoader) Phases() int { return len(l.phases) }

func (l *PhasedLoader) BasicGeometryLoaded() bool {
	return l.IsFinished() || l.loaded.HasAll(l.basicKinds)
}

func (l *PhasedLoader) AllGeometryLoaded() bool { return l.IsFinished() }

// Update builds the next phase and reports whether one was built. A payload delivered after the
// current one restarts the build. A tile from a non-cacheable data source finishes on its first
// Update without building anything.
func (l *PhasedLoader) Update() bool {
	if l.redelivered() {
		mapscene.Logger().Debug("tile: payload replaced, rebuilding", keyAttr(l.tile))
	}
	if l.skipUncacheable() {
		l.cursor = len(l.phases)
		mapscene.Logger().Debug("tile: uncacheable tile skipped", keyAttr(l.tile))
		return false
	}
	if !l.acquire() {
		return false
	}
	built := false
	if l.cursor < len(l.phases) {
		for _, kind := range l.phases[l.cursor] {
			if l.loaded.Has(kind) {
				continue
			}
			buildKind(l.backend, l.tile, l.decoded, kind)
			l.loaded.Add(kind)
		}
		l.cursor++
		built = true
		mapscene.Logger().Debug("tile: phase built", keyAttr(l.tile), "phase", l.cursor, "of", len(l.phases))
	}
	if l.cursor >= len(l.phases) {
		l.finish()
	}
	return built
}

// UpdateToPhase builds phases until n of them are done and reports whether any work was done.
// n is clamped to the number of phases.
func (l *PhasedLoader) UpdateToPhase(n int) bool {
	if n > len(l.phases) {
		n = len(l.phases)
	}
	worked := false
	for l.cursor < n && !l.IsFinished() {
		if !l.Update() {
			break
		}
		worked = true
	}
	return worked
}

// TextElementPriorities returns the distinct "priority" values of the tile's text techniques at
// the tile's zoom level, highest first.
func (l *PhasedLoader) TextElementPriorities() []float64 {
	level := float64(l.tile.Key().Z)
	seen := make(map[float64]bool)
	var out []float64
	for _, t := range l.techniques {
		if t == nil || !t.IsText() {
			continue
		}
		p := t.Float("priority", level, 0)
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}
