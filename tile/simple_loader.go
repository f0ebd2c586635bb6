package tile

import (
	"github.com/comalice/mapscene"
	"github.com/comalice/mapscene/style"
)

// SimpleLoader builds all of a tile's geometry in one deferred task.
type SimpleLoader struct {
	lifecycle
	backend   Backend
	scheduler Scheduler
	evictor   Evictor
	// scheduled is set while a build task is queued.
	scheduled bool
}

var _ Loader = (*SimpleLoader)(nil)

// NewSimpleLoader returns a loader for t. evictor may be nil.
func NewSimpleLoader(t Tile, backend Backend, scheduler Scheduler, evictor Evictor) *SimpleLoader {
	l := &SimpleLoader{backend: backend, scheduler: scheduler, evictor: evictor}
	l.setup(t, func() { l.scheduled = false })
	return l
}

func (l *SimpleLoader) BasicGeometryLoaded() bool { return l.IsFinished() }

func (l *SimpleLoader) AllGeometryLoaded() bool { return l.IsFinished() }

// Update queues the build once the tile's payload has arrived and reports whether a build task
// was queued. A payload delivered after the current one cancels any queued build and starts over.
func (l *SimpleLoader) Update() bool {
	l.redelivered()
	if l.scheduled || l.skipUncacheable() || !l.acquire() {
		return false
	}
	d := l.decoded
	if err := l.scheduler.Defer(func() { l.build(d) }); err != nil {
		// payload stays captured, the next Update retries
		mapscene.Logger().Debug("tile: build not scheduled", keyAttr(l.tile), "err", err)
		return false
	}
	l.scheduled = true
	return true
}

func (l *SimpleLoader) build(d *DecodedTile) {
	if l.Disposed() || l.decoded != d {
		// disposed or superseded by a newer payload
		return
	}
	l.scheduled = false
	if l.tile.Disposed() {
		return
	}
	if !l.tile.Visible() {
		// back to pending: the next delivery starts a fresh load
		l.Reset()
		if l.evictor != nil {
			l.evictor.EvictTile(l.tile)
		}
		mapscene.Logger().Debug("tile: build dropped for invisible tile", keyAttr(l.tile))
		return
	}

	l.backend.CreateBackground(l.tile)
	l.backend.CreateObjects(l.tile, d, AllObjects)
	l.backend.CreateTextElements(l.tile, d, TextFilter)
	l.backend.PreparePois(l.tile, d)

	l.loaded.Add(style.KindBackground)
	for k := range d.Kinds() {
		l.loaded.Add(k)
	}
	l.finish()
	mapscene.Logger().Debug("tile: geometry built", keyAttr(l.tile), "kinds", l.loaded.Len())
}
