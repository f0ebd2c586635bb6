package tile

import (
	"github.com/comalice/mapscene/internal/fsm"
	"github.com/comalice/mapscene/style"
)

// Loader tracks the geometry build of one tile.
type Loader interface {
	Tile() Tile
	IsFinished() bool
	// BasicGeometryLoaded turns true no later than AllGeometryLoaded.
	BasicGeometryLoaded() bool
	AllGeometryLoaded() bool
	// Update advances the build by one step and reports whether work was done.
	Update() bool
	// Reset discards progress so that a replacement DecodedTile is built from scratch.
	Reset()
	Dispose()
}

const (
	statePending fsm.StateID = iota
	stateLoading
	stateFinished
	stateDisposed
)

const (
	evData fsm.EventID = iota
	evFinish
	evReset
	evDispose
)

// lifecycle is the state shared by both loaders: the captured payload, the kinds built so far
// and the pending/loading/finished/disposed machine.
type lifecycle struct {
	tile       Tile
	decoded    *DecodedTile
	techniques []*style.Technique
	loaded     style.GeometryKindSet
	machine    *fsm.Machine
}

// setup wires the machine. onReset runs whenever progress is discarded.
func (lc *lifecycle) setup(t Tile, onReset func()) {
	lc.tile = t
	lc.loaded = style.NewGeometryKindSet()

	release := func(fsm.EventID, fsm.StateID, fsm.StateID) { lc.decoded = nil }
	discard := func(fsm.EventID, fsm.StateID, fsm.StateID) {
		lc.decoded = nil
		lc.techniques = nil
		lc.loaded = style.NewGeometryKindSet()
		if onReset != nil {
			onReset()
		}
	}

	pending := &fsm.State{ID: statePending, Initial: true}
	loading := &fsm.State{ID: stateLoading}
	finished := &fsm.State{ID: stateFinished, EntryAction: release}
	disposed := &fsm.State{ID: stateDisposed, Final: true, EntryAction: discard}

	pending.On(evData, loading, nil, nil).
		On(evFinish, finished, nil, nil).
		On(evReset, nil, nil, discard).
		On(evDispose, disposed, nil, nil)
	loading.On(evFinish, finished, nil, nil).
		On(evReset, pending, nil, discard).
		On(evDispose, disposed, nil, nil)
	finished.On(evReset, pending, nil, discard).
		On(evDispose, disposed, nil, nil)

	m, err := fsm.NewMachine(pending, loading, finished, disposed)
	if err != nil {
		panic(err)
	}
	lc.machine = m
}

func (lc *lifecycle) Tile() Tile { return lc.tile }

func (lc *lifecycle) IsFinished() bool { return lc.machine.In(stateFinished) }

// Disposed reports whether the loader has been disposed.
func (lc *lifecycle) Disposed() bool { return lc.machine.In(stateDisposed) }

// LoadedKinds returns a copy of the kinds built so far.
func (lc *lifecycle) LoadedKinds() style.GeometryKindSet {
	return style.NewGeometryKindSet(lc.loaded.Kinds()...)
}

func (lc *lifecycle) Reset() { lc.machine.Send(evReset) }

func (lc *lifecycle) Dispose() { lc.machine.Send(evDispose) }

func (lc *lifecycle) finish() { lc.machine.Send(evFinish) }

// acquire reports whether the loader holds a payload to build from. A pending loader takes the
// tile's DecodedTile and removes it from the tile so it is consumed at most once.
func (lc *lifecycle) acquire() bool {
	switch {
	case lc.machine.In(stateLoading):
		return lc.decoded != nil
	case !lc.machine.In(statePending):
		return false
	}
	d := lc.tile.DecodedTile()
	if d == nil {
		return false
	}
	lc.decoded = d
	lc.techniques = d.Techniques
	lc.tile.RemoveDecodedTile()
	return lc.machine.Send(evData)
}

// redelivered resets the loader when the tile holds a payload delivered after the one already
// taken. Taken payloads are removed from the tile, so any payload still there is new.
func (lc *lifecycle) redelivered() bool {
	if !lc.machine.In(stateLoading) && !lc.machine.In(stateFinished) {
		return false
	}
	if lc.tile.DecodedTile() == nil {
		return false
	}
	return lc.machine.Send(evReset)
}

// skipUncacheable finishes the loader with nothing built when the tile's data source is not
// cacheable. Any payload the tile holds is dropped.
func (lc *lifecycle) skipUncacheable() bool {
	if cacheable(lc.tile) || (!lc.machine.In(statePending) && !lc.machine.In(stateLoading)) {
		return false
	}
	if lc.tile.DecodedTile() != nil {
		lc.tile.RemoveDecodedTile()
	}
	lc.finish()
	return true
}
