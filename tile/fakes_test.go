package tile

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb/maptile"

	"github.com/comalice/mapscene/style"
)

type fakeSource struct {
	cacheable bool
}

func (s fakeSource) Name() string    { return "fake" }
func (s fakeSource) Cacheable() bool { return s.cacheable }

type fakeTile struct {
	key      maptile.Tile
	decoded  *DecodedTile
	removed  int
	disposed bool
	visible  bool
	source   DataSource
}

func newTile(x uint32, d *DecodedTile) *fakeTile {
	return &fakeTile{
		key:     maptile.New(x, 0, 12),
		decoded: d,
		visible: true,
		source:  fakeSource{cacheable: true},
	}
}

func (t *fakeTile) Key() maptile.Tile         { return t.key }
func (t *fakeTile) DecodedTile() *DecodedTile { return t.decoded }
func (t *fakeTile) RemoveDecodedTile()        { t.decoded = nil; t.removed++ }
func (t *fakeTile) Disposed() bool            { return t.disposed }
func (t *fakeTile) Visible() bool             { return t.visible }
func (t *fakeTile) DataSource() DataSource    { return t.source }

// fakeBackend records one entry per call and per technique a filter lets through.
type fakeBackend struct {
	calls []string
}

func (b *fakeBackend) CreateBackground(Tile) {
	b.calls = append(b.calls, "background")
}

func (b *fakeBackend) CreateObjects(_ Tile, d *DecodedTile, filter TechniqueFilter) {
	for _, t := range d.Techniques {
		if filter(t) {
			b.calls = append(b.calls, "objects:"+string(t.Kind))
		}
	}
}

func (b *fakeBackend) CreateTextElements(_ Tile, d *DecodedTile, filter TechniqueFilter) {
	for _, t := range d.Techniques {
		if filter(t) {
			b.calls = append(b.calls, "text:"+t.Name)
		}
	}
}

func (b *fakeBackend) PreparePois(Tile, *DecodedTile) {
	b.calls = append(b.calls, "pois")
}

type fakeScheduler struct {
	tasks []func()
	full  bool
}

var errFull = errors.New("queue full")

func (s *fakeScheduler) Defer(task func()) error {
	if s.full {
		return errFull
	}
	s.tasks = append(s.tasks, task)
	return nil
}

func (s *fakeScheduler) run() {
	tasks := s.tasks
	s.tasks = nil
	for _, task := range tasks {
		task()
	}
}

type fakeEvictor struct {
	evicted []Tile
}

func (e *fakeEvictor) EvictTile(t Tile) { e.evicted = append(e.evicted, t) }

type countingRequester struct {
	n int
}

func (r *countingRequester) RequestFrame() { r.n++ }

func payload() *DecodedTile {
	return &DecodedTile{
		Techniques: []*style.Technique{
			{Name: "fill", Kind: style.KindAreas},
			{Name: "solid-line", Kind: style.KindLines},
			{Name: "extruded-polygon", Kind: style.KindBuildings},
			{Name: "text", Kind: style.KindLabels, Attrs: map[string]any{"priority": 5.0}},
		},
	}
}

func tiles(n int) []*fakeTile {
	out := make([]*fakeTile, n)
	for i := range out {
		out[i] = newTile(uint32(i), payload())
	}
	return out
}

func asTiles(ts []*fakeTile) []Tile {
	out := make([]Tile, len(ts))
	for i, t := range ts {
		out[i] = t
	}
	return out
}

func (t *fakeTile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.key.Z, t.key.X, t.key.Y)
}
