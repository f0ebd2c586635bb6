// Package testutil provides in-memory collaborators for exercising tile loaders, managers and
// the frame loop without a decoder or a renderer.
package testutil

import (
	"fmt"
	"sync"

	"github.com/paulmach/orb/maptile"

	"github.com/comalice/mapscene/style"
	"github.com/comalice/mapscene/tile"
)

// DataSource is a named data source with a fixed cacheability.
type DataSource struct {
	SourceName  string
	IsCacheable bool
}

func (d DataSource) Name() string    { return d.SourceName }
func (d DataSource) Cacheable() bool { return d.IsCacheable }

// Tile is a settable tile.Tile. It is safe for concurrent use so that tests can flip visibility
// or deliver payloads while a frame loop runs.
type Tile struct {
	mu       sync.Mutex
	key      maptile.Tile
	decoded  *tile.DecodedTile
	removed  int
	disposed bool
	visible  bool
	source   tile.DataSource
}

var _ tile.Tile = (*Tile)(nil)

// NewTile returns a visible tile at key from a cacheable source holding d.
func NewTile(key maptile.Tile, d *tile.DecodedTile) *Tile {
	return &Tile{
		key:     key,
		decoded: d,
		visible: true,
		source:  DataSource{SourceName: "test", IsCacheable: true},
	}
}

// Grid returns n visible tiles in one row at zoom z, each holding a fresh payload from gen.
func Grid(n int, z maptile.Zoom, gen func() *tile.DecodedTile) []*Tile {
	out := make([]*Tile, n)
	for i := range out {
		out[i] = NewTile(maptile.New(uint32(i), 0, z), gen())
	}
	return out
}

// Tiles converts ts for a manager.
func Tiles(ts []*Tile) []tile.Tile {
	out := make([]tile.Tile, len(ts))
	for i, t := range ts {
		out[i] = t
	}
	return out
}

func (t *Tile) Key() maptile.Tile { return t.key }

func (t *Tile) DecodedTile() *tile.DecodedTile {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.decoded
}

func (t *Tile) RemoveDecodedTile() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.decoded = nil
	t.removed++
}

// Deliver hands the tile a new payload, as a decoder would.
func (t *Tile) Deliver(d *tile.DecodedTile) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.decoded = d
}

// Removed returns how many times the payload was taken off the tile.
func (t *Tile) Removed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.removed
}

func (t *Tile) Disposed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disposed
}

func (t *Tile) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disposed = true
}

func (t *Tile) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

func (t *Tile) SetVisible(v bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = v
}

func (t *Tile) DataSource() tile.DataSource {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.source
}

func (t *Tile) SetDataSource(ds tile.DataSource) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.source = ds
}

func (t *Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.key.Z, t.key.X, t.key.Y)
}

// Backend counts backend calls and the techniques each filter let through.
type Backend struct {
	mu          sync.Mutex
	Backgrounds int
	Objects     map[style.GeometryKind]int
	Texts       int
	Pois        int
}

var _ tile.Backend = (*Backend)(nil)

func NewBackend() *Backend {
	return &Backend{Objects: make(map[style.GeometryKind]int)}
}

func (b *Backend) CreateBackground(tile.Tile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Backgrounds++
}

func (b *Backend) CreateObjects(_ tile.Tile, d *tile.DecodedTile, filter tile.TechniqueFilter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range d.Techniques {
		if filter(t) {
			b.Objects[t.Kind]++
		}
	}
}

func (b *Backend) CreateTextElements(_ tile.Tile, d *tile.DecodedTile, filter tile.TechniqueFilter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range d.Techniques {
		if filter(t) {
			b.Texts++
		}
	}
}

func (b *Backend) PreparePois(tile.Tile, *tile.DecodedTile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Pois++
}

// BackgroundCount returns the number of CreateBackground calls.
func (b *Backend) BackgroundCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Backgrounds
}

// Payload returns a decoded tile with one technique per geometry kind, text included.
func Payload() *tile.DecodedTile {
	d := &tile.DecodedTile{}
	for i, name := range []string{"background", "terrain", "fill", "solid-line", "line", "extruded-polygon", "text", "circles", "custom"} {
		d.Techniques = append(d.Techniques, &style.Technique{
			Name:  name,
			Index: i,
			Kind:  style.DefaultKind(name),
		})
	}
	return d
}
