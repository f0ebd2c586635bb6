package tile

import (
	"reflect"
	"testing"

	"github.com/comalice/mapscene/style"
)

func TestPhasedLoaderBasicBeforeAll(t *testing.T) {
	tl := newTile(1, payload())
	phases := PhaseList{{style.KindBackground}, {style.KindLines}, {style.KindBuildings}}
	l := NewPhasedLoader(tl, &fakeBackend{}, phases, []style.GeometryKind{style.KindBackground})

	if l.BasicGeometryLoaded() || l.AllGeometryLoaded() {
		t.Fatal("fresh loader reports loaded geometry")
	}

	if !l.Update() {
		t.Fatal("first Update did no work")
	}
	if !l.BasicGeometryLoaded() {
		t.Error("basic geometry not loaded after first phase")
	}
	if l.AllGeometryLoaded() {
		t.Error("all geometry loaded after first phase")
	}

	l.Update()
	l.Update()
	if !l.BasicGeometryLoaded() || !l.AllGeometryLoaded() {
		t.Errorf("after 3 updates basic=%v all=%v, want both true", l.BasicGeometryLoaded(), l.AllGeometryLoaded())
	}
	if !l.IsFinished() {
		t.Error("loader not finished")
	}
}

func TestPhasedLoaderNoOpAfterFinish(t *testing.T) {
	tl := newTile(1, payload())
	b := &fakeBackend{}
	l := NewPhasedLoader(tl, b, DefaultPhases(), DefaultBasicKinds())

	for i := 0; i < len(DefaultPhases()); i++ {
		if !l.Update() {
			t.Fatalf("Update %d did no work", i+1)
		}
	}
	if !l.AllGeometryLoaded() {
		t.Fatal("not finished after one update per phase")
	}

	calls := len(b.calls)
	for i := 0; i < 3; i++ {
		if l.Update() {
			t.Errorf("Update after finish reported work")
		}
	}
	if len(b.calls) != calls {
		t.Errorf("backend called after finish: %v", b.calls[calls:])
	}
}

func TestPhasedLoaderDispatch(t *testing.T) {
	tl := newTile(1, payload())
	b := &fakeBackend{}
	l := NewPhasedLoader(tl, b, DefaultPhases(), DefaultBasicKinds())

	want := [][]string{
		{"background", "objects:area"},
		{"objects:line"},
		{"objects:building"},
		{"text:text", "pois"},
		nil,
	}
	for i, w := range want {
		b.calls = nil
		l.Update()
		if !reflect.DeepEqual(b.calls, w) {
			t.Errorf("phase %d: calls = %v, want %v", i+1, b.calls, w)
		}
	}

	got := l.LoadedKinds()
	for _, k := range style.AllKinds {
		if !got.Has(k) {
			t.Errorf("kind %s not recorded", k)
		}
	}
}

func TestPhasedLoaderSkipsBuiltKinds(t *testing.T) {
	tl := newTile(1, payload())
	b := &fakeBackend{}
	phases := PhaseList{{style.KindLines}, {style.KindLines, style.KindBuildings}}
	l := NewPhasedLoader(tl, b, phases, nil)

	l.Update()
	l.Update()
	want := []string{"objects:line", "objects:building"}
	if !reflect.DeepEqual(b.calls, want) {
		t.Errorf("calls = %v, want %v", b.calls, want)
	}
}

func TestPhasedLoaderWaitsForData(t *testing.T) {
	tl := newTile(1, nil)
	l := NewPhasedLoader(tl, &fakeBackend{}, DefaultPhases(), DefaultBasicKinds())

	if l.Update() {
		t.Fatal("Update without data reported work")
	}
	if l.CurrentPhase() != 0 {
		t.Fatalf("CurrentPhase = %d, want 0", l.CurrentPhase())
	}

	tl.decoded = payload()
	if !l.Update() {
		t.Fatal("Update with data did no work")
	}
	if tl.decoded != nil || tl.removed != 1 {
		t.Errorf("decoded tile not consumed: decoded=%v removed=%d", tl.decoded, tl.removed)
	}

	l.Update()
	if l.CurrentPhase() != 2 {
		t.Fatalf("CurrentPhase = %d, want 2", l.CurrentPhase())
	}

	// a new delivery restarts the build from the first phase
	tl.decoded = payload()
	if !l.Update() {
		t.Fatal("Update with replacement payload did no work")
	}
	if tl.removed != 2 || l.CurrentPhase() != 1 {
		t.Errorf("replacement not rebuilt: removed=%d phase=%d", tl.removed, l.CurrentPhase())
	}
}

func TestPhasedLoaderUncacheable(t *testing.T) {
	tl := newTile(1, payload())
	tl.source = fakeSource{cacheable: false}
	b := &fakeBackend{}
	l := NewPhasedLoader(tl, b, DefaultPhases(), DefaultBasicKinds())

	l.Update()
	if !l.AllGeometryLoaded() || !l.BasicGeometryLoaded() {
		t.Fatal("uncacheable tile not finished after one update")
	}
	if n := l.LoadedKinds().Len(); n != 0 {
		t.Errorf("recorded %d kinds, want 0", n)
	}
	if len(b.calls) != 0 {
		t.Errorf("backend called: %v", b.calls)
	}
	if tl.decoded != nil {
		t.Error("payload left on tile")
	}
}

func TestPhasedLoaderUpdateToPhase(t *testing.T) {
	tl := newTile(1, payload())
	l := NewPhasedLoader(tl, &fakeBackend{}, DefaultPhases(), DefaultBasicKinds())

	if !l.UpdateToPhase(2) {
		t.Fatal("UpdateToPhase(2) did no work")
	}
	if l.CurrentPhase() != 2 {
		t.Errorf("CurrentPhase = %d, want 2", l.CurrentPhase())
	}
	if l.UpdateToPhase(2) {
		t.Error("UpdateToPhase to the current phase reported work")
	}
	if !l.BasicGeometryLoaded() {
		t.Error("basic kinds not loaded after two phases")
	}

	l.UpdateToPhase(100)
	if !l.AllGeometryLoaded() || l.CurrentPhase() != len(DefaultPhases()) {
		t.Errorf("after UpdateToPhase(100): finished=%v phase=%d", l.AllGeometryLoaded(), l.CurrentPhase())
	}
}

func TestPhasedLoaderReset(t *testing.T) {
	tl := newTile(1, payload())
	l := NewPhasedLoader(tl, &fakeBackend{}, DefaultPhases(), DefaultBasicKinds())
	l.UpdateToPhase(len(DefaultPhases()))

	l.Reset()
	if l.IsFinished() || l.CurrentPhase() != 0 || l.LoadedKinds().Len() != 0 {
		t.Fatalf("after Reset: finished=%v phase=%d kinds=%d", l.IsFinished(), l.CurrentPhase(), l.LoadedKinds().Len())
	}
	if l.Update() {
		t.Fatal("Update after Reset without new data reported work")
	}

	tl.decoded = payload()
	if !l.Update() || l.CurrentPhase() != 1 {
		t.Errorf("replacement payload not built")
	}
}

func TestPhasedLoaderDispose(t *testing.T) {
	tl := newTile(1, payload())
	b := &fakeBackend{}
	l := NewPhasedLoader(tl, b, DefaultPhases(), DefaultBasicKinds())
	l.Update()

	l.Dispose()
	l.Dispose()
	if !l.Disposed() {
		t.Fatal("loader not disposed")
	}
	calls := len(b.calls)
	tl.decoded = payload()
	l.Reset()
	l.Update()
	if tl.decoded == nil {
		t.Error("disposed loader took a payload")
	}
	if len(b.calls) != calls {
		t.Error("disposed loader built geometry")
	}
	if l.AllGeometryLoaded() {
		t.Error("disposed loader reports all geometry loaded")
	}
}

func TestPhasedLoaderNoPhases(t *testing.T) {
	l := NewPhasedLoader(newTile(1, payload()), &fakeBackend{}, nil, nil)
	l.Update()
	if !l.AllGeometryLoaded() {
		t.Error("loader with no phases not finished after first update")
	}
}

func TestTextElementPriorities(t *testing.T) {
	zoomed, err := style.NewInterpolatedProperty(style.InterpolatedPropertyDefinition{
		Interpolation: style.Linear,
		ZoomLevels:    []float64{10, 14},
		Values:        []any{0.0, 40.0},
	})
	if err != nil {
		t.Fatal(err)
	}
	d := &DecodedTile{
		Techniques: []*style.Technique{
			{Name: "text", Kind: style.KindLabels, Attrs: map[string]any{"priority": 5.0}},
			{Name: "labeled-icon", Kind: style.KindLabels, Attrs: map[string]any{"priority": zoomed}},
			{Name: "text", Kind: style.KindLabels, Attrs: map[string]any{"priority": 5.0}},
			{Name: "fill", Kind: style.KindAreas, Attrs: map[string]any{"priority": 99.0}},
			{Name: "line-marker", Kind: style.KindLabels},
		},
	}
	tl := newTile(1, d) // zoom 12
	l := NewPhasedLoader(tl, &fakeBackend{}, DefaultPhases(), DefaultBasicKinds())
	l.Update()

	got := l.TextElementPriorities()
	want := []float64{20, 5, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TextElementPriorities = %v, want %v", got, want)
	}
}
