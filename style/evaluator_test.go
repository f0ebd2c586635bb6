package style

import (
	"testing"
)

func intPtr(v int) *int { return &v }

func leaf(id, technique string) *Style {
	return &Style{ID: id, Technique: technique}
}

func TestRenderOrderSiblingLeaves(t *testing.T) {
	ev := NewEvaluator(StyleSet{
		leaf("a", "fill"),
		leaf("b", "solid-line"),
	})

	for id, want := range map[string]int{"a": 0, "b": 1} {
		got, ok := ev.RenderOrder(id)
		if !ok {
			t.Fatalf("no render order for %q", id)
		}
		if got != want {
			t.Errorf("RenderOrder(%q) = %d, want %d", id, got, want)
		}
	}
}

func TestRenderOrderDocumentOrderDepthFirst(t *testing.T) {
	ev := NewEvaluator(StyleSet{
		{ID: "g1", Styles: List(leaf("a", "fill"), leaf("b", "fill"))},
		leaf("c", "fill"),
		{ID: "g2", Styles: List(
			&Style{ID: "g3", Styles: List(leaf("d", "fill"))},
			leaf("e", "fill"),
		)},
	})

	prev := -1
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		got, _ := ev.RenderOrder(id)
		if got <= prev {
			t.Errorf("RenderOrder(%q) = %d, want > %d", id, got, prev)
		}
		prev = got
	}
}

func TestRenderOrderBiasGroupShared(t *testing.T) {
	ev := NewEvaluator(StyleSet{
		leaf("first", "fill"),
		{ID: "roads-1", Technique: "solid-line", RenderOrderBiasGroup: "roads", RenderOrderBiasRange: []float64{-2, 3}},
		leaf("between", "fill"),
		{ID: "roads-2", Technique: "solid-line", RenderOrderBiasGroup: "roads", RenderOrderBiasRange: []float64{-10, 10}},
		leaf("last", "fill"),
	})

	r1, _ := ev.RenderOrder("roads-1")
	r2, _ := ev.RenderOrder("roads-2")
	if r1 != r2 {
		t.Errorf("bias group members got %d and %d, want equal", r1, r2)
	}
	// first=0, counter 1; +2 -> group order 3; +3 -> counter 6.
	if r1 != 3 {
		t.Errorf("group order = %d, want 3", r1)
	}
	between, _ := ev.RenderOrder("between")
	last, _ := ev.RenderOrder("last")
	if between != 6 || last != 7 {
		t.Errorf("between=%d last=%d, want 6 and 7", between, last)
	}
}

func TestRenderOrderExplicitAndConflict(t *testing.T) {
	ev := NewEvaluator(StyleSet{
		{ID: "explicit", Technique: "fill", RenderOrder: intPtr(100)},
		{ID: "conflict", Technique: "fill", RenderOrder: intPtr(50), RenderOrderBiasGroup: "g", RenderOrderBiasRange: []float64{0, 1}},
		leaf("auto", "fill"),
	})

	if got, _ := ev.RenderOrder("explicit"); got != 100 {
		t.Errorf("explicit order = %d, want 100", got)
	}
	if got, _ := ev.RenderOrder("conflict"); got != 0 {
		t.Errorf("bias group should win over explicit order, got %d", got)
	}
	if got, _ := ev.RenderOrder("auto"); got != 1 {
		t.Errorf("auto order = %d, want 1", got)
	}
}

func TestRenderOrderExplicitGroupNotInherited(t *testing.T) {
	ev := NewEvaluator(StyleSet{
		{ID: "g", RenderOrder: intPtr(10), Styles: List(leaf("a", "fill"), leaf("b", "fill"))},
	})

	a, _ := ev.RenderOrder("a")
	b, _ := ev.RenderOrder("b")
	if a != 0 || b != 1 {
		t.Errorf("a=%d b=%d, want 0 and 1", a, b)
	}
}

func TestRenderOrderBiasGroupWithoutRange(t *testing.T) {
	ev := NewEvaluator(StyleSet{
		leaf("x", "fill"),
		{ID: "g1", Technique: "solid-line", RenderOrderBiasGroup: "g"},
		leaf("y", "fill"),
	})

	x, _ := ev.RenderOrder("x")
	g1, _ := ev.RenderOrder("g1")
	y, _ := ev.RenderOrder("y")
	if !(x < g1 && g1 < y) {
		t.Errorf("x=%d g1=%d y=%d, want strictly increasing", x, g1, y)
	}
}

func TestMatchingTechniquesCached(t *testing.T) {
	ev := NewEvaluator(StyleSet{
		{When: "kind == 'water'", Technique: "fill", Attr: map[string]any{"color": "#0000ff"}},
		{When: "kind == 'water'", Technique: "solid-line"},
	})
	env := Env{"kind": "water"}

	first := ev.MatchingTechniques(env)
	second := ev.MatchingTechniques(env)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 techniques, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("technique %d differs between calls", i)
		}
	}
	if got := ev.Techniques(); len(got) != 2 || got[0].Index != 0 || got[1].Index != 1 {
		t.Errorf("unexpected technique cache: %+v", got)
	}
}

func TestMatchingTechniquesAllBranches(t *testing.T) {
	ev := NewEvaluator(StyleSet{
		{When: "kind == road", Styles: List(
			&Style{When: "class == 'major'", Technique: "solid-line", ID: "major"},
			&Style{When: "class == 'minor'", Technique: "text", ID: "unused"},
			&Style{Technique: "text", ID: "label"},
		)},
		{When: "kind == road", Technique: "line-marker", ID: "marker"},
		{When: "kind == water", Technique: "fill", ID: "water"},
	})

	got := ev.MatchingTechniques(Env{"kind": "road", "class": "major"})
	var ids []string
	for _, tech := range got {
		ids = append(ids, tech.ID)
	}
	want := []string{"major", "label", "marker"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestMatchingTechniquesFinalStopsWalk(t *testing.T) {
	ev := NewEvaluator(StyleSet{
		{Styles: List(
			&Style{When: "kind == road", Technique: "solid-line", ID: "road", Final: true},
			&Style{Technique: "text", ID: "after-in-group"},
		)},
		{Technique: "fill", ID: "after-top"},
	})

	got := ev.MatchingTechniques(Env{"kind": "road"})
	if len(got) != 1 || got[0].ID != "road" {
		t.Fatalf("final rule should stop the walk, got %d techniques", len(got))
	}

	got = ev.MatchingTechniques(Env{"kind": "path"})
	if len(got) != 2 {
		t.Fatalf("non-matching final rule should not stop the walk, got %d", len(got))
	}
}

func TestTechniqueAttributeMerge(t *testing.T) {
	ev := NewEvaluator(StyleSet{
		{Attr: map[string]any{"color": "#ff0000", "lineWidth": 1, "opacity": 0.5}, Styles: List(
			&Style{Attr: map[string]any{"lineWidth": 2}, Styles: List(
				&Style{Technique: "solid-line", Attr: map[string]any{"color": "#00ff00"}},
			)},
		)},
	})

	got := ev.MatchingTechniques(Env{})
	if len(got) != 1 {
		t.Fatalf("expected 1 technique, got %d", len(got))
	}
	tech := got[0]
	if v, _ := tech.Attr("color"); v != "#00ff00" {
		t.Errorf("color = %v, want leaf override", v)
	}
	if v, _ := tech.Attr("lineWidth"); v != 2 {
		t.Errorf("lineWidth = %v, want middle override 2", v)
	}
	if v, _ := tech.Attr("opacity"); v != 0.5 {
		t.Errorf("opacity = %v, want inherited 0.5", v)
	}
	if tech.Kind != KindLines {
		t.Errorf("kind = %q, want %q", tech.Kind, KindLines)
	}
}

func TestTechniqueInterpolatedAttribute(t *testing.T) {
	ev := NewEvaluator(StyleSet{
		{Technique: "solid-line", Attr: map[string]any{
			"kind": "road",
			"lineWidth": map[string]any{
				"interpolation": "Linear",
				"zoomLevels":    []any{10, 14},
				"values":        []any{2, 6},
			},
		}},
	})

	tech := ev.MatchingTechniques(Env{})[0]
	if tech.Kind != KindRoads {
		t.Errorf("explicit kind attribute ignored: %q", tech.Kind)
	}
	raw, _ := tech.Attr("lineWidth")
	if _, ok := raw.(*InterpolatedProperty); !ok {
		t.Fatalf("lineWidth not resolved, got %T", raw)
	}
	if got := tech.Float("lineWidth", 12, 0); got != 4 {
		t.Errorf("lineWidth at 12 = %v, want 4", got)
	}
}

func TestInvalidNodesContributeNothing(t *testing.T) {
	var malformed StyleList
	malformed.shape = "mapping"

	ev := NewEvaluator(StyleSet{
		{ID: "empty"},
		{ID: "malformed", Styles: malformed},
		{ID: "bad-when", When: "kind ==", Technique: "fill"},
		{ID: "both", Technique: "fill", Styles: List(leaf("child", "text"))},
	})

	got := ev.MatchingTechniques(Env{"kind": "x"})
	if len(got) != 1 || got[0].ID != "child" {
		t.Fatalf("expected only the child of the mixed node, got %+v", got)
	}
}

func TestThemeEvaluator(t *testing.T) {
	theme := &Theme{Styles: map[string]StyleSet{"base": {leaf("a", "fill")}}}
	if _, err := theme.Evaluator("missing"); err == nil {
		t.Error("expected error for missing style set")
	}
	ev, err := theme.Evaluator("base")
	if err != nil {
		t.Fatal(err)
	}
	if len(ev.MatchingTechniques(nil)) != 1 {
		t.Error("expected one technique")
	}
}
