// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/mapscene/style"
)

// GenFlatStyleSet creates n sibling fill rules, each matching one value of "class".
func GenFlatStyleSet(n int) style.StyleSet {
	if n < 1 {
		n = 1
	}
	set := make(style.StyleSet, 0, n)
	for i := 0; i < n; i++ {
		set = append(set, &style.Style{
			ID:        fmt.Sprintf("rule%d", i),
			When:      fmt.Sprintf("class == 'c%d'", i),
			Technique: "fill",
			Attr:      map[string]any{"color": "#336699"},
		})
	}
	return set
}

// GenDeepStyleSet creates a chain of depth group rules ending in two leaves. Level i requires
// attribute li.
func GenDeepStyleSet(depth int) style.StyleSet {
	if depth < 1 {
		depth = 1
	}
	leaf := &style.Style{
		Styles: style.List(
			&style.Style{When: []any{"==", []any{"get", "kind"}, "road"}, Technique: "solid-line",
				Attr: map[string]any{"lineWidth": map[string]any{
					"interpolation": "Linear", "zoomLevels": []any{10, 16}, "values": []any{1, 8},
				}}},
			&style.Style{Technique: "text", Attr: map[string]any{"priority": 10}},
		),
	}
	node := leaf
	for i := depth - 1; i >= 0; i-- {
		node = &style.Style{
			When:   []any{"has", fmt.Sprintf("l%d", i)},
			Styles: style.List(node),
		}
	}
	return style.StyleSet{node}
}

// DeepEnv matches every level of GenDeepStyleSet(depth).
func DeepEnv(depth int) style.Env {
	env := style.Env{"kind": "road", style.ZoomKey: 14.0}
	for i := 0; i < depth; i++ {
		env[fmt.Sprintf("l%d", i)] = true
	}
	return env
}

// GenThemeYAML encodes a theme holding GenFlatStyleSet(n) as "flat".
func GenThemeYAML(n int) []byte {
	theme := style.Theme{
		Version: "1",
		Styles:  map[string]style.StyleSet{"flat": GenFlatStyleSet(n)},
	}
	data, err := yaml.Marshal(theme)
	if err != nil {
		panic(err)
	}
	return data
}
