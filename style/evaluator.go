package style

import (
	"math"
	"sync"

	"github.com/comalice/mapscene"
)

// rule is the evaluator's view of one Style node: compiled predicate, assigned render order and
// cached technique.
type rule struct {
	style    *Style
	parent   *rule
	children []*rule
	group    bool
	valid    bool

	renderOrder    int
	hasRenderOrder bool
	// biased is set when the order comes from a bias group, directly or through an ancestor.
	biased bool

	compiled  bool
	predicate Expr
	technique *Technique
}

// Evaluator matches feature environments against a style set and hands out cached Techniques.
// Render orders are fixed at construction; predicates and techniques are built on first use
// and kept for the evaluator's lifetime. Safe for concurrent use.
type Evaluator struct {
	mu         sync.Mutex
	rules      []*rule
	techniques []*Technique

	nextRenderOrder int
	biasGroups      map[string]int
}

// NewEvaluator validates set, logging every problem as a warning, and assigns render orders in
// document order. Invalid nodes stay in place but never match.
func NewEvaluator(set StyleSet) *Evaluator {
	logValidation(set.Validate())

	e := &Evaluator{biasGroups: make(map[string]int)}
	for _, s := range set {
		if s == nil {
			continue
		}
		e.rules = append(e.rules, e.build(s, nil))
	}
	return e
}

func logValidation(err error) {
	if err == nil {
		return
	}
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		mapscene.Logger().Warn("style: invalid rule", "error", e)
	}
}

func (e *Evaluator) build(s *Style, parent *rule) *rule {
	r := &rule{
		style:  s,
		parent: parent,
		group:  s.Styles.Len() > 0,
	}
	r.valid = !s.Styles.Malformed() && (r.group || s.Technique != "")
	if !r.valid {
		return r
	}

	switch {
	case s.RenderOrderBiasGroup != "":
		r.renderOrder = e.biasGroupOrder(s)
		r.hasRenderOrder = true
		r.biased = true
	case s.RenderOrder != nil:
		r.renderOrder = *s.RenderOrder
		r.hasRenderOrder = true
	case parent != nil && parent.biased:
		r.renderOrder = parent.renderOrder
		r.hasRenderOrder = true
		r.biased = true
	}

	for _, child := range s.Styles.Items {
		if child == nil {
			continue
		}
		r.children = append(r.children, e.build(child, r))
	}

	if !r.group && !r.hasRenderOrder {
		r.renderOrder = e.nextRenderOrder
		r.hasRenderOrder = true
		e.nextRenderOrder++
	}
	return r
}

// biasGroupOrder returns the order shared by the group. The first member reserves room for its
// bias range around a fresh order: the counter moves past |lo|, the group takes that value, and
// the counter then moves past |hi|, and always by at least one so the next leaf never shares the
// group's order.
func (e *Evaluator) biasGroupOrder(s *Style) int {
	if order, ok := e.biasGroups[s.RenderOrderBiasGroup]; ok {
		return order
	}
	var lo, hi float64
	if len(s.RenderOrderBiasRange) == 2 {
		lo, hi = s.RenderOrderBiasRange[0], s.RenderOrderBiasRange[1]
	}
	e.nextRenderOrder += int(math.Ceil(math.Abs(lo)))
	order := e.nextRenderOrder
	e.biasGroups[s.RenderOrderBiasGroup] = order
	e.nextRenderOrder += max(1, int(math.Ceil(math.Abs(hi))))
	return order
}

// MatchingTechniques returns the techniques of every rule leaf matching env, in document order.
// Calling it twice with the same environment returns the same Technique pointers.
func (e *Evaluator) MatchingTechniques(env Env) []*Technique {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []*Technique
	for _, r := range e.rules {
		if e.match(r, env, &out) {
			break
		}
	}
	return out
}

// match walks r and reports whether a final rule stopped the walk.
func (e *Evaluator) match(r *rule, env Env, out *[]*Technique) bool {
	if !r.valid || !e.matches(r, env) {
		return false
	}
	if r.group {
		for _, child := range r.children {
			if e.match(child, env, out) {
				return true
			}
		}
		return r.style.Final
	}
	*out = append(*out, e.techniqueFor(r))
	return r.style.Final
}

func (e *Evaluator) matches(r *rule, env Env) bool {
	if !r.compiled {
		r.compiled = true
		p, err := CompileExpr(r.style.When)
		if err != nil {
			mapscene.Logger().Warn("style: predicate never matches", "id", r.style.ID, "when", r.style.When, "error", err)
			p = literalExpr{false}
		}
		r.predicate = p
	}
	return Matches(r.predicate, env)
}

// techniqueFor builds the leaf's technique on first use. Attributes merge from the root down,
// descendants overriding ancestors.
func (e *Evaluator) techniqueFor(r *rule) *Technique {
	if r.technique != nil {
		return r.technique
	}

	var chain []*rule
	for n := r; n != nil; n = n.parent {
		chain = append(chain, n)
	}
	attrs := make(map[string]any)
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].style.Attr {
			attrs[k] = v
		}
	}
	for k, v := range attrs {
		resolved, err := resolveAttr(v)
		if err != nil {
			mapscene.Logger().Warn("style: dropping attribute", "id", r.style.ID, "attr", k, "error", err)
			delete(attrs, k)
			continue
		}
		attrs[k] = resolved
	}

	t := &Technique{
		Name:        r.style.Technique,
		ID:          r.style.ID,
		Index:       len(e.techniques),
		Kind:        DefaultKind(r.style.Technique),
		RenderOrder: r.renderOrder,
		Attrs:       attrs,
	}
	if k, ok := attrs["kind"].(string); ok {
		kind, err := ParseGeometryKind(k)
		if err != nil {
			mapscene.Logger().Warn("style: ignoring kind", "id", r.style.ID, "error", err)
		} else {
			t.Kind = kind
		}
	}
	r.technique = t
	e.techniques = append(e.techniques, t)
	return t
}

func resolveAttr(v any) (any, error) {
	def, isDef, err := interpolationSource(v)
	if err != nil {
		return nil, err
	}
	if !isDef {
		return v, nil
	}
	return NewInterpolatedProperty(def)
}

// Techniques returns every technique built so far, ordered by Index.
func (e *Evaluator) Techniques() []*Technique {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Technique(nil), e.techniques...)
}

// RenderOrder returns the render order assigned to the rule with the given id.
func (e *Evaluator) RenderOrder(id string) (int, bool) {
	var find func(rs []*rule) (int, bool)
	find = func(rs []*rule) (int, bool) {
		for _, r := range rs {
			if r.style.ID == id && r.hasRenderOrder {
				return r.renderOrder, true
			}
			if order, ok := find(r.children); ok {
				return order, true
			}
		}
		return 0, false
	}
	return find(e.rules)
}

// GetPropertyValue is the evaluator-scoped form of the package function.
func (e *Evaluator) GetPropertyValue(prop any, level float64) any {
	return GetPropertyValue(prop, level)
}
