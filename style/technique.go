package style

// Technique is a resolved rendering recipe. One is built per matching rule leaf and shared by
// every feature that matches it; callers must treat it as read-only.
type Technique struct {
	// Name is the technique type, e.g. "fill", "solid-line", "text".
	Name string
	// ID is the id of the rule the technique was built from, if any.
	ID string
	// Index is the technique's position in its evaluator's cache.
	Index       int
	Kind        GeometryKind
	RenderOrder int
	// Attrs holds the merged rule attributes. Zoom-dependent ones are *InterpolatedProperty.
	Attrs map[string]any
}

// Attr returns the raw attribute, which may be an *InterpolatedProperty.
func (t *Technique) Attr(name string) (any, bool) {
	v, ok := t.Attrs[name]
	return v, ok
}

// Value returns the attribute evaluated at level.
func (t *Technique) Value(name string, level float64) (any, bool) {
	v, ok := t.Attrs[name]
	if !ok {
		return nil, false
	}
	return GetPropertyValue(v, level), true
}

// Float returns a numeric attribute at level, or def when it is missing or not a number.
func (t *Technique) Float(name string, level float64, def float64) float64 {
	v, ok := t.Value(name, level)
	if !ok {
		return def
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return def
}

// Fade returns the fadeNear/fadeFar pair at level when the technique fades out with camera
// distance.
func (t *Technique) Fade(level float64) (near, far float64, ok bool) {
	nv, hasNear := t.Value("fadeNear", level)
	fv, hasFar := t.Value("fadeFar", level)
	if !hasNear || !hasFar {
		return 0, 0, false
	}
	n, okNear := toFloat(nv)
	f, okFar := toFloat(fv)
	if !okNear || !okFar {
		return 0, 0, false
	}
	return n, f, true
}

// IsText reports whether the technique produces text elements.
func (t *Technique) IsText() bool {
	return IsTextTechnique(t.Name)
}
