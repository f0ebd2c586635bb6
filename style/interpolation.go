package style

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// InterpolationMode selects how an interpolated property is sampled between zoom levels.
type InterpolationMode int

const (
	Discrete InterpolationMode = iota
	Linear
	Cubic
	Exponential
)

var interpolationNames = [...]string{"Discrete", "Linear", "Cubic", "Exponential"}

func (m InterpolationMode) String() string {
	if m < 0 || int(m) >= len(interpolationNames) {
		return fmt.Sprintf("InterpolationMode(%d)", int(m))
	}
	return interpolationNames[m]
}

// ParseInterpolationMode resolves a mode name case-insensitively. The empty string is Discrete.
func ParseInterpolationMode(s string) (InterpolationMode, error) {
	if s == "" {
		return Discrete, nil
	}
	for i, name := range interpolationNames {
		if strings.EqualFold(s, name) {
			return InterpolationMode(i), nil
		}
	}
	return Discrete, fmt.Errorf("unknown interpolation mode %q", s)
}

func (m *InterpolationMode) UnmarshalText(text []byte) error {
	parsed, err := ParseInterpolationMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m InterpolationMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// InterpolatedPropertyDefinition is the unresolved source of a zoom-dependent attribute: one
// value per zoom level. Values are all numbers, all booleans, or all colour strings.
type InterpolatedPropertyDefinition struct {
	Interpolation InterpolationMode `json:"interpolation,omitempty" yaml:"interpolation,omitempty"`
	ZoomLevels    []float64         `json:"zoomLevels" yaml:"zoomLevels"`
	Values        []any             `json:"values" yaml:"values"`
	// Exponent is the base for Exponential mode. Zero means 2.
	Exponent float64 `json:"exponent,omitempty" yaml:"exponent,omitempty"`
}

// ErrInvalidInterpolation wraps every interpolated property construction error.
var ErrInvalidInterpolation = errors.New("invalid interpolated property")

type channelKind int

const (
	channelNumber channelKind = iota
	channelBool
	channelColor
)

// InterpolatedProperty is a resolved, sampleable zoom-dependent attribute. Keys are ascending
// and unique; values hold channels() floats per key.
type InterpolatedProperty struct {
	mode     InterpolationMode
	exponent float64
	kind     channelKind
	keys     []float64
	values   []float64
}

// NewInterpolatedProperty resolves def. Duplicate zoom levels are collapsed, first occurrence
// wins, before the keys are sorted.
func NewInterpolatedProperty(def InterpolatedPropertyDefinition) (*InterpolatedProperty, error) {
	if len(def.ZoomLevels) == 0 {
		return nil, fmt.Errorf("%w: no zoom levels", ErrInvalidInterpolation)
	}
	if len(def.ZoomLevels) != len(def.Values) {
		return nil, fmt.Errorf("%w: %d zoom levels but %d values", ErrInvalidInterpolation, len(def.ZoomLevels), len(def.Values))
	}

	kind, err := channelKindOf(def.Values[0])
	if err != nil {
		return nil, err
	}

	type entry struct {
		key float64
		ch  [3]float64
	}
	seen := make(map[float64]bool, len(def.ZoomLevels))
	entries := make([]entry, 0, len(def.ZoomLevels))
	for i, z := range def.ZoomLevels {
		if seen[z] {
			continue
		}
		seen[z] = true
		ch, err := channelsOf(kind, def.Values[i])
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		entries = append(entries, entry{key: z, ch: ch})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	p := &InterpolatedProperty{
		mode:     def.Interpolation,
		exponent: def.Exponent,
		kind:     kind,
		keys:     make([]float64, len(entries)),
		values:   make([]float64, 0, len(entries)*kind.channels()),
	}
	if p.exponent == 0 {
		p.exponent = 2
	}
	if kind == channelBool {
		p.mode = Discrete
	}
	for i, e := range entries {
		p.keys[i] = e.key
		p.values = append(p.values, e.ch[:kind.channels()]...)
	}
	return p, nil
}

func (k channelKind) channels() int {
	if k == channelColor {
		return 3
	}
	return 1
}

func channelKindOf(v any) (channelKind, error) {
	switch t := v.(type) {
	case bool:
		return channelBool, nil
	case string:
		if _, ok := parseColor(t); ok {
			return channelColor, nil
		}
		return 0, fmt.Errorf("%w: %q is not a colour", ErrInvalidInterpolation, t)
	}
	if _, ok := toFloat(v); ok {
		return channelNumber, nil
	}
	return 0, fmt.Errorf("%w: unsupported value type %T", ErrInvalidInterpolation, v)
}

func channelsOf(kind channelKind, v any) ([3]float64, error) {
	var ch [3]float64
	switch kind {
	case channelBool:
		b, ok := v.(bool)
		if !ok {
			return ch, fmt.Errorf("%w: expected bool, got %T", ErrInvalidInterpolation, v)
		}
		if b {
			ch[0] = 1
		}
	case channelColor:
		s, ok := v.(string)
		if !ok {
			return ch, fmt.Errorf("%w: expected colour, got %T", ErrInvalidInterpolation, v)
		}
		rgb, ok := parseColor(s)
		if !ok {
			return ch, fmt.Errorf("%w: %q is not a colour", ErrInvalidInterpolation, s)
		}
		ch = rgb
	default:
		f, ok := toFloat(v)
		if !ok {
			return ch, fmt.Errorf("%w: expected number, got %T", ErrInvalidInterpolation, v)
		}
		ch[0] = f
	}
	return ch, nil
}

func (p *InterpolatedProperty) Mode() InterpolationMode { return p.mode }

// Keys returns the sorted, de-duplicated zoom levels.
func (p *InterpolatedProperty) Keys() []float64 { return p.keys }

// Sample evaluates the property at level. Numbers come back as float64, booleans as bool and
// colours as "#rrggbb". Levels outside the key range clamp to the first or last value.
func (p *InterpolatedProperty) Sample(level float64) any {
	n := p.kind.channels()
	var out [3]float64
	for c := 0; c < n; c++ {
		out[c] = p.sampleChannel(c, level)
	}
	switch p.kind {
	case channelBool:
		return out[0] >= 0.5
	case channelColor:
		return formatHexColor(out)
	}
	return out[0]
}

func (p *InterpolatedProperty) value(i, c int) float64 {
	return p.values[i*p.kind.channels()+c]
}

func (p *InterpolatedProperty) sampleChannel(c int, level float64) float64 {
	last := len(p.keys) - 1
	if level <= p.keys[0] {
		return p.value(0, c)
	}
	if level >= p.keys[last] {
		return p.value(last, c)
	}
	// keys[i] <= level < keys[i+1]
	i := sort.Search(len(p.keys), func(k int) bool { return p.keys[k] > level }) - 1
	k0, k1 := p.keys[i], p.keys[i+1]
	v0, v1 := p.value(i, c), p.value(i+1, c)
	t := (level - k0) / (k1 - k0)

	switch p.mode {
	case Linear:
		return v0 + (v1-v0)*t
	case Exponential:
		if p.exponent == 1 {
			return v0 + (v1-v0)*t
		}
		f := (math.Pow(p.exponent, level-k0) - 1) / (math.Pow(p.exponent, k1-k0) - 1)
		return v0 + (v1-v0)*f
	case Cubic:
		vp, vn := v0, v1
		if i > 0 {
			vp = p.value(i-1, c)
		}
		if i+2 <= last {
			vn = p.value(i+2, c)
		}
		return catmullRom(vp, v0, v1, vn, t)
	}
	return v0
}

func catmullRom(p0, p1, p2, p3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * (2*p1 +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}

// interpolationSource extracts an unresolved definition from an attribute value. Decoded theme
// files yield maps with "zoomLevels"/"values" or "stops" keys.
func interpolationSource(v any) (InterpolatedPropertyDefinition, bool, error) {
	switch t := v.(type) {
	case InterpolatedPropertyDefinition:
		return t, true, nil
	case *InterpolatedPropertyDefinition:
		if t == nil {
			return InterpolatedPropertyDefinition{}, false, nil
		}
		return *t, true, nil
	case map[string]any:
		return definitionFromMap(t)
	}
	return InterpolatedPropertyDefinition{}, false, nil
}

func definitionFromMap(m map[string]any) (InterpolatedPropertyDefinition, bool, error) {
	var def InterpolatedPropertyDefinition
	zooms, hasZooms := m["zoomLevels"]
	values, hasValues := m["values"]
	stops, hasStops := m["stops"]
	if !(hasZooms && hasValues) && !hasStops {
		return def, false, nil
	}

	if mode, ok := m["interpolation"].(string); ok {
		parsed, err := ParseInterpolationMode(mode)
		if err != nil {
			return def, true, fmt.Errorf("%w: %v", ErrInvalidInterpolation, err)
		}
		def.Interpolation = parsed
	}
	if e, ok := toFloat(m["exponent"]); ok {
		def.Exponent = e
	}

	if hasStops {
		list, ok := stops.([]any)
		if !ok {
			return def, true, fmt.Errorf("%w: stops must be a list", ErrInvalidInterpolation)
		}
		for i, s := range list {
			pair, ok := s.([]any)
			if !ok || len(pair) != 2 {
				return def, true, fmt.Errorf("%w: stop %d must be [zoom, value]", ErrInvalidInterpolation, i)
			}
			z, ok := toFloat(pair[0])
			if !ok {
				return def, true, fmt.Errorf("%w: stop %d zoom is not a number", ErrInvalidInterpolation, i)
			}
			def.ZoomLevels = append(def.ZoomLevels, z)
			def.Values = append(def.Values, pair[1])
		}
		return def, true, nil
	}

	zl, ok := zooms.([]any)
	if !ok {
		return def, true, fmt.Errorf("%w: zoomLevels must be a list", ErrInvalidInterpolation)
	}
	for i, z := range zl {
		f, ok := toFloat(z)
		if !ok {
			return def, true, fmt.Errorf("%w: zoom level %d is not a number", ErrInvalidInterpolation, i)
		}
		def.ZoomLevels = append(def.ZoomLevels, f)
	}
	vl, ok := values.([]any)
	if !ok {
		return def, true, fmt.Errorf("%w: values must be a list", ErrInvalidInterpolation)
	}
	def.Values = vl
	return def, true, nil
}

// GetPropertyValue returns prop as a concrete value at level. Interpolated properties are
// sampled; any other value passes through unchanged.
//
// Handing it an unresolved interpolation definition is a programming error and panics: resolve
// definitions with NewInterpolatedProperty, or read attributes from a Technique.
func GetPropertyValue(prop any, level float64) any {
	if p, ok := prop.(*InterpolatedProperty); ok {
		return p.Sample(level)
	}
	if _, isDef, _ := interpolationSource(prop); isDef {
		panic("style: GetPropertyValue called with an unresolved interpolated property definition")
	}
	return prop
}
