package style

import (
	"fmt"
	"sort"
	"strings"
)

// GeometryKind is the coarse category of a Technique. Kinds group techniques for phased
// construction and visibility filtering.
type GeometryKind string

const (
	KindBackground GeometryKind = "background"
	KindGround     GeometryKind = "ground"
	KindAreas      GeometryKind = "area"
	KindLines      GeometryKind = "line"
	KindRoads      GeometryKind = "road"
	KindBuildings  GeometryKind = "building"
	KindLabels     GeometryKind = "label"
	KindPois       GeometryKind = "poi"
	KindDetails    GeometryKind = "detail"
)

// AllKinds lists every GeometryKind in build order.
var AllKinds = []GeometryKind{
	KindBackground, KindGround, KindAreas, KindLines, KindRoads,
	KindBuildings, KindLabels, KindPois, KindDetails,
}

var kindAliases = map[string]GeometryKind{
	"background": KindBackground,
	"ground":     KindGround,
	"terrain":    KindGround,
	"area":       KindAreas,
	"areas":      KindAreas,
	"water":      KindAreas,
	"line":       KindLines,
	"lines":      KindLines,
	"border":     KindLines,
	"road":       KindRoads,
	"roads":      KindRoads,
	"building":   KindBuildings,
	"buildings":  KindBuildings,
	"label":      KindLabels,
	"labels":     KindLabels,
	"poi":        KindPois,
	"pois":       KindPois,
	"detail":     KindDetails,
	"details":    KindDetails,
}

// ParseGeometryKind resolves a kind name, accepting plural and common alias spellings.
func ParseGeometryKind(s string) (GeometryKind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown geometry kind %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler, used by both the YAML and JSON decoders.
func (k *GeometryKind) UnmarshalText(text []byte) error {
	parsed, err := ParseGeometryKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// techniqueKinds maps technique names to the kind used when no "kind" attribute is given.
var techniqueKinds = map[string]GeometryKind{
	"background":       KindBackground,
	"terrain":          KindGround,
	"fill":             KindAreas,
	"standard":         KindAreas,
	"shader":           KindAreas,
	"line":             KindLines,
	"solid-line":       KindLines,
	"dashed-line":      KindLines,
	"segments":         KindLines,
	"extruded-line":    KindBuildings,
	"extruded-polygon": KindBuildings,
	"text":             KindLabels,
	"labeled-icon":     KindLabels,
	"line-marker":      KindLabels,
	"squares":          KindPois,
	"circles":          KindPois,
	"poi":              KindPois,
}

// DefaultKind returns the kind for a technique name that carries no explicit kind.
// Unknown names fall into KindDetails.
func DefaultKind(techniqueName string) GeometryKind {
	if k, ok := techniqueKinds[techniqueName]; ok {
		return k
	}
	return KindDetails
}

// IsTextTechnique reports whether a technique name produces text elements.
func IsTextTechnique(name string) bool {
	switch name {
	case "text", "labeled-icon", "line-marker":
		return true
	}
	return false
}

// GeometryKindSet is an unordered set of kinds.
type GeometryKindSet map[GeometryKind]struct{}

// NewGeometryKindSet returns a set holding kinds.
func NewGeometryKindSet(kinds ...GeometryKind) GeometryKindSet {
	s := make(GeometryKindSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

func (s GeometryKindSet) Add(k GeometryKind) { s[k] = struct{}{} }

func (s GeometryKindSet) Has(k GeometryKind) bool {
	_, ok := s[k]
	return ok
}

func (s GeometryKindSet) Len() int { return len(s) }

// HasAll reports whether every kind in other is in s.
func (s GeometryKindSet) HasAll(other GeometryKindSet) bool {
	for k := range other {
		if !s.Has(k) {
			return false
		}
	}
	return true
}

// Kinds returns the members sorted by name.
func (s GeometryKindSet) Kinds() []GeometryKind {
	out := make([]GeometryKind, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
