package tile

import "github.com/comalice/mapscene/style"

// DecodedTile is the immutable payload the decoder produces for one tile. Geometry entries
// reference Techniques by index.
type DecodedTile struct {
	Techniques     []*style.Technique
	Geometries     []Geometry
	TextGeometries []TextGeometry
	PathGeometries []PathGeometry
	PoiGeometries  []PoiGeometry
}

// GeometryType is the primitive type of a raw geometry buffer.
type GeometryType int

const (
	Polygons GeometryType = iota
	Polylines
	Points
	ExtrudedPolygons
)

// Geometry is a raw vertex/index buffer split into groups that each draw with one technique.
type Geometry struct {
	Type     GeometryType
	Vertices []float32
	Indices  []uint32
	Groups   []Group
}

type Group struct {
	TechniqueIndex int
	Start          int
	Count          int
}

type TextGeometry struct {
	TechniqueIndex int
	Positions      []float64
	Texts          []string
}

type PathGeometry struct {
	TechniqueIndex int
	Path           []float64
	Text           string
}

type PoiGeometry struct {
	TechniqueIndex int
	Positions      []float64
	Names          []string
	ImageTextures  []string
}

// Technique returns the technique at index i, or nil when out of range.
func (d *DecodedTile) Technique(i int) *style.Technique {
	if i < 0 || i >= len(d.Techniques) {
		return nil
	}
	return d.Techniques[i]
}

// Kinds returns the geometry kinds of every technique in the payload.
func (d *DecodedTile) Kinds() style.GeometryKindSet {
	kinds := style.NewGeometryKindSet()
	for _, t := range d.Techniques {
		if t != nil {
			kinds.Add(t.Kind)
		}
	}
	return kinds
}
