package tile

import "github.com/comalice/mapscene/style"

// Backend assembles drawable objects from raw buffers and techniques and attaches them to the
// tile. Filters restrict a call to the techniques it should handle.
type Backend interface {
	CreateBackground(t Tile)
	CreateObjects(t Tile, d *DecodedTile, filter TechniqueFilter)
	CreateTextElements(t Tile, d *DecodedTile, filter TechniqueFilter)
	PreparePois(t Tile, d *DecodedTile)
}

// TechniqueFilter selects techniques.
type TechniqueFilter func(t *style.Technique) bool

// AllObjects accepts every non-text technique.
func AllObjects(t *style.Technique) bool { return !t.IsText() }

// ObjectFilter accepts the non-text techniques of kind.
func ObjectFilter(kind style.GeometryKind) TechniqueFilter {
	return func(t *style.Technique) bool {
		return t.Kind == kind && !t.IsText()
	}
}

// TextFilter accepts every text technique.
func TextFilter(t *style.Technique) bool {
	return t.IsText()
}

// kindBuilder materializes one geometry kind of a tile.
type kindBuilder func(b Backend, t Tile, d *DecodedTile, kind style.GeometryKind)

var kindBuilders = map[style.GeometryKind]kindBuilder{
	style.KindBackground: func(b Backend, t Tile, _ *DecodedTile, _ style.GeometryKind) {
		b.CreateBackground(t)
	},
	style.KindLabels: func(b Backend, t Tile, d *DecodedTile, _ style.GeometryKind) {
		b.CreateTextElements(t, d, TextFilter)
	},
	style.KindPois: func(b Backend, t Tile, d *DecodedTile, _ style.GeometryKind) {
		b.PreparePois(t, d)
	},
}

// buildKind dispatches kind to its builder. Kinds without a dedicated builder are plain objects.
func buildKind(b Backend, t Tile, d *DecodedTile, kind style.GeometryKind) {
	if build, ok := kindBuilders[kind]; ok {
		build(b, t, d, kind)
		return
	}
	b.CreateObjects(t, d, ObjectFilter(kind))
}
