package tile

import "github.com/comalice/mapscene/style"

// Phase is a set of geometry kinds materialized together in one loader step.
type Phase []style.GeometryKind

// PhaseList is a tile's incremental build plan.
type PhaseList []Phase

// DefaultPhases builds ground cover first and details last.
func DefaultPhases() PhaseList {
	return PhaseList{
		{style.KindBackground, style.KindGround, style.KindAreas},
		{style.KindLines, style.KindRoads},
		{style.KindBuildings},
		{style.KindLabels, style.KindPois},
		{style.KindDetails},
	}
}

// DefaultBasicKinds are the kinds a tile needs before it looks complete enough to show.
func DefaultBasicKinds() []style.GeometryKind {
	return []style.GeometryKind{style.KindBackground, style.KindGround, style.KindAreas, style.KindLines}
}
