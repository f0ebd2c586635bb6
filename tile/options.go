package tile

import "github.com/comalice/mapscene/style"

// Option configures a PhasedManager.
type Option func(*PhasedManager)

// DefaultMaxTilesPerFrame is the dynamic-mode budget used when none is configured.
const DefaultMaxTilesPerFrame = 5

// WithPhases sets the build plan of new loaders.
func WithPhases(phases PhaseList) Option {
	return func(m *PhasedManager) {
		m.phases = phases
	}
}

// WithBasicKinds sets the kinds a loader needs to count as basic-loaded.
func WithBasicKinds(kinds ...style.GeometryKind) Option {
	return func(m *PhasedManager) {
		m.basicKinds = kinds
	}
}

// WithMaxTilesPerFrame caps how many tiles advance per frame. Values <= 0 select
// DefaultMaxTilesPerFrame.
func WithMaxTilesPerFrame(n int) Option {
	return func(m *PhasedManager) {
		if n <= 0 {
			n = DefaultMaxTilesPerFrame
		}
		m.maxTilesPerFrame = n
	}
}

// WithFrameRequester sets who is asked for another frame while tiles are incomplete.
func WithFrameRequester(r FrameRequester) Option {
	return func(m *PhasedManager) {
		m.requester = r
	}
}

// WithInteractionMode sets the initial interaction mode.
func WithInteractionMode(mode InteractionMode) Option {
	return func(m *PhasedManager) {
		m.mode = mode
	}
}
