package realtime

import (
	"fmt"

	"github.com/comalice/mapscene"
	"github.com/comalice/mapscene/tile"
)

// Step runs one tick synchronously.
func (l *FrameLoop) Step() {
	l.tickMu.Lock()
	defer l.tickMu.Unlock()

	l.processTick()

	l.mu.Lock()
	l.tickNum++
	l.mu.Unlock()
}

// processTick runs one complete tick. A panicking task is logged and skipped; the rest of the
// tick still runs.
func (l *FrameLoop) processTick() {
	// Phase 1: Collect tasks and the frame request atomically
	tasks, frame := l.collect()

	// Phase 2: Sort for deterministic order
	sortTasks(tasks)

	// Phase 3: Run deferred work
	for _, t := range tasks {
		l.guard("task", t.Run)
	}

	// Phase 4: Drive the manager
	if (frame || l.continuous) && l.manager != nil {
		l.guard("manager", func() {
			var tiles []tile.Tile
			if l.source != nil {
				tiles = l.source()
			}
			l.manager.UpdateTiles(tiles)
		})
	}
}

func (l *FrameLoop) guard(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			mapscene.Logger().Warn("realtime: recovered panic", "in", what, "tick", l.TickNumber(), "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

// collect atomically takes the task batch and clears the frame request.
func (l *FrameLoop) collect() ([]Task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tasks := l.batch
	l.batch = make([]Task, 0, cap(l.batch))
	frame := l.frameRequested
	l.frameRequested = false
	return tasks, frame
}
