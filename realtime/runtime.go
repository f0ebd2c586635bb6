package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/comalice/mapscene/tile"
)

var (
	// ErrQueueFull is returned by Defer when a tick already has MaxTasksPerTick tasks queued.
	ErrQueueFull = errors.New("realtime: task queue full")
	// ErrRunning is returned by Start on a loop that is already running.
	ErrRunning = errors.New("realtime: frame loop already running")
)

// Config configures a FrameLoop.
type Config struct {
	TickRate        time.Duration // Fixed tick rate (default: 60 FPS)
	MaxTasksPerTick int           // Task queue capacity (default: 1000)
	// Continuous updates the manager every tick instead of only on request.
	Continuous bool
}

// FrameLoop runs deferred tasks and tile manager updates on a fixed tick.
type FrameLoop struct {
	source     func() []tile.Tile
	tickRate   time.Duration
	continuous bool

	// tickMu serializes ticks between Step and the ticker goroutine.
	tickMu  sync.Mutex
	manager tile.Manager

	mu             sync.Mutex
	batch          []Task
	sequenceNum    uint64
	frameRequested bool
	tickNum        uint64

	ticker     *time.Ticker
	tickCancel context.CancelFunc
	stopped    chan struct{}
}

var (
	_ tile.Scheduler      = (*FrameLoop)(nil)
	_ tile.FrameRequester = (*FrameLoop)(nil)
)

// NewFrameLoop returns a stopped loop that feeds source() to manager on each requested frame.
// manager may be nil and set later with SetManager.
func NewFrameLoop(manager tile.Manager, source func() []tile.Tile, cfg Config) *FrameLoop {
	if cfg.MaxTasksPerTick <= 0 {
		cfg.MaxTasksPerTick = 1000
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 16667 * time.Microsecond
	}
	return &FrameLoop{
		source:     source,
		tickRate:   cfg.TickRate,
		continuous: cfg.Continuous,
		manager:    manager,
		batch:      make([]Task, 0, cfg.MaxTasksPerTick),
	}
}

// SetManager replaces the manager driven by the loop.
func (l *FrameLoop) SetManager(m tile.Manager) {
	l.tickMu.Lock()
	defer l.tickMu.Unlock()
	l.manager = m
}

// Start runs ticks on a background goroutine until ctx is done or Stop is called. Either way the
// loop may be started again afterwards.
func (l *FrameLoop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tickCancel != nil {
		return ErrRunning
	}

	tickCtx, cancel := context.WithCancel(ctx)
	l.tickCancel = cancel
	l.ticker = time.NewTicker(l.tickRate)
	l.stopped = make(chan struct{})

	go l.tickLoop(tickCtx, l.ticker, l.stopped)
	return nil
}

// Stop halts the tick goroutine and waits for it to exit. Stopping a stopped loop is a no-op.
// Stop must not be called from a task or from the manager.
func (l *FrameLoop) Stop() error {
	l.mu.Lock()
	cancel, ticker, stopped := l.tickCancel, l.ticker, l.stopped
	l.tickCancel, l.ticker, l.stopped = nil, nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	ticker.Stop()
	<-stopped
	return nil
}

// tickLoop runs until ctx is done. When it exits on its own (parent ctx cancelled) it clears the
// running state so the loop can be started again without a Stop.
func (l *FrameLoop) tickLoop(ctx context.Context, ticker *time.Ticker, stopped chan struct{}) {
	defer func() {
		l.mu.Lock()
		if l.stopped == stopped {
			l.tickCancel()
			ticker.Stop()
			l.tickCancel, l.ticker, l.stopped = nil, nil, nil
		}
		l.mu.Unlock()
		close(stopped)
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Step()
		}
	}
}

// Defer queues task for the next tick.
func (l *FrameLoop) Defer(task func()) error {
	return l.DeferWithPriority(task, 0)
}

// DeferWithPriority queues task for the next tick ahead of lower-priority tasks.
func (l *FrameLoop) DeferWithPriority(task func(), priority int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.batch) >= cap(l.batch) {
		return ErrQueueFull
	}
	l.batch = append(l.batch, Task{
		Run:         task,
		SequenceNum: l.sequenceNum,
		Priority:    priority,
	})
	l.sequenceNum++
	return nil
}

// RequestFrame asks for a manager update on the next tick.
func (l *FrameLoop) RequestFrame() {
	l.mu.Lock()
	l.frameRequested = true
	l.mu.Unlock()
}

// TickNumber returns the number of completed ticks.
func (l *FrameLoop) TickNumber() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tickNum
}

// Pending returns the number of tasks queued for the next tick.
func (l *FrameLoop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.batch)
}
