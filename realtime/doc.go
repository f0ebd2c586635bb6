// Package realtime drives tile geometry loading from a fixed-rate frame tick.
//
// A FrameLoop owns the frame cadence. Each tick it:
//  1. Collects the tasks deferred since the previous tick
//  2. Orders them by priority, then submission order
//  3. Runs them
//  4. Gives the tile manager one UpdateTiles pass if a frame was requested
//
// Tasks deferred while a tick is running land in the next tick, which is what gives a
// tile.SimpleLoader its one-frame delay before building.
//
// # Example Usage
//
//	loop := realtime.NewFrameLoop(nil, visibleTiles, realtime.Config{
//		TickRate: 16667 * time.Microsecond, // 60 FPS
//	})
//	manager := tile.NewPhasedManager(backend, tile.WithFrameRequester(loop))
//	loop.SetManager(manager)
//	loop.Start(ctx)
//	defer loop.Stop()
//	loop.RequestFrame()
//
// Tests and offline tools can skip Start and call Step to run one tick synchronously.
//
// # Ordering Guarantees
//
// Tasks are ordered deterministically using:
//  1. Priority (higher priority runs first)
//  2. Sequence number (FIFO for same priority)
//  3. Stable sorting (preserves relative order)
//
// Defer and RequestFrame are safe to call from any goroutine. Tasks and the manager only ever
// run on the goroutine executing the tick.
package realtime
