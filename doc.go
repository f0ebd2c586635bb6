// Package mapscene turns streamed vector map tiles into renderable geometry without stalling
// the frame loop.
//
// The module has two halves:
//   - style: compiles a hierarchical style rule set into cached, zoom-interpolated Techniques
//     and matches them against feature attributes.
//   - tile: per-tile geometry loaders (simple and phased) plus per-frame managers that decide
//     which tiles build how much geometry each frame.
//
// The realtime package provides the fixed-rate frame loop that drives a tile manager and runs
// deferred loader work between frames.
//
// # Example Usage
//
//	theme, _ := style.LoadTheme("theme.yaml")
//	ev, _ := theme.Evaluator("tilezen")
//	techniques := ev.MatchingTechniques(style.Env{"kind": "road", "$zoom": 14})
//
//	mgr := tile.NewPhasedManager(backend)
//	loop := realtime.NewFrameLoop(mgr, visibleTiles, realtime.Config{})
//	mgr.SetFrameRequester(loop)
//	loop.Start(ctx)
//
// Logging is silent by default; see SetLogger.
package mapscene
