// Package canopy is a retained-mode 2D presentation engine for [Ebitengine].
//
// A [Stage] holds an ordered list of [Layer] values, each holding child
// nodes (sprites or nested layers). The [Engine] owns the stage, delivers
// input to it with hit testing, and runs a frame-rate capped tick that
// updates animations and renders the tree into an offscreen [gg.Context]
// before presenting it on a [Surface].
//
// # Quick start
//
// [Run] opens a window and drives the engine from ebiten's game loop:
//
//	err := canopy.Run(canopy.DefaultConfig(), func(e *canopy.Engine) error {
//		layer := canopy.NewLayer("main")
//		box := canopy.NewSprite("box", canopy.Rect{X: 40, Y: 40, Width: 80, Height: 80})
//		box.OnMouse = func(ev *canopy.Event) { log.Println(ev.Type) }
//		layer.Add(box)
//		e.Stage().AddLayer(layer)
//		return nil
//	})
//
// Without a window, create the engine with [New] and a nil surface, then call
// [Engine.Frame] with your own timestamps. Everything except [Run] works
// headlessly, which is how the tests and the screenshot command drive it.
//
// # Dispatch
//
// Events travel front-to-back: the stage offers them to each layer from the
// top, a layer offers them to its children from the front, and the first
// node that claims an event stops it. Sprites claim pointer events they hit,
// keyboard events when they have a keyboard hook, and notices when they have
// a notice hook. A layer with EventTransparent unset claims whatever its
// children leave. Hidden layers only receive notices.
//
// A pointer hook may call [Event.Capture] to receive every following pointer
// event until the button or touch is released.
//
// # Animation
//
// Animations are attached to sprites with [Sprite.AddAnimation] and advance
// on each tick. All of them share the Stop, Playing and Suspended states;
// suspending records the time, and resuming shifts the time origin by the
// paused duration so progress continues where it left off. The engine
// suspends every animation while the page is hidden (see
// [Engine.SetVisibility]). [KeyframeAnimation] chains animations end to end
// without accumulating drift.
//
// # Logging
//
// canopy is silent until [SetLogger] installs a [log/slog] logger.
//
// [Ebitengine]: https://ebitengine.org
package canopy
