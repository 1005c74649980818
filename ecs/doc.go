// Package ecs bridges canopy engine events into a [Donburi] world.
//
// A [Bridge] subscribes to the engine emitter and republishes every event it
// sees as an [Event] value on [EventType]. Nodes bound to entities carry the
// entity along, so ECS systems can react to input on their own sprites.
//
// Usage:
//
//	bridge := ecs.NewBridge(world, engine)
//	bridge.Bind(sprite, entity)
//	ecs.EventType.Subscribe(world, onEvent)
//	// each ECS update:
//	ecs.EventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
