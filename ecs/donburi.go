package ecs

import (
	"github.com/phanxgames/canopy"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// Event is a copy of a canopy event taken at emit time. canopy events are
// mutable and owned by the engine, so the bridge never publishes them
// directly.
type Event struct {
	Type      string
	Kind      canopy.EventKind
	Timestamp float64
	Payload   any

	// NodeID is the ID of the claiming node, or "" when nothing claimed it.
	NodeID string
	// Entity is the entity bound to the claiming node, or donburi.Null.
	Entity donburi.Entity

	X, Y      float64
	Button    canopy.MouseButton
	Key       string
	Modifiers canopy.KeyModifiers
}

// EventType is the Donburi event type the bridge publishes to.
var EventType = events.NewEventType[Event]()

// DefaultEvents are the engine events a bridge forwards when none are named.
var DefaultEvents = []string{
	canopy.EventMouseDown, canopy.EventMouseUp, canopy.EventMouseMove,
	canopy.EventMouseEnter, canopy.EventMouseLeave,
	canopy.EventTouchStart, canopy.EventTouchMove, canopy.EventTouchEnd,
	canopy.EventKeyDown, canopy.EventKeyUp,
	canopy.EventVisible, canopy.EventHidden,
	canopy.EventReady, canopy.EventFault, canopy.EventShutdown,
}

// Bridge forwards engine events to a Donburi world.
type Bridge struct {
	world    donburi.World
	subs     []canopy.Subscription
	entities map[canopy.Node]donburi.Entity
}

// NewBridge subscribes to names on e, or to DefaultEvents when names is empty.
func NewBridge(world donburi.World, e *canopy.Engine, names ...string) *Bridge {
	if len(names) == 0 {
		names = DefaultEvents
	}
	b := &Bridge{world: world, entities: make(map[canopy.Node]donburi.Entity)}
	for _, name := range names {
		b.subs = append(b.subs, e.Events().On(name, b.publish))
	}
	return b
}

// Bind associates node with entity. Events claimed by node carry entity.
// Bindings are per node, so nodes sharing an ID under different parents
// keep their own entities.
func (b *Bridge) Bind(node canopy.Node, entity donburi.Entity) {
	b.entities[node] = entity
}

// Unbind drops the association for node.
func (b *Bridge) Unbind(node canopy.Node) {
	delete(b.entities, node)
}

// Close unsubscribes from the engine.
func (b *Bridge) Close() {
	for _, s := range b.subs {
		s.Remove()
	}
	b.subs = nil
}

func (b *Bridge) publish(ev *canopy.Event) {
	out := Event{
		Type:      ev.Type,
		Kind:      ev.Kind,
		Timestamp: ev.Timestamp,
		Payload:   ev.Payload,
		Entity:    donburi.Null,
		X:         ev.X,
		Y:         ev.Y,
		Button:    ev.Button,
		Key:       ev.Key,
		Modifiers: ev.Modifiers,
	}
	if ev.Target != nil {
		out.NodeID = ev.Target.ID()
		if ent, ok := b.entities[ev.Target]; ok && b.world.Valid(ent) {
			out.Entity = ent
		}
	}
	EventType.Publish(b.world, out)
}
