package ecs

import (
	"github.com/phanxgames/medusa"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// IntersectionEventType is the Donburi event type for medusa intersection
// events. Subscribe to this in your ECS systems to receive them.
var IntersectionEventType = events.NewEventType[medusa.Event]()

// Visibility mirrors the latest intersection state of an entity's node.
type Visibility struct {
	// Target is the id of the target that reported the entity.
	Target string
	In     bool
	Ratio  float64
	// Frame is the scene frame of the report.
	Frame uint64
}

// VisibilityComponent holds a Visibility on entities that want it updated.
var VisibilityComponent = donburi.NewComponentType[Visibility]()

type donburiDispatcher struct {
	world donburi.World
}

// NewDonburiDispatcher creates a medusa.Dispatcher backed by a Donburi world.
// Events are published to IntersectionEventType and are delivered when the
// world processes its events.
func NewDonburiDispatcher(world donburi.World) medusa.Dispatcher {
	return &donburiDispatcher{world: world}
}

func (d *donburiDispatcher) Dispatch(ev medusa.Event) {
	IntersectionEventType.Publish(d.world, ev)
}

// SyncVisibility subscribes a handler that copies each event into the
// VisibilityComponent of the entity stored in the node's UserData. Events for
// nodes without a live entity, or entities without the component, are
// ignored.
func SyncVisibility(world donburi.World) {
	IntersectionEventType.Subscribe(world, syncVisibility)
}

func syncVisibility(w donburi.World, ev medusa.Event) {
	n := ev.Detail.Target
	if n == nil {
		return
	}
	entity, ok := n.UserData.(donburi.Entity)
	if !ok || !w.Valid(entity) {
		return
	}
	entry := w.Entry(entity)
	if !entry.HasComponent(VisibilityComponent) {
		return
	}
	VisibilityComponent.SetValue(entry, Visibility{
		Target: ev.ID,
		In:     ev.IsIn,
		Ratio:  ev.Detail.IntersectionRatio,
		Frame:  ev.Detail.Time,
	})
}
