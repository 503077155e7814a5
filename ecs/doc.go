// Package ecs provides ECS adapters for medusa's intersection events.
//
// The primary adapter is [NewDonburiDispatcher], which publishes medusa
// events into a [Donburi] world as typed events. Subscribe to
// [IntersectionEventType] in your ECS systems to receive them, or register
// [SyncVisibility] to keep a [Visibility] component up to date on entities
// whose nodes carry their entity in Node.UserData.
//
// Usage:
//
//	m, err := medusa.New(scene, medusa.Options{
//		Global:  ecs.NewDonburiDispatcher(world),
//		Targets: []medusa.TargetConfig{{ID: "enemies", Selector: "enemy-*", EmitGlobal: true}},
//	})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
