// Package medusa tracks when elements of an [Ebitengine] scene enter and
// leave view, and turns those transitions into events and callbacks.
//
// Elements are [Node] values in a [Scene] tree. Nodes are grouped into named
// targets; each target owns one intersection detector configured with its
// thresholds and root margin. A [Manager] creates and destroys detectors as
// targets gain and lose nodes, so a target with nothing to observe never
// holds a detector.
//
// # Quick start
//
//	scene := medusa.NewScene()
//	scene.NewCamera(medusa.Rect{Width: 640, Height: 480})
//
//	list := medusa.NewContainer("list")
//	scene.Root().AddChild(list)
//	for i := range 20 {
//		list.AddChild(medusa.NewBox("m-snake", 0, float64(i)*120, 200, 100))
//	}
//
//	m, err := medusa.New(scene, medusa.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	m.Events().OnIntersection(func(ev medusa.Event) {
//		fmt.Println(ev.ID, ev.Detail.Target.Name, ev.IsIn)
//	})
//
// With no configured targets a Manager creates the target "snakes" that
// observes every node named "m-snake". Events of a target go to its
// container's [Node.Events] emitter unless [TargetConfig].EmitGlobal is set.
//
// Detection runs inside [Scene.Update]: transforms and cameras are refreshed,
// then every connected [IntersectionObserver] reports the nodes whose
// threshold index or intersecting flag changed. [Run] opens a window and
// drives Update for you; tests and tools may call Update directly.
//
// # Modes
//
// [ModeDefault] keeps nodes observed and reports every change. [ModeOnce]
// drops a node after its first intersecting report and releases the target
// when no node is left. [ModeByPixels] replaces the thresholds with
// [ThresholdsByPixels].
//
// # Configuration
//
// Targets can be declared in TOML and loaded with [LoadConfig]; see
// [Config]. The medusactl command validates configuration files and replays
// camera scripts against a synthetic scene.
//
// [Ebitengine]: https://ebitengine.org
package medusa
