package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/phanxgames/medusa"
)

// maxSimulatedFrames bounds a simulation whose script never finishes.
const maxSimulatedFrames = 100_000

func newSimulateCommand(ctx *commandContext) *cobra.Command {
	var frames int

	cmd := &cobra.Command{
		Use:   "simulate [config.toml]",
		Short: "Run targets against a demo scene and print intersection events",
		Long: `Builds a demo scene (a "list" of card-N boxes, "hud/group/badge-*" boxes
and three m-snake boxes below them) with a 320x240 camera, adds the targets of
the configuration file and runs its script. Without a file the default
"snakes" target is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			scene := buildDemoScene()
			scene.SetLogger(logger)

			cfg := &medusa.Config{}
			if len(args) == 1 {
				if cfg, err = medusa.LoadConfigFile(args[0]); err != nil {
					return err
				}
			}
			targets, err := cfg.TargetConfigs(scene.Root(), nil)
			if err != nil {
				return err
			}
			script, err := cfg.Script()
			if err != nil {
				return err
			}

			m, err := medusa.New(scene, medusa.Options{Targets: targets, Logger: logger})
			if err != nil {
				return errors.Wrap(err, "create manager")
			}
			defer m.Close()

			out := cmd.OutOrStdout()
			subscribe(m, scene, out)
			if script != nil {
				scene.SetScript(script)
			}

			limit := frames
			if limit <= 0 {
				limit = maxSimulatedFrames
				if script == nil {
					limit = 1
				}
			}
			for i := 0; i < limit; i++ {
				if err := scene.Update(); err != nil {
					return err
				}
				if frames <= 0 && script != nil && script.Done() {
					break
				}
			}
			if script != nil && !script.Done() {
				fmt.Fprintf(cmd.ErrOrStderr(), "script unfinished after %d frames\n", scene.Frame())
			}

			fmt.Fprintf(out, "\nAfter %d frames:\n", scene.Frame())
			return m.WriteTable(out)
		},
	}

	cmd.Flags().IntVarP(&frames, "frames", "n", 0, "Number of frames to run (default: until the script finishes)")
	return cmd
}

// subscribe prints every event once: global targets report to the Manager
// emitter, the rest to their container.
func subscribe(m *medusa.Manager, scene *medusa.Scene, out io.Writer) {
	report := func(ev medusa.Event) {
		e := ev.Detail
		state := "out"
		if ev.IsIn {
			state = "in"
		}
		fmt.Fprintf(out, "frame %-5d %-10s %-12s %-3s ratio=%.3f\n",
			e.Time, ev.ID, e.Target.PathFrom(scene.Root()), state, e.IntersectionRatio)
	}

	m.Events().OnIntersection(report)
	seen := make(map[*medusa.Node]bool)
	for _, id := range m.IDs() {
		t, _ := m.Target(id)
		if t.EmitGlobal() || seen[t.Container()] {
			continue
		}
		seen[t.Container()] = true
		t.Container().Events().OnIntersection(report)
	}
}

func buildDemoScene() *medusa.Scene {
	scene := medusa.NewScene()
	scene.NewCamera(medusa.Rect{Width: 320, Height: 240})
	root := scene.Root()

	list := medusa.NewContainer("list")
	for i := range 6 {
		list.AddChild(medusa.NewBox(fmt.Sprintf("card-%d", i+1), 20, 20+float64(i)*160, 280, 120))
	}
	root.AddChild(list)

	hud := medusa.NewContainer("hud")
	group := medusa.NewContainer("group")
	group.AddChild(medusa.NewBox("badge-a", 250, 10, 40, 20))
	group.AddChild(medusa.NewBox("badge-b", 250, 600, 40, 20))
	hud.AddChild(group)
	root.AddChild(hud)

	for i := range 3 {
		root.AddChild(medusa.NewBox(medusa.DefaultSelector, 20+float64(i)*100, 1000, 60, 30))
	}
	return scene
}
