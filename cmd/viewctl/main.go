// viewctl is a headless companion to the configurator viewer. It lists the
// presets and sequences of a scene, validates scene files, and simulates
// sequence playback without opening a window.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Faultbox/ev-configurator/internal/clock"
	"github.com/Faultbox/ev-configurator/internal/logger"
	"github.com/Faultbox/ev-configurator/internal/scene"
	"github.com/Faultbox/ev-configurator/internal/viewer"
	"github.com/Faultbox/ev-configurator/internal/viewer/sequence"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "presets":
		err = cmdPresets(os.Stdout, args)
	case "sequences", "seq":
		err = cmdSequences(os.Stdout, args)
	case "simulate", "sim":
		err = cmdSimulate(os.Stdout, args)
	case "check":
		err = cmdCheck(os.Stdout, args)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `viewctl - EV configurator scene utility

Usage:
  viewctl <command> [options]

Commands:
  presets   [-scene file]                          List camera presets
  sequences [-scene file]                          List sequences and their steps
  simulate  [-scene file] [-dt 16ms] [-v] <name>   Play a sequence headless and print the timeline
  check     <scene.yaml>                           Validate a scene file

Examples:
  viewctl presets
  viewctl simulate disassembly
  viewctl check configurator.yaml`)
}

// sceneFlag registers -scene on fs and returns a loader for it.
func sceneFlag(fs *flag.FlagSet) func() (*scene.Scene, error) {
	path := fs.String("scene", "", "Scene file merged over the built-in scene")
	return func() (*scene.Scene, error) { return scene.Load(*path) }
}

func cmdPresets(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("presets", flag.ContinueOnError)
	load := sceneFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	sc, err := load()
	if err != nil {
		return err
	}

	for i, name := range sc.Presets.Names() {
		p, _ := sc.Presets.Lookup(name)
		fmt.Fprintf(w, "%2d  %-12s position %s  target %s\n", i+1, name, vec(p.Position.Array()), vec(p.Target.Array()))
	}
	return nil
}

func cmdSequences(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("sequences", flag.ContinueOnError)
	load := sceneFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	sc, err := load()
	if err != nil {
		return err
	}

	for _, name := range sc.SequenceNames() {
		steps := sc.Sequences[name]
		fmt.Fprintf(w, "%s: %d steps, %v\n", name, len(steps), sequence.Span(steps))
		for _, st := range steps {
			fmt.Fprintf(w, "  +%-7v %-16s %-8s over %v\n", st.Delay, st.System, st.Action, st.Duration)
		}
	}
	return nil
}

func cmdSimulate(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	load := sceneFlag(fs)
	dt := fs.Duration("dt", 16*time.Millisecond, "Simulated frame time")
	verbose := fs.Bool("v", false, "Log viewer events to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: viewctl simulate [options] <sequence>")
	}
	if *dt <= 0 {
		return fmt.Errorf("-dt must be positive")
	}
	name := fs.Arg(0)

	sc, err := load()
	if err != nil {
		return err
	}
	steps, ok := sc.Sequences[name]
	if !ok {
		return fmt.Errorf("unknown sequence %q", name)
	}

	level := "error"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		return err
	}
	defer logger.Sync()

	return simulate(w, sc, name, steps, *dt)
}

// simulate plays a sequence on a headless viewer driven by a manual clock,
// printing each step as it fires and every group's final position.
func simulate(w io.Writer, sc *scene.Scene, name string, steps []sequence.Step, dt time.Duration) error {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewManual(start)

	v, err := viewer.New(nil, sc, viewer.Options{
		Clock:  clk,
		Logger: logger.Named("viewer"),
		OnStep: func(st sequence.Step) {
			fmt.Fprintf(w, "  %8v  %-16s %s\n", clk.Now().Sub(start), st.System, st.Action)
		},
	})
	if err != nil {
		return err
	}

	span := sequence.Span(steps)
	fmt.Fprintf(w, "%s: %d steps, %v at %v per frame\n", name, len(steps), span, dt)
	v.PlaySteps(name, steps)

	frames := 0
	for v.IsPlaying() || clk.Now().Sub(start) < span {
		v.Frame(dt.Seconds())
		clk.Advance(dt)
		frames++
	}
	v.Frame(dt.Seconds())

	fmt.Fprintf(w, "finished after %d frames\n", frames)
	for _, g := range sc.Groups {
		pos, _ := v.GroupPosition(g.ID)
		fmt.Fprintf(w, "  %-16s %s\n", g.ID, vec(pos.Array()))
	}
	return nil
}

func cmdCheck(w io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: viewctl check <scene.yaml>")
	}
	sc, err := scene.Load(args[0])
	if err != nil {
		return err
	}

	warnings := 0
	for _, name := range sc.SequenceNames() {
		for i, st := range sc.Sequences[name] {
			if !hasGroup(sc, st.System) {
				fmt.Fprintf(w, "warning: sequence %q step %d: no group %q\n", name, i, st.System)
				warnings++
			}
		}
	}
	fmt.Fprintf(w, "%s: %d presets, %d sequences, %d groups, %d warnings\n",
		args[0], sc.Presets.Len(), len(sc.Sequences), len(sc.Groups), warnings)
	return nil
}

func hasGroup(sc *scene.Scene, id string) bool {
	for _, g := range sc.Groups {
		if g.ID == id {
			return true
		}
	}
	return false
}

func vec(v [3]float32) string {
	return fmt.Sprintf("(%6.2f, %6.2f, %6.2f)", v[0], v[1], v[2])
}
