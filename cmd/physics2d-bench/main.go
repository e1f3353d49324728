// Command physics2d-bench runs a fixed-step scene (a stack of bodies
// dropped onto a floor) and prints island/sleep statistics once the run
// ends. It exists to exercise Config's YAML load path
// against a real run, not to benchmark in any rigorous sense.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hollow-engine/physics2d"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file (see physics2d.Config)")
	seconds := flag.Float64("seconds", 3.0, "simulated seconds to run")
	flag.Parse()

	cfg := physics2d.DefaultConfig()
	if *configPath != "" {
		loaded, err := physics2d.LoadConfigYAML(*configPath)
		if err != nil {
			slog.Error("physics2d-bench: loading config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	engine := physics2d.NewEngine(cfg)

	if _, err := engine.AddRect(mgl64.Vec2{640, 600}, 900, 40, 1, 0.1, 0.8, true); err != nil {
		slog.Error("physics2d-bench: adding floor", "error", err)
		os.Exit(1)
	}
	if _, err := engine.AddRect(mgl64.Vec2{640, 540}, 40, 40, 1, 0.1, 0.5, false); err != nil {
		slog.Error("physics2d-bench: adding lower box", "error", err)
		os.Exit(1)
	}
	if _, err := engine.AddRect(mgl64.Vec2{640, 500}, 40, 40, 1, 0.1, 0.5, false); err != nil {
		slog.Error("physics2d-bench: adding upper box", "error", err)
		os.Exit(1)
	}

	const frameDt = 1.0 / 60.0
	frames := int(*seconds / frameDt)
	for i := 0; i < frames; i++ {
		engine.Update(frameDt)
	}

	fmt.Printf("steps elapsed:   %d\n", engine.StepsElapsed())
	fmt.Printf("time elapsed:    %.3fs\n", engine.TimeElapsed())
	fmt.Printf("active islands:  %d\n", len(engine.Islands()))
	fmt.Printf("active contacts: %d\n", len(engine.Collisions()))
	for _, b := range engine.Bodies() {
		fmt.Printf("body %d: pos=%v sleeping=%v\n", b.ID, b.Position, b.Sleeping)
	}
}
