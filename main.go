package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"camsync/app"
	"camsync/clock"
	"camsync/hal"
	"camsync/internal/config"
	"camsync/internal/journal"
	"camsync/internal/logging"
	"camsync/render"
)

func main() {
	var (
		configDir string
		headless  bool
		hz        int
		ticks     uint64
		cadence   int
	)
	flag.StringVar(&configDir, "config", ".", "Directory containing camsync.cfg.json.")
	flag.BoolVar(&headless, "headless", false, "Run without a window.")
	flag.IntVar(&hz, "hz", 60, "Step rate in headless mode.")
	flag.Uint64Var(&ticks, "ticks", 0, "Stop after N steps in headless mode (0 = run forever).")
	flag.IntVar(&cadence, "cadence", 0, "Render cadence in milliseconds (overrides config).")
	flag.Parse()

	if err := run(configDir, headless, hz, ticks, cadence); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configDir string, headless bool, hz int, ticks uint64, cadence int) error {
	if err := config.Load(configDir); err != nil {
		return err
	}
	settings, err := config.Get()
	if err != nil {
		return err
	}
	if cadence > 0 {
		settings.CadenceMs = cadence
	}

	log := logging.New(settings.LogLevel)

	var j *journal.Journal
	if settings.Journal.Enabled {
		j, err = journal.Open(settings.Journal.Path, log)
		if err != nil {
			return err
		}
		defer j.Close()
	}

	lay := render.Layout{Cell: settings.Display.Cell, Margin: settings.Display.Margin}
	newApp := func(h hal.HAL) func() error {
		return app.New(h, app.Config{
			CadenceMillis: settings.CadenceMs,
			Layout:        lay,
			Clock:         clock.System,
			Journal:       j,
			Log:           log,
		})
	}

	if headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err := hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{
			Width:  lay.Width(),
			Height: lay.Height(),
			Hz:     hz,
			Ticks:  ticks,
		})
		if err == context.Canceled {
			return nil
		}
		return err
	}

	return hal.RunWindow(newApp, hal.WindowConfig{
		Width:      lay.Width(),
		Height:     lay.Height(),
		Scale:      settings.Display.Scale,
		Fullscreen: settings.Display.Fullscreen,
	})
}
