package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli"

	"github.com/valerio/go-tempo/tempo"
	"github.com/valerio/go-tempo/tempo/backend"
	"github.com/valerio/go-tempo/tempo/backend/headless"
	"github.com/valerio/go-tempo/tempo/backend/terminal"
	"github.com/valerio/go-tempo/tempo/descriptor"
	"github.com/valerio/go-tempo/tempo/timing"
)

//go:embed demo.yaml
var demoScene []byte

func main() {
	app := cli.NewApp()
	app.Name = "tempo"
	app.Description = "Plays tween and timer scenes frame by frame"
	app.Usage = "tempo [options] [scene.yaml]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "descriptor",
			Usage: "Path to the scene descriptor (default: built-in demo)",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a terminal interface, logging progress instead",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "log-every",
			Usage: "Log the scene every N frames in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.Float64Flag{
			Name:  "fps",
			Usage: "Target frame rate (default: descriptor fps, then 60)",
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame limiter: adaptive, ticker or none",
			Value: "adaptive",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
			Value: "info",
		},
		cli.StringFlag{
			Name:  "env-file",
			Usage: "Environment file loaded before reading the descriptor",
			Value: ".env",
		},
	}
	app.Action = runScene

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running scene", "error", err)
		os.Exit(1)
	}
}

func runScene(c *cli.Context) error {
	level, err := parseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	setupLogger(level)

	if err := loadDotEnv(c.String("env-file")); err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}

	path := c.String("descriptor")
	if path == "" && c.NArg() > 0 {
		path = c.Args().Get(0)
	}
	desc, err := loadDescriptor(path)
	if err != nil {
		return err
	}

	fps := resolveFPS(c.Float64("fps"), desc.FPS)
	config := backend.Config{
		Title:     sceneTitle(path),
		TargetFPS: fps,
		ShowHelp:  true,
	}

	build := func(r *tempo.Runner) error {
		scene, err := desc.Build(nil)
		if err != nil {
			return err
		}
		r.AddGroup(scene.Group)
		for _, t := range scene.Timers {
			r.AddTimer(t)
		}
		return nil
	}

	opts := []tempo.Option{tempo.WithRestart(build)}
	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames option with a positive value")
		}
		opts = append(opts,
			tempo.WithBackend(headless.New(frames, c.Int("log-every")), config),
			tempo.WithNow(tempo.FixedStep(fps)))
	} else {
		limiter, err := timing.New(c.String("limiter"), fps)
		if err != nil {
			return err
		}
		if s, ok := limiter.(interface{ Stop() }); ok {
			defer s.Stop()
		}
		opts = append(opts,
			tempo.WithBackend(terminal.New(terminal.WithLogLevel(level)), config),
			tempo.WithLimiter(limiter))
	}

	runner := tempo.New(opts...)
	if err := build(runner); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("Playing scene", "title", config.Title, "fps", fps, "headless", c.Bool("headless"))
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func setupLogger(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		}),
	))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func loadDescriptor(path string) (descriptor.Descriptor, error) {
	if path == "" {
		return descriptor.Parse(demoScene)
	}
	return descriptor.Load(path)
}

func resolveFPS(flag, fromDescriptor float64) float64 {
	switch {
	case flag > 0:
		return flag
	case fromDescriptor > 0:
		return fromDescriptor
	}
	return timing.DefaultFPS
}

func sceneTitle(path string) string {
	if path == "" {
		return "demo"
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
