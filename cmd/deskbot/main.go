// Deskbot - desktop companion with an animated face.
// Tracks your face through the webcam, listens for voice commands,
// chats through an OpenAI-compatible backend, and talks back.
package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-deskbot/internal/config"
	"github.com/teslashibe/go-deskbot/internal/log"
	"github.com/teslashibe/go-deskbot/pkg/deskbot"
)

func main() {
	cfg := parseFlags()

	level := "info"
	if cfg.Debug {
		level = "debug"
	}
	log.Init(level)

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Warn("OPENAI_API_KEY not set; add it to .env or the environment")
	}

	app, err := deskbot.New(cfg)
	if err != nil {
		stdlog.Fatalf("❌ Configuration error: %v", err)
	}

	if err := app.Init(); err != nil {
		stdlog.Fatalf("❌ Initialization failed: %v", err)
	}
	defer app.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		stdlog.Fatalf("❌ Runtime error: %v", err)
	}
}

// parseFlags parses command line flags and returns configuration.
// Environment overrides are applied later by deskbot.New.
func parseFlags() deskbot.Config {
	cfg := deskbot.DefaultConfig()

	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	port := flag.String("port", cfg.Port, "HTTP port for the face UI")
	camera := flag.Int("camera", cfg.CameraDevice, "Webcam device ID")
	cascade := flag.String("cascade", cfg.CascadePath, "Path to the Haar cascade file")
	envFile := flag.String("env", ".env", "Path to the .env file")
	flag.Parse()

	// Load the .env before the env overrides in deskbot.New read it.
	if err := config.LoadDotEnv(*envFile); err != nil {
		stdlog.Printf("⚠️  Could not load %s: %v", *envFile, err)
	}

	cfg.Debug = *debug
	cfg.Port = *port
	cfg.CameraDevice = *camera
	cfg.CascadePath = *cascade
	return cfg
}
