package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/playmatatu/ballpit/internal/config"
	"github.com/playmatatu/ballpit/internal/game"
	"github.com/playmatatu/ballpit/internal/terminal"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	// The terminal belongs to the renderer; logs go to a file.
	logFile, err := os.OpenFile("ballpit-tui.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to init screen: %v", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	phys := game.PhysicsFromConfig(cfg)
	session := game.NewSession(ctx, game.SessionOptions{
		ID:             "local",
		Physics:        phys,
		Surface:        game.Surface{Width: cfg.SurfaceWidth, Height: cfg.SurfaceHeight},
		FrameRate:      cfg.FrameRate,
		ClickThreshold: time.Duration(cfg.ClickThresholdMs) * time.Millisecond,
		BallCount:      cfg.BallCount,
		MinRadius:      cfg.BallMinRadius,
		MaxRadius:      cfg.BallMaxRadius,
		Seed:           time.Now().UnixNano(),
	})
	defer session.Close()

	app := terminal.NewApp(screen, session)
	clicker := terminal.NewClicker(phys.SpeedLimit)
	defer clicker.Close()

	if err := session.Attach(ctx, app.Renderer()); err != nil {
		log.Fatalf("Failed to attach renderer: %v", err)
	}
	if err := session.OnCollision(ctx, clicker.Collision); err != nil {
		log.Fatalf("Failed to attach sound: %v", err)
	}
	if err := session.Start(ctx); err != nil {
		log.Fatalf("Failed to start simulation: %v", err)
	}

	log.Printf("[TUI] started %d bodies on %.0fx%.0f", cfg.BallCount, cfg.SurfaceWidth, cfg.SurfaceHeight)
	app.Run(ctx)
	log.Printf("[TUI] stopped (%+v)", session.Stats())
}
