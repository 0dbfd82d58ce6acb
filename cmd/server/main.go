package main

import (
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/TechHon-P/othello-game/internal"
	"github.com/TechHon-P/othello-game/internal/config"
)

func main() {
	// A .env file is optional, the environment may be set up otherwise
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Failed to load .env file", "error", err)
		os.Exit(1)
	}

	config.SetLogLevel()

	// Setup app
	app, cfg := internal.SetupApp()

	// Close sessions and connections on interrupt
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		<-signals

		slog.Info("Shutting down")
		if err := app.Shutdown(); err != nil {
			slog.Error("Failed to shut down", "error", err)
		}
	}()

	// Start server
	log.Fatal(app.Listen(cfg.Address()))
}
