package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/strideworks/stride/internal/cli"
	"github.com/strideworks/stride/internal/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := cli.NewRootCmd(cfg).Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
