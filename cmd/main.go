package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/vkdrive/vkdrive/internal/services"
	"github.com/vkdrive/vkdrive/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	store, err := shared.NewFileSessionStore("")
	if err != nil {
		logger.Fatalf("failed to initialize session store: %v", err)
	}

	account := services.NewAccountClient(config.Backend.BaseURL, store, nil)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Account:    account,
		Store:      store,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "vkdrive",
		Usage:    "Transfer VK profile photos to Yandex.Disk",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Error("not logged in, run 'vkdrive auth login' first")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
