package app

import (
	"io"
	"log/slog"

	"github.com/vk/stackformgo/internal/config"
	"github.com/vk/stackformgo/internal/provider"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle: a loader for stack files, a provider client, and an isolated
// logger writing to outW.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	loader config.Loader
	client provider.Client
}

// NewApp is the constructor for the main application. All heavy lifting
// (loading, graph construction, apply) happens in Run so every failure
// surfaces as a regular error.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, client provider.Client) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		loader: loader,
		client: client,
	}
}
