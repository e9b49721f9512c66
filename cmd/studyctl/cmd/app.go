package cmd

import (
	"context"

	"github.com/templui/studyhall/internal/app"
	"github.com/templui/studyhall/internal/config"
	"github.com/templui/studyhall/internal/logger"
)

// Loader supplies the configuration a command runs against.
type Loader func() *config.Config

func openApp(ctx context.Context, load Loader) (*app.App, error) {
	cfg := load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	return app.New(ctx, cfg)
}
