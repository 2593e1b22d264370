package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"codeatlas/internal/catalog"
	"codeatlas/internal/config"
	"codeatlas/internal/slogutil"
)

// newLogger builds the CLI logger from config and verbosity flags. The
// --verbose and --quiet flags override the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slogutil.LevelFromString(cfg.Logging.Level)
	if verbosity > 0 || quiet {
		level = slogutil.LevelFromVerbosity(verbosity, quiet)
	}
	return slogutil.New(os.Stderr, level, cfg.Logging.Format)
}

// openCatalog loads the configuration and opens the store under the repo
// root. Every command goes through here.
func openCatalog(ctx context.Context, readOnly, reset bool) (*catalog.Catalog, *config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(repoRootFlag)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger(cfg)

	path := cfg.Storage.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(repoRootFlag, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, nil, err
	}

	cat, err := catalog.Open(ctx, catalog.Options{
		Path:     path,
		PoolSize: cfg.Storage.PoolSize,
		ReadOnly: readOnly,
		Reset:    reset,
		Workers:  cfg.Assembly.Workers,
		Logger:   logger,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return cat, cfg, logger, nil
}
