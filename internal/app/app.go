// Package app wires configuration, logging, storage, hashing and approval
// into ready-to-use services.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/credkeeper/internal/approval"
	"github.com/dmitrijs2005/credkeeper/internal/config"
	"github.com/dmitrijs2005/credkeeper/internal/hashing"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/services"
	"github.com/dmitrijs2005/credkeeper/internal/storage"
)

// Options carries what cannot come from Config.
type Options struct {
	// LogOutput receives log records; os.Stderr when nil.
	LogOutput io.Writer
	// Supervisor answers approval requests in prompt mode.
	Supervisor approval.Func
}

type App struct {
	Config        *config.Config
	Logger        logging.Logger
	Registrar     *services.Registrar
	Authenticator *services.Authenticator

	closer io.Closer
}

// New opens the store described by cfg and builds the services on top of
// it. The caller must Close the App.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}

	logger, err := logging.New(logging.Options{
		Backend: cfg.LogBackend,
		Format:  cfg.LogFormat,
		Level:   cfg.LogLevel,
	}, out)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	hasher, err := hashing.New(cfg)
	if err != nil {
		return nil, err
	}

	approver, err := approval.New(cfg, opts.Supervisor, logger)
	if err != nil {
		return nil, fmt.Errorf("approval init error: %w", err)
	}

	repo, closer, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	logger.Debug(ctx, "store ready", "backend", cfg.Backend, "path", cfg.DatabasePath,
		"hash", cfg.HashAlgorithm, "approval", cfg.ApprovalMode)

	return &App{
		Config:        cfg,
		Logger:        logger,
		Registrar:     services.NewRegistrar(repo, hasher, approver, cfg, logger),
		Authenticator: services.NewAuthenticator(repo, hasher, logger),
		closer:        closer,
	}, nil
}

// Close releases the store and flushes buffered logs.
func (a *App) Close() error {
	err := a.closer.Close()
	if s, ok := a.Logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return err
}
