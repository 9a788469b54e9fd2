package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/Rrens/smartchat/internal/config"
	"github.com/Rrens/smartchat/internal/domain"
	"github.com/Rrens/smartchat/internal/logger"
	"github.com/Rrens/smartchat/internal/relay"
	"github.com/Rrens/smartchat/internal/render"
	"github.com/Rrens/smartchat/internal/repository"
	"github.com/Rrens/smartchat/internal/widget"
)

// session is an opened chat app plus the resources behind it
type session struct {
	app     *widget.App
	cfg     *config.Config
	store   domain.KVStore
	closers []io.Closer
}

func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// loadConfig reads .env and the YAML config, then applies the command line overrides
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if backendURL != "" {
		cfg.Widget.BackendURL = backendURL
	}
	if storeDriver != "" {
		cfg.Widget.Store.Driver = storeDriver
	}
	if !verbose {
		cfg.Logging.Level = "warn"
	}
	return cfg, nil
}

// openSession wires the client core to the configured store and backend and
// restores the saved sessions. A nil surface draws nothing.
func openSession(ctx context.Context, surface render.Surface) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logCloser, err := logger.Setup(cfg.Logging, os.Getenv("ENV"))
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, closers: []io.Closer{logCloser}}

	store, err := repository.OpenStore(ctx, cfg.Widget.Store, cfg.Redis)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	s.store = store
	s.closers = append(s.closers, store)

	client := relay.NewClient(cfg.Widget.BackendURL, relay.WithTimeout(cfg.LLM.RequestTimeout))
	s.app = widget.New(store, surface, client, widget.Options{
		MaxSessions: cfg.Widget.MaxSessions,
		RevealDelay: cfg.Widget.RevealDelay,
	})

	if err := s.app.Open(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to restore sessions: %w", err)
	}
	return s, nil
}
