// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/sema/internal/adapters/repository"
	"github.com/okian/sema/internal/domain/materiality"
	"github.com/okian/sema/pkg/logger"
)

// Service composes the scoring engines with the client store.
type Service struct {
	mu sync.RWMutex

	// Core components
	kv        repository.KV
	store     *repository.Store
	clients   *repository.ClientRegistry
	templates *repository.TemplateCatalog
	gri       materiality.Disclosures

	// Configuration
	demoClientID string
	griExtra     map[string]string

	// State
	started bool

	// Logging
	logger logger.Logger

	newID func() string
	now   func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithKV sets the persistence backend. Defaults to an in-memory KV.
func WithKV(kv repository.KV) Option {
	return func(s *Service) {
		if kv != nil {
			s.kv = kv
		}
	}
}

// WithDemoClientID overrides the reserved demo client id.
func WithDemoClientID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.demoClientID = id
		}
	}
}

// WithGRIDisclosures extends the built-in GRI disclosure table.
func WithGRIDisclosures(extra map[string]string) Option {
	return func(s *Service) {
		s.griExtra = extra
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		demoClientID: repository.DefaultDemoClientID,
		logger:       nil, // Will be replaced when service starts
		newID:        uuid.NewString,
		now:          func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start wires the store, client registry and template catalog.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting assessment service...")

	if s.kv == nil {
		s.kv = repository.NewMemoryKV()
		s.logger.Info(ctx, "using in-memory store")
	}

	store, err := repository.NewStore(s.kv, repository.WithDemoClientID(s.demoClientID))
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	s.store = store
	s.clients = repository.NewClientRegistry(s.kv, store)
	s.templates = repository.NewTemplateCatalog(s.kv)
	s.gri = materiality.NewDisclosures(s.griExtra)

	s.started = true
	s.logger.Info(ctx, "assessment service started",
		logger.String("demoClientID", s.demoClientID),
		logger.Int("griOverrides", len(s.griExtra)),
	)

	return nil
}

// Stop releases the persistence backend.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping assessment service...")

	switch c := s.kv.(type) {
	case io.Closer:
		if err := c.Close(); err != nil {
			s.logger.Warn(context.Background(), "failed to close store", logger.Error(err))
		}
	case interface{ Close() }:
		c.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "assessment service stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      started,
		"demoClientID": s.demoClientID,
	}

	if started {
		ctx := context.Background()
		if clients, err := s.clients.List(ctx); err == nil {
			stats["clients"] = len(clients)
		}
		if templates, err := s.templates.List(ctx, ""); err == nil {
			stats["templates"] = len(templates)
		}
	}

	return stats
}

// ready returns ErrNotStarted until Start has run.
func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}
