package service

import (
	"context"
	"fmt"

	"github.com/okian/sema/internal/adapters/repository"
	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/pkg/logger"
)

// ListClients returns every client, demo first.
func (s *Service) ListClients(ctx context.Context) ([]model.Client, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.clients.List(ctx)
}

// GetClient returns a client by id.
func (s *Service) GetClient(ctx context.Context, id string) (model.Client, error) {
	if err := s.ready(); err != nil {
		return model.Client{}, err
	}
	return s.clients.Get(ctx, id)
}

// AddClient registers a client and initializes its empty data bundle.
func (s *Service) AddClient(ctx context.Context, in ClientInput) (model.Client, error) {
	if err := s.ready(); err != nil {
		return model.Client{}, err
	}
	if err := in.validate(); err != nil {
		return model.Client{}, err
	}

	c, err := s.clients.Add(ctx, model.Client{
		Name:        in.Name,
		Description: in.Description,
		Industry:    in.Industry,
		Logo:        in.Logo,
		Status:      in.Status,
	})
	if err != nil {
		s.logger.Error(ctx, "failed to add client", logger.Error(err))
		return model.Client{}, err
	}

	s.logger.Info(ctx, "client added", logger.String("clientID", c.ID), logger.String("name", c.Name))
	return c, nil
}

// UpdateClient applies patch to a client.
func (s *Service) UpdateClient(ctx context.Context, id string, patch repository.ClientPatch) (model.Client, error) {
	if err := s.ready(); err != nil {
		return model.Client{}, err
	}
	if patch.Name != nil && *patch.Name == "" {
		return model.Client{}, fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return model.Client{}, fmt.Errorf("%w: unknown status %q", ErrValidation, *patch.Status)
	}
	return s.clients.Update(ctx, id, patch)
}

// DeleteClient removes a client and its data. The demo client cannot be deleted.
func (s *Service) DeleteClient(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		s.logger.Warn(ctx, "client delete rejected", logger.String("clientID", id), logger.Error(err))
		return err
	}
	s.logger.Info(ctx, "client deleted", logger.String("clientID", id))
	return nil
}

// ClientData returns the full assessment bundle of a client.
func (s *Service) ClientData(ctx context.Context, clientID string) (model.ClientData, error) {
	if err := s.ready(); err != nil {
		return model.ClientData{}, err
	}
	return s.clients.LoadData(ctx, clientID)
}
