package service

import (
	"context"
	"fmt"

	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/pkg/logger"
	"github.com/okian/sema/pkg/metrics"
)

// ListTemplates returns the templates visible to clientID; empty lists all.
func (s *Service) ListTemplates(ctx context.Context, clientID string) ([]model.Template, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.templates.List(ctx, clientID)
}

// GetTemplate returns a template by id.
func (s *Service) GetTemplate(ctx context.Context, id string) (model.Template, error) {
	if err := s.ready(); err != nil {
		return model.Template{}, err
	}
	return s.templates.Get(ctx, id)
}

// CreateTemplate stores a new template.
func (s *Service) CreateTemplate(ctx context.Context, in TemplateInput) (model.Template, error) {
	if err := s.ready(); err != nil {
		return model.Template{}, err
	}
	if err := in.validate(); err != nil {
		return model.Template{}, err
	}
	t, err := s.templates.Create(ctx, s.templateFrom(in))
	if err != nil {
		return model.Template{}, err
	}
	s.refreshTemplateCount(ctx)
	return t, nil
}

// UpdateTemplate replaces a template's name, topics and owner.
func (s *Service) UpdateTemplate(ctx context.Context, id string, in TemplateInput) (model.Template, error) {
	if err := s.ready(); err != nil {
		return model.Template{}, err
	}
	if err := in.validate(); err != nil {
		return model.Template{}, err
	}
	return s.templates.Update(ctx, id, s.templateFrom(in))
}

// DeleteTemplate removes a template.
func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.templates.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshTemplateCount(ctx)
	return nil
}

// LoadTemplate replaces the client's questionnaire topics with the
// template's topics. Every loaded topic starts unscored until the next
// response is submitted. Templates owned by another client are reported as
// not found, matching what ListTemplates shows that client.
func (s *Service) LoadTemplate(ctx context.Context, clientID, templateID string) ([]model.MaterialTopic, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	t, err := s.templates.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if t.ClientID != "" && t.ClientID != clientID {
		return nil, fmt.Errorf("template %s: %w", templateID, ErrNotFound)
	}

	topics := make([]model.MaterialTopic, 0, len(t.Topics))
	for _, tt := range t.Topics {
		id := tt.ID
		if id == "" {
			id = s.newID()
		}
		topics = append(topics, model.MaterialTopic{
			ID:          id,
			Name:        tt.Name,
			Description: tt.Description,
			Category:    tt.Category,
		})
	}

	var loaded []model.MaterialTopic
	err = s.update(ctx, clientID, "load template", func(d *model.ClientData) error {
		d.MaterialTopics = topics
		loaded = topics
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "template loaded",
		logger.String("clientID", clientID),
		logger.String("templateID", templateID),
		logger.Int("topics", len(loaded)),
	)
	return loaded, nil
}

func (s *Service) templateFrom(in TemplateInput) model.Template {
	topics := make([]model.Topic, 0, len(in.Topics))
	for _, t := range in.Topics {
		id := t.ID
		if id == "" {
			id = s.newID()
		}
		topics = append(topics, model.Topic{ID: id, Name: t.Name, Description: t.Description, Category: t.Category})
	}
	return model.Template{Name: in.Name, ClientID: in.ClientID, Topics: topics}
}

func (s *Service) refreshTemplateCount(ctx context.Context) {
	all, err := s.templates.List(ctx, "")
	if err != nil {
		s.logger.Warn(ctx, "failed to count templates", logger.Error(err))
		return
	}
	metrics.UpdateTemplateCount(len(all))
}
