package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/okian/sema/internal/domain/feedback"
	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/internal/domain/scoring"
	"github.com/okian/sema/pkg/logger"
	"github.com/okian/sema/pkg/metrics"
)

// ListStakeholders returns the scored stakeholder groups of a client.
func (s *Service) ListStakeholders(ctx context.Context, clientID string) ([]model.Stakeholder, error) {
	data, err := s.ClientData(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return data.Stakeholders, nil
}

// AddStakeholder scores and stores a new stakeholder group.
func (s *Service) AddStakeholder(ctx context.Context, clientID string, in StakeholderInput) (model.Stakeholder, error) {
	if err := in.validate(); err != nil {
		return model.Stakeholder{}, err
	}
	created := stakeholderFrom(s.newID(), in)
	err := s.update(ctx, clientID, "add stakeholder", func(d *model.ClientData) error {
		d.Stakeholders = rescoreStakeholders(append(d.Stakeholders, created))
		created = d.Stakeholders[len(d.Stakeholders)-1]
		return nil
	})
	if err != nil {
		return model.Stakeholder{}, err
	}
	return created, nil
}

// UpdateStakeholder replaces the ratings of a stakeholder group.
func (s *Service) UpdateStakeholder(ctx context.Context, clientID, id string, in StakeholderInput) (model.Stakeholder, error) {
	if err := in.validate(); err != nil {
		return model.Stakeholder{}, err
	}
	var updated model.Stakeholder
	err := s.update(ctx, clientID, "update stakeholder", func(d *model.ClientData) error {
		i := slices.IndexFunc(d.Stakeholders, func(v model.Stakeholder) bool { return v.ID == id })
		if i < 0 {
			return fmt.Errorf("stakeholder %s: %w", id, ErrNotFound)
		}
		d.Stakeholders[i] = stakeholderFrom(id, in)
		d.Stakeholders = rescoreStakeholders(d.Stakeholders)
		updated = d.Stakeholders[i]
		return nil
	})
	if err != nil {
		return model.Stakeholder{}, err
	}
	return updated, nil
}

// DeleteStakeholder removes a stakeholder group.
func (s *Service) DeleteStakeholder(ctx context.Context, clientID, id string) error {
	return s.update(ctx, clientID, "delete stakeholder", func(d *model.ClientData) error {
		i := slices.IndexFunc(d.Stakeholders, func(v model.Stakeholder) bool { return v.ID == id })
		if i < 0 {
			return fmt.Errorf("stakeholder %s: %w", id, ErrNotFound)
		}
		d.Stakeholders = rescoreStakeholders(slices.Delete(d.Stakeholders, i, i+1))
		return nil
	})
}

// ListInternalTopics returns the risk-assessed topics of a client.
func (s *Service) ListInternalTopics(ctx context.Context, clientID string) ([]model.InternalTopic, error) {
	data, err := s.ClientData(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return data.InternalTopics, nil
}

// AddInternalTopic scores and stores a new internal topic.
func (s *Service) AddInternalTopic(ctx context.Context, clientID string, in InternalTopicInput) (model.InternalTopic, error) {
	if err := in.validate(); err != nil {
		return model.InternalTopic{}, err
	}
	created := internalTopicFrom(s.newID(), in)
	err := s.update(ctx, clientID, "add internal topic", func(d *model.ClientData) error {
		d.InternalTopics = rescoreInternal(append(d.InternalTopics, created))
		created = d.InternalTopics[len(d.InternalTopics)-1]
		return nil
	})
	if err != nil {
		return model.InternalTopic{}, err
	}
	return created, nil
}

// UpdateInternalTopic replaces an internal topic assessment.
func (s *Service) UpdateInternalTopic(ctx context.Context, clientID, id string, in InternalTopicInput) (model.InternalTopic, error) {
	if err := in.validate(); err != nil {
		return model.InternalTopic{}, err
	}
	var updated model.InternalTopic
	err := s.update(ctx, clientID, "update internal topic", func(d *model.ClientData) error {
		i := slices.IndexFunc(d.InternalTopics, func(v model.InternalTopic) bool { return v.ID == id })
		if i < 0 {
			return fmt.Errorf("internal topic %s: %w", id, ErrNotFound)
		}
		d.InternalTopics[i] = internalTopicFrom(id, in)
		d.InternalTopics = rescoreInternal(d.InternalTopics)
		updated = d.InternalTopics[i]
		return nil
	})
	if err != nil {
		return model.InternalTopic{}, err
	}
	return updated, nil
}

// DeleteInternalTopic removes an internal topic.
func (s *Service) DeleteInternalTopic(ctx context.Context, clientID, id string) error {
	return s.update(ctx, clientID, "delete internal topic", func(d *model.ClientData) error {
		i := slices.IndexFunc(d.InternalTopics, func(v model.InternalTopic) bool { return v.ID == id })
		if i < 0 {
			return fmt.Errorf("internal topic %s: %w", id, ErrNotFound)
		}
		d.InternalTopics = rescoreInternal(slices.Delete(d.InternalTopics, i, i+1))
		return nil
	})
}

// ListMaterialTopics returns the questionnaire topics with their aggregates.
func (s *Service) ListMaterialTopics(ctx context.Context, clientID string) ([]model.MaterialTopic, error) {
	data, err := s.ClientData(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return data.MaterialTopics, nil
}

// AddMaterialTopic adds a questionnaire topic. Its aggregate is computed
// from any responses already on file.
func (s *Service) AddMaterialTopic(ctx context.Context, clientID string, in MaterialTopicInput) (model.MaterialTopic, error) {
	if err := in.validate(); err != nil {
		return model.MaterialTopic{}, err
	}
	created := model.MaterialTopic{ID: s.newID(), Name: in.Name, Description: in.Description, Category: in.Category}
	err := s.update(ctx, clientID, "add material topic", func(d *model.ClientData) error {
		d.MaterialTopics = reaggregate(append(d.MaterialTopics, created), d.Responses)
		created = d.MaterialTopics[len(d.MaterialTopics)-1]
		return nil
	})
	if err != nil {
		return model.MaterialTopic{}, err
	}
	return created, nil
}

// UpdateMaterialTopic edits the descriptive fields of a questionnaire topic.
func (s *Service) UpdateMaterialTopic(ctx context.Context, clientID, id string, in MaterialTopicInput) (model.MaterialTopic, error) {
	if err := in.validate(); err != nil {
		return model.MaterialTopic{}, err
	}
	var updated model.MaterialTopic
	err := s.update(ctx, clientID, "update material topic", func(d *model.ClientData) error {
		i := slices.IndexFunc(d.MaterialTopics, func(v model.MaterialTopic) bool { return v.ID == id })
		if i < 0 {
			return fmt.Errorf("material topic %s: %w", id, ErrNotFound)
		}
		d.MaterialTopics[i].Name = in.Name
		d.MaterialTopics[i].Description = in.Description
		d.MaterialTopics[i].Category = in.Category
		d.MaterialTopics = reaggregate(d.MaterialTopics, d.Responses)
		updated = d.MaterialTopics[i]
		return nil
	})
	if err != nil {
		return model.MaterialTopic{}, err
	}
	return updated, nil
}

// DeleteMaterialTopic removes a questionnaire topic. Scores already
// submitted for it stay on the responses.
func (s *Service) DeleteMaterialTopic(ctx context.Context, clientID, id string) error {
	return s.update(ctx, clientID, "delete material topic", func(d *model.ClientData) error {
		i := slices.IndexFunc(d.MaterialTopics, func(v model.MaterialTopic) bool { return v.ID == id })
		if i < 0 {
			return fmt.Errorf("material topic %s: %w", id, ErrNotFound)
		}
		d.MaterialTopics = slices.Delete(d.MaterialTopics, i, i+1)
		return nil
	})
}

// ListResponses returns every submitted questionnaire of a client.
func (s *Service) ListResponses(ctx context.Context, clientID string) ([]model.StakeholderResponse, error) {
	data, err := s.ClientData(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return data.Responses, nil
}

// SubmitResponse records a questionnaire and re-aggregates every topic.
func (s *Service) SubmitResponse(ctx context.Context, clientID string, in ResponseInput) (model.StakeholderResponse, error) {
	if err := in.validate(); err != nil {
		return model.StakeholderResponse{}, err
	}
	scores := make(map[string]int, len(in.Responses))
	for k, v := range in.Responses {
		scores[k] = v
	}
	created := model.StakeholderResponse{
		ID:               s.newID(),
		StakeholderGroup: in.StakeholderGroup,
		RespondentName:   in.RespondentName,
		Responses:        scores,
		Comments:         in.Comments,
		SubmittedAt:      s.now(),
	}
	err := s.update(ctx, clientID, "submit response", func(d *model.ClientData) error {
		d.Responses = append(d.Responses, created)
		d.MaterialTopics = reaggregate(d.MaterialTopics, d.Responses)
		return nil
	})
	if err != nil {
		return model.StakeholderResponse{}, err
	}
	metrics.RecordResponse()
	return created, nil
}

// update runs fn as one read-modify-write of the client bundle.
func (s *Service) update(ctx context.Context, clientID, op string, fn func(*model.ClientData) error) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.clients.UpdateData(ctx, clientID, fn); err != nil {
		s.logger.Warn(ctx, op+" failed", logger.String("clientID", clientID), logger.Error(err))
		return err
	}
	s.logger.Debug(ctx, op, logger.String("clientID", clientID), logger.Bool("demo", s.store.IsDemo(clientID)))
	return nil
}

func stakeholderFrom(id string, in StakeholderInput) model.Stakeholder {
	return model.Stakeholder{
		ID:                      id,
		Name:                    in.Name,
		Category:                in.Category,
		DependencyEconomic:      in.DependencyEconomic,
		DependencySocial:        in.DependencySocial,
		DependencyEnvironmental: in.DependencyEnvironmental,
		InfluenceEconomic:       in.InfluenceEconomic,
		InfluenceSocial:         in.InfluenceSocial,
		InfluenceEnvironmental:  in.InfluenceEnvironmental,
		Population:              in.Population,
		UseFinitePopulation:     in.UseFinitePopulation,
	}
}

func internalTopicFrom(id string, in InternalTopicInput) model.InternalTopic {
	return model.InternalTopic{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Severity:    in.Severity,
		Likelihood:  in.Likelihood,
		Rationale:   in.Rationale,
	}
}

// rescoreStakeholders recomputes the derived fields of every group.
func rescoreStakeholders(v []model.Stakeholder) []model.Stakeholder {
	for i := range v {
		v[i] = scoring.Apply(v[i])
	}
	metrics.RecordStakeholderScored(len(v))
	return v
}

// rescoreInternal recomputes significance and materiality of every topic.
func rescoreInternal(v []model.InternalTopic) []model.InternalTopic {
	for i := range v {
		v[i] = scoring.ApplyRisk(v[i])
	}
	metrics.RecordTopicAssessed(len(v))
	return v
}

func reaggregate(topics []model.MaterialTopic, responses []model.StakeholderResponse) []model.MaterialTopic {
	start := time.Now()
	out := feedback.Recompute(topics, responses)
	metrics.RecordAggregationLatency(float64(time.Since(start).Microseconds()) / 1000)
	return out
}
