package service

import (
	"fmt"
	"strings"

	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/internal/domain/types"
)

// Rating and score bounds accepted from callers.
const (
	minRating = 1
	maxRating = 5
	minScore  = 0
	maxScore  = 10
)

// ClientInput carries the caller-editable fields of a new client.
type ClientInput struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Industry    string             `json:"industry,omitempty"`
	Logo        string             `json:"logo,omitempty"`
	Status      types.ClientStatus `json:"status,omitempty"`
}

func (in ClientInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.Status != "" && !in.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}
	return nil
}

// StakeholderInput carries the ratings of a stakeholder group.
type StakeholderInput struct {
	Name                    string                    `json:"name"`
	Category                types.StakeholderCategory `json:"category"`
	DependencyEconomic      int                       `json:"dependencyEconomic"`
	DependencySocial        int                       `json:"dependencySocial"`
	DependencyEnvironmental int                       `json:"dependencyEnvironmental"`
	InfluenceEconomic       int                       `json:"influenceEconomic"`
	InfluenceSocial         int                       `json:"influenceSocial"`
	InfluenceEnvironmental  int                       `json:"influenceEnvironmental"`
	Population              int                       `json:"population,omitempty"`
	UseFinitePopulation     bool                      `json:"useFinitePopulation,omitempty"`
}

func (in StakeholderInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !in.Category.Valid() {
		return fmt.Errorf("%w: unknown stakeholder category %q", ErrValidation, in.Category)
	}
	ratings := map[string]int{
		"dependencyEconomic":      in.DependencyEconomic,
		"dependencySocial":        in.DependencySocial,
		"dependencyEnvironmental": in.DependencyEnvironmental,
		"influenceEconomic":       in.InfluenceEconomic,
		"influenceSocial":         in.InfluenceSocial,
		"influenceEnvironmental":  in.InfluenceEnvironmental,
	}
	for field, v := range ratings {
		if err := inRange(field, v, minRating, maxRating); err != nil {
			return err
		}
	}
	if in.Population < 0 {
		return fmt.Errorf("%w: population must not be negative", ErrValidation)
	}
	return nil
}

// InternalTopicInput carries an internal risk assessment of a topic.
type InternalTopicInput struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    types.TopicCategory `json:"category"`
	Severity    int                 `json:"severity"`
	Likelihood  int                 `json:"likelihood"`
	Rationale   string              `json:"rationale"`
}

func (in InternalTopicInput) validate() error {
	if err := validateTopic(in.Name, in.Category); err != nil {
		return err
	}
	if err := inRange("severity", in.Severity, minRating, maxRating); err != nil {
		return err
	}
	return inRange("likelihood", in.Likelihood, minRating, maxRating)
}

// MaterialTopicInput carries a questionnaire topic.
type MaterialTopicInput struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    types.TopicCategory `json:"category"`
}

func (in MaterialTopicInput) validate() error {
	return validateTopic(in.Name, in.Category)
}

// ResponseInput is one submitted questionnaire.
type ResponseInput struct {
	StakeholderGroup string         `json:"stakeholderGroup"`
	RespondentName   string         `json:"respondentName"`
	Responses        map[string]int `json:"responses"`
	Comments         string         `json:"comments"`
}

func (in ResponseInput) validate() error {
	if strings.TrimSpace(in.StakeholderGroup) == "" {
		return fmt.Errorf("%w: stakeholderGroup is required", ErrValidation)
	}
	for topicID, score := range in.Responses {
		if err := inRange("score for topic "+topicID, score, minScore, maxScore); err != nil {
			return err
		}
	}
	return nil
}

// TemplateInput carries a questionnaire template.
type TemplateInput struct {
	Name     string          `json:"name"`
	ClientID string          `json:"clientId,omitempty"`
	Topics   []TemplateTopic `json:"topics"`
}

// TemplateTopic is one topic of a template.
type TemplateTopic struct {
	ID          string              `json:"id,omitempty"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    types.TopicCategory `json:"category"`
}

func (in TemplateInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	for _, t := range in.Topics {
		if err := validateTopic(t.Name, t.Category); err != nil {
			return err
		}
	}
	return nil
}

func validateTopic(name string, category types.TopicCategory) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !category.Valid() {
		return fmt.Errorf("%w: unknown topic category %q", ErrValidation, category)
	}
	return nil
}

func inRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrValidation, field, lo, hi, v)
	}
	return nil
}

// Sampling parameter bounds.
const (
	minMargin     = 1.0
	maxMargin     = 20.0
	minProportion = 0.1
	maxProportion = 0.9
)

func validateSampleSize(p model.SampleSizeParameters) error {
	switch p.ConfidenceLevel {
	case 90, 95, 99:
	default:
		return fmt.Errorf("%w: confidenceLevel must be 90, 95 or 99, got %d", ErrValidation, p.ConfidenceLevel)
	}
	if p.MarginOfError < minMargin || p.MarginOfError > maxMargin {
		return fmt.Errorf("%w: marginOfError must be between %g and %g, got %g", ErrValidation, minMargin, maxMargin, p.MarginOfError)
	}
	if p.PopulationProportion < minProportion || p.PopulationProportion > maxProportion {
		return fmt.Errorf("%w: populationProportion must be between %g and %g, got %g",
			ErrValidation, minProportion, maxProportion, p.PopulationProportion)
	}
	if p.PopulationSize < 0 {
		return fmt.Errorf("%w: populationSize must not be negative", ErrValidation)
	}
	return nil
}
