// Package model contains domain models passed between layers.
// JSON field names mirror the persisted client bundle layout.
package model

import (
	"time"

	"github.com/okian/sema/internal/domain/types"
)

// Stakeholder is a group whose dependency on and influence over the
// organisation is rated on three pillars.
type Stakeholder struct {
	ID       string                    `json:"id" yaml:"id"`
	Name     string                    `json:"name" yaml:"name"`
	Category types.StakeholderCategory `json:"category" yaml:"category"`

	DependencyEconomic      int `json:"dependencyEconomic" yaml:"dependencyEconomic"`
	DependencySocial        int `json:"dependencySocial" yaml:"dependencySocial"`
	DependencyEnvironmental int `json:"dependencyEnvironmental" yaml:"dependencyEnvironmental"`
	InfluenceEconomic       int `json:"influenceEconomic" yaml:"influenceEconomic"`
	InfluenceSocial         int `json:"influenceSocial" yaml:"influenceSocial"`
	InfluenceEnvironmental  int `json:"influenceEnvironmental" yaml:"influenceEnvironmental"`

	// Derived; always rewritten by scoring.Apply.
	TotalScore        int                     `json:"totalScore" yaml:"totalScore"`
	NormalizedScore   float64                 `json:"normalizedScore" yaml:"normalizedScore"`
	InfluenceCategory types.InfluenceCategory `json:"influenceCategory" yaml:"influenceCategory"`
	Priority          bool                    `json:"priority" yaml:"priority"`

	// Population is the size of the group for per-stakeholder sampling (0 = unknown).
	Population          int  `json:"population,omitempty" yaml:"population,omitempty"`
	UseFinitePopulation bool `json:"useFinitePopulation,omitempty" yaml:"useFinitePopulation,omitempty"`
}

// MaterialTopic is a topic assessed externally through stakeholder questionnaires.
type MaterialTopic struct {
	ID            string              `json:"id" yaml:"id"`
	Name          string              `json:"name" yaml:"name"`
	Description   string              `json:"description" yaml:"description"`
	Category      types.TopicCategory `json:"category" yaml:"category"`
	AverageScore  float64             `json:"averageScore" yaml:"averageScore"`
	ResponseCount int                 `json:"responseCount" yaml:"responseCount"`
	IsMaterial    bool                `json:"isMaterial" yaml:"isMaterial"`
}

// InternalTopic is a topic assessed internally by severity and likelihood.
type InternalTopic struct {
	ID           string              `json:"id" yaml:"id"`
	Name         string              `json:"name" yaml:"name"`
	Description  string              `json:"description" yaml:"description"`
	Category     types.TopicCategory `json:"category" yaml:"category"`
	Severity     int                 `json:"severity" yaml:"severity"`
	Likelihood   int                 `json:"likelihood" yaml:"likelihood"`
	Significance int                 `json:"significance" yaml:"significance"`
	IsMaterial   bool                `json:"isMaterial" yaml:"isMaterial"`
	Rationale    string              `json:"rationale" yaml:"rationale"`
}

// StakeholderResponse is one submitted questionnaire. Immutable once stored.
type StakeholderResponse struct {
	ID               string         `json:"id" yaml:"id"`
	StakeholderGroup string         `json:"stakeholderGroup" yaml:"stakeholderGroup"`
	RespondentName   string         `json:"respondentName" yaml:"respondentName"`
	Responses        map[string]int `json:"responses" yaml:"responses"` // topic id -> score 0..10
	Comments         string         `json:"comments" yaml:"comments"`
	SubmittedAt      time.Time      `json:"submittedAt" yaml:"submittedAt"`
}

// SampleSizeParameters drive the sampling calculator for a client.
type SampleSizeParameters struct {
	ConfidenceLevel      int     `json:"confidenceLevel" yaml:"confidenceLevel"`
	MarginOfError        float64 `json:"marginOfError" yaml:"marginOfError"` // percent
	PopulationProportion float64 `json:"populationProportion" yaml:"populationProportion"`
	PopulationSize       int     `json:"populationSize" yaml:"populationSize"`
	UseFinitePopulation  bool    `json:"useFinitePopulation" yaml:"useFinitePopulation"`
}

// DefaultSampleSizeParameters returns the parameters of a freshly created client.
func DefaultSampleSizeParameters() SampleSizeParameters {
	return SampleSizeParameters{
		ConfidenceLevel:      90,
		MarginOfError:        10,
		PopulationProportion: 0.5,
		PopulationSize:       0,
		UseFinitePopulation:  false,
	}
}

// ClientData is the bundle of collections owned by one client.
type ClientData struct {
	Stakeholders     []Stakeholder         `json:"stakeholders" yaml:"stakeholders"`
	InternalTopics   []InternalTopic       `json:"internalTopics" yaml:"internalTopics"`
	MaterialTopics   []MaterialTopic       `json:"materialTopics" yaml:"materialTopics"`
	Responses        []StakeholderResponse `json:"responses" yaml:"responses"`
	SampleSizeParams SampleSizeParameters  `json:"sampleSizeParams" yaml:"sampleSizeParams"`
}

// EmptyClientData returns a bundle with empty, non-nil collections and default parameters.
func EmptyClientData() ClientData {
	return ClientData{
		Stakeholders:     []Stakeholder{},
		InternalTopics:   []InternalTopic{},
		MaterialTopics:   []MaterialTopic{},
		Responses:        []StakeholderResponse{},
		SampleSizeParams: DefaultSampleSizeParameters(),
	}
}

// Clone returns a deep copy so callers cannot alias stored slices or maps.
func (d ClientData) Clone() ClientData {
	out := ClientData{
		Stakeholders:     append([]Stakeholder{}, d.Stakeholders...),
		InternalTopics:   append([]InternalTopic{}, d.InternalTopics...),
		MaterialTopics:   append([]MaterialTopic{}, d.MaterialTopics...),
		Responses:        make([]StakeholderResponse, len(d.Responses)),
		SampleSizeParams: d.SampleSizeParams,
	}
	for i, r := range d.Responses {
		scores := make(map[string]int, len(r.Responses))
		for k, v := range r.Responses {
			scores[k] = v
		}
		r.Responses = scores
		out.Responses[i] = r
	}
	return out
}

// CombinedTopic merges the external and internal view of one topic name.
type CombinedTopic struct {
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Category      types.TopicCategory `json:"category"`
	ExternalScore float64             `json:"externalScore"`
	InternalScore int                 `json:"internalScore"`
	IsMaterial    bool                `json:"isMaterial"`
	Quadrant      types.Quadrant      `json:"quadrant"`
}

// FinalTopic is one entry of the disclosure list emitted in the report.
type FinalTopic struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Category      types.TopicCategory `json:"category"`
	ExternalScore float64             `json:"externalScore"`
	InternalScore int                 `json:"internalScore"`
	Rationale     string              `json:"rationale"`
	GRIDisclosure string              `json:"griDisclosure"`
}

// Client is an organisation whose assessment is run in SEMA.
type Client struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Industry    string             `json:"industry,omitempty"`
	Logo        string             `json:"logo,omitempty"`
	IsDemo      bool               `json:"isDemo"`
	Status      types.ClientStatus `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// Topic is the template shape of a questionnaire topic.
type Topic struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    types.TopicCategory `json:"category"`
}

// Template is a reusable questionnaire topic set. An empty ClientID means global.
type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Topics    []Topic   `json:"topics"`
	ClientID  string    `json:"clientId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}
