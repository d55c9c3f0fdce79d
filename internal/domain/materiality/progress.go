package materiality

import (
	"math"

	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/internal/domain/statistics"
	"github.com/okian/sema/internal/domain/types"
)

const (
	progressDone    = 100
	progressPartial = 50
	progressReview  = 75

	overallSteps = 6
)

// Step is the completion of one reporting stage.
type Step struct {
	Completed bool `json:"completed"`
	Progress  int  `json:"progress"`
}

// Status is the four-stage reporting process.
type Status struct {
	StakeholderEngagement Step `json:"stakeholderEngagement"`
	MaterialityAssessment Step `json:"materialityAssessment"`
	TopicValidation       Step `json:"topicValidation"`
	ReportPreparation     Step `json:"reportPreparation"`
}

// ProcessStatus derives the reporting stages from the bundle and its final list.
func ProcessStatus(data model.ClientData, final []model.FinalTopic) Status {
	hasExternal := len(data.MaterialTopics) > 0
	hasInternal := len(data.InternalTopics) > 0
	hasFinal := len(final) > 0

	var s Status
	s.StakeholderEngagement = done(len(data.Stakeholders) > 0)
	s.MaterialityAssessment = done(hasExternal && hasInternal)
	if !s.MaterialityAssessment.Completed && (hasExternal || hasInternal) {
		s.MaterialityAssessment.Progress = progressPartial
	}
	s.TopicValidation = done(hasFinal)
	s.ReportPreparation = done(hasFinal && len(data.Responses) > 0)
	if !s.ReportPreparation.Completed && hasFinal {
		s.ReportPreparation.Progress = progressReview
	}
	return s
}

func done(ok bool) Step {
	if ok {
		return Step{Completed: true, Progress: progressDone}
	}
	return Step{}
}

// OverallProgress is the rounded percentage of the six workflow steps completed.
func OverallProgress(data model.ClientData) int {
	hasStakeholders := len(data.Stakeholders) > 0
	hasExternal := len(data.MaterialTopics) > 0
	hasInternal := len(data.InternalTopics) > 0

	steps := 0
	for _, ok := range []bool{
		hasStakeholders,
		hasStakeholders && data.SampleSizeParams.ConfidenceLevel != 0,
		hasExternal,
		hasInternal,
		hasExternal && hasInternal,
		anyMaterial(data),
	} {
		if ok {
			steps++
		}
	}
	return int(math.Round(float64(steps) / overallSteps * 100))
}

func anyMaterial(data model.ClientData) bool {
	for _, t := range data.MaterialTopics {
		if t.IsMaterial {
			return true
		}
	}
	for _, t := range data.InternalTopics {
		if t.IsMaterial {
			return true
		}
	}
	return false
}

// Module is one entry of the dashboard process flow.
type Module struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Status   types.StepState `json:"status"`
	Progress int             `json:"progress"`
}

// ModuleStatuses reports the six workflow modules in display order.
func ModuleStatuses(data model.ClientData) []Module {
	hasStakeholders := len(data.Stakeholders) > 0
	hasExternal := len(data.MaterialTopics) > 0
	hasInternal := len(data.InternalTopics) > 0

	questionnaire := 0
	if hasExternal {
		questionnaire = progressPartial
		if len(data.Responses) > 0 {
			questionnaire = progressDone
		}
	}

	return []Module{
		module("stakeholders", "Stakeholder Management", percent(hasStakeholders)),
		module("sample-size", "Sample Size Calculator", percent(hasStakeholders)),
		module("questionnaire", "Questionnaire Engine", questionnaire),
		module("internal-assessment", "Internal Assessment", percent(hasInternal)),
		module("materiality-matrix", "Materiality Matrix", percent(hasExternal && hasInternal)),
		module("reporting", "Reporting Dashboard", percent(anyMaterial(data))),
	}
}

func module(id, name string, progress int) Module {
	state := types.StepPending
	switch {
	case progress >= progressDone:
		state = types.StepCompleted
	case progress > 0:
		state = types.StepInProgress
	}
	return Module{ID: id, Name: name, Status: state, Progress: progress}
}

func percent(ok bool) int {
	if ok {
		return progressDone
	}
	return 0
}

// MetricCards are the headline numbers of the dashboard.
type MetricCards struct {
	Stakeholders    int `json:"stakeholders"`
	SampleSize      int `json:"sampleSize"`
	MaterialTopics  int `json:"materialTopics"`
	ConfidenceLevel int `json:"confidenceLevel"`
	Responses       int `json:"responses"`
}

// Metrics computes the dashboard cards. The sample size is the global
// infinite-population size and is 0 until a stakeholder exists.
func Metrics(data model.ClientData) MetricCards {
	m := MetricCards{
		Stakeholders:    len(data.Stakeholders),
		ConfidenceLevel: data.SampleSizeParams.ConfidenceLevel,
		Responses:       len(data.Responses),
	}
	if m.Stakeholders > 0 {
		m.SampleSize = statistics.Calculate(data.SampleSizeParams).InfiniteSampleSize
	}
	for _, t := range data.MaterialTopics {
		if t.IsMaterial {
			m.MaterialTopics++
		}
	}
	return m
}
