package service

import (
	"context"
	"fmt"

	"github.com/okian/sema/internal/domain/feedback"
	"github.com/okian/sema/internal/domain/materiality"
	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/internal/domain/scoring"
	"github.com/okian/sema/internal/domain/statistics"
	"github.com/okian/sema/internal/domain/types"
	"github.com/okian/sema/pkg/logger"
	"github.com/okian/sema/pkg/metrics"
)

// SampleSizeView is the sampling module: parameters, global result and
// the per-stakeholder plan.
type SampleSizeView struct {
	Params model.SampleSizeParameters `json:"params"`
	Result statistics.Result          `json:"result"`
	Plan   statistics.Plan            `json:"plan"`
}

// RiskView is the internal assessment grid with its summary.
type RiskView struct {
	Grid    scoring.RiskGrid    `json:"grid"`
	Summary scoring.RiskSummary `json:"summary"`
}

// MatrixTopic is a combined topic with its plotted position.
type MatrixTopic struct {
	model.CombinedTopic
	Position materiality.Point `json:"position"`
}

// MatrixView is the double materiality matrix.
type MatrixView struct {
	Category string                    `json:"category"`
	Topics   []MatrixTopic             `json:"topics"`
	Summary  materiality.MatrixSummary `json:"summary"`
}

// ReportView is the final material topic list and the reporting process.
type ReportView struct {
	FinalTopics []model.FinalTopic    `json:"finalTopics"`
	Process     materiality.Status    `json:"process"`
	Feedback    feedback.Summary      `json:"feedback"`
	Groups      []feedback.GroupCount `json:"groups"`
}

// DashboardView is the client overview.
type DashboardView struct {
	Client          model.Client              `json:"client"`
	OverallProgress int                       `json:"overallProgress"`
	Modules         []materiality.Module      `json:"modules"`
	Metrics         materiality.MetricCards   `json:"metrics"`
	Matrix          materiality.MatrixSummary `json:"matrix"`
}

// SampleSize computes the global and per-stakeholder sample sizes.
func (s *Service) SampleSize(ctx context.Context, clientID string) (SampleSizeView, error) {
	data, err := s.ClientData(ctx, clientID)
	if err != nil {
		return SampleSizeView{}, err
	}
	metrics.RecordSampleSizeCalculation()
	return SampleSizeView{
		Params: data.SampleSizeParams,
		Result: statistics.Calculate(data.SampleSizeParams),
		Plan:   statistics.BuildPlan(data.SampleSizeParams, data.Stakeholders),
	}, nil
}

// UpdateSampleSize replaces the sampling parameters and returns the new view.
func (s *Service) UpdateSampleSize(ctx context.Context, clientID string, params model.SampleSizeParameters) (SampleSizeView, error) {
	if err := validateSampleSize(params); err != nil {
		return SampleSizeView{}, err
	}
	err := s.update(ctx, clientID, "update sample size", func(d *model.ClientData) error {
		d.SampleSizeParams = params
		return nil
	})
	if err != nil {
		return SampleSizeView{}, err
	}
	return s.SampleSize(ctx, clientID)
}

// RiskGrid places the internal topics on the severity×likelihood grid.
func (s *Service) RiskGrid(ctx context.Context, clientID string) (RiskView, error) {
	data, err := s.ClientData(ctx, clientID)
	if err != nil {
		return RiskView{}, err
	}
	return RiskView{
		Grid:    scoring.BuildRiskGrid(data.InternalTopics),
		Summary: scoring.Summarize(data.InternalTopics),
	}, nil
}

// Matrix composes the external and internal assessments, optionally
// filtered to one topic category.
func (s *Service) Matrix(ctx context.Context, clientID, category string) (MatrixView, error) {
	if category == "" {
		category = materiality.All
	}
	if category != materiality.All && !types.TopicCategory(category).Valid() {
		return MatrixView{}, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	data, err := s.ClientData(ctx, clientID)
	if err != nil {
		return MatrixView{}, err
	}

	combined := materiality.Filter(materiality.Compose(data.MaterialTopics, data.InternalTopics), category)
	view := MatrixView{
		Category: category,
		Topics:   make([]MatrixTopic, 0, len(combined)),
		Summary:  materiality.Summarize(combined),
	}
	for _, t := range combined {
		view.Topics = append(view.Topics, MatrixTopic{CombinedTopic: t, Position: materiality.Position(t)})
	}
	return view, nil
}

// FinalMaterialTopics resolves the deduplicated list of material topics.
func (s *Service) FinalMaterialTopics(ctx context.Context, clientID string) ([]model.FinalTopic, error) {
	data, err := s.ClientData(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return materiality.Resolve(data.MaterialTopics, data.InternalTopics, s.gri), nil
}

// Report builds the final topic list and the reporting process status.
func (s *Service) Report(ctx context.Context, clientID string) (ReportView, error) {
	data, err := s.ClientData(ctx, clientID)
	if err != nil {
		return ReportView{}, err
	}
	final := materiality.Resolve(data.MaterialTopics, data.InternalTopics, s.gri)
	metrics.RecordReport(len(final))
	s.logger.Info(ctx, "report generated", logger.String("clientID", clientID), logger.Int("finalTopics", len(final)))
	return ReportView{
		FinalTopics: final,
		Process:     materiality.ProcessStatus(data, final),
		Feedback:    feedback.Summarize(data.MaterialTopics, data.Responses),
		Groups:      feedback.GroupCounts(data.Responses),
	}, nil
}

// Dashboard summarizes the progress of a client's assessment.
func (s *Service) Dashboard(ctx context.Context, clientID string) (DashboardView, error) {
	if err := s.ready(); err != nil {
		return DashboardView{}, err
	}
	client, err := s.clients.Get(ctx, clientID)
	if err != nil {
		return DashboardView{}, err
	}
	data, err := s.clients.LoadData(ctx, clientID)
	if err != nil {
		return DashboardView{}, err
	}
	return DashboardView{
		Client:          client,
		OverallProgress: materiality.OverallProgress(data),
		Modules:         materiality.ModuleStatuses(data),
		Metrics:         materiality.Metrics(data),
		Matrix:          materiality.Summarize(materiality.Compose(data.MaterialTopics, data.InternalTopics)),
	}, nil
}
