package surveysim

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/okian/sema/internal/domain/feedback"
	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/pkg/logger"
)

// scoreTolerance absorbs float summation order differences between the
// service and the local aggregate.
const scoreTolerance = 1e-9

// Mismatch describes a topic whose reported aggregate differs from the
// locally computed one.
type Mismatch struct {
	TopicID  string
	Name     string
	Reported model.MaterialTopic
	Expected feedback.TopicScore
}

// verifyAggregates recomputes every topic's aggregate from the accepted
// questionnaires and compares it with what the service reports.
func verifyAggregates(ctx context.Context, topics []model.MaterialTopic, submitted []model.StakeholderResponse, stats *Stats) []Mismatch {
	log := logger.Named("surveysim")
	log.Info(ctx, "verifying aggregates",
		logger.Int("topics", len(topics)),
		logger.Int("responses", len(submitted)),
	)

	var mismatches []Mismatch
	for _, t := range topics {
		want := feedback.Aggregate(t.ID, submitted)
		stats.TopicsVerified++
		if t.IsMaterial {
			stats.MaterialTopics++
		}
		if t.ResponseCount == want.ResponseCount &&
			t.IsMaterial == want.IsMaterial &&
			math.Abs(t.AverageScore-want.AverageScore) <= scoreTolerance {
			continue
		}
		mismatches = append(mismatches, Mismatch{TopicID: t.ID, Name: t.Name, Reported: t, Expected: want})
		log.Error(ctx, "aggregate mismatch",
			logger.String("topic", t.Name),
			logger.Float64("reportedAverage", t.AverageScore),
			logger.Float64("expectedAverage", want.AverageScore),
			logger.Int("reportedCount", t.ResponseCount),
			logger.Int("expectedCount", want.ResponseCount),
		)
	}

	stats.Mismatches = len(mismatches)
	return mismatches
}

// verifyReport checks that every material questionnaire topic reaches the
// final list of the report.
func verifyReport(ctx context.Context, topics []model.MaterialTopic, final []model.FinalTopic, stats *Stats) error {
	stats.FinalTopics = len(final)

	material := 0
	for _, t := range topics {
		if !t.IsMaterial {
			continue
		}
		material++
		if !slices.ContainsFunc(final, func(f model.FinalTopic) bool { return f.Name == t.Name }) {
			return fmt.Errorf("material topic %q missing from final list", t.Name)
		}
	}

	logger.Named("surveysim").Info(ctx, "report verified",
		logger.Int("materialTopics", material),
		logger.Int("finalTopics", len(final)),
	)
	return nil
}
