package surveysim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	service "github.com/okian/sema/internal/app"
	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/pkg/logger"
)

// directoryPermission is used when creating the output directory.
const directoryPermission = 0o750

// ErrVerification is returned when the service's aggregates disagree with
// the locally computed ones.
var ErrVerification = errors.New("aggregate verification failed")

// Run executes a complete survey simulation against config.BaseURL.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Named("surveysim")

	log.Info(ctx, "starting survey simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("responses", config.Responses),
		logger.Int("topics", config.Topics),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
	)

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Create the client and its questionnaire
	c, topicIDs, err := setupClient(ctx, config, client)
	if err != nil {
		return stats, fmt.Errorf("client setup failed: %w", err)
	}
	if !config.KeepClient {
		defer func() {
			if err := client.Delete(context.WithoutCancel(ctx), "/clients/"+c.ID); err != nil {
				log.Warn(ctx, "failed to delete client", logger.String("clientId", c.ID), logger.Error(err))
			}
		}()
	}

	// Step 3: Generate questionnaires
	qs, err := generateQuestionnaires(ctx, config.Responses, topicIDs, stats)
	if err != nil {
		return stats, fmt.Errorf("questionnaire generation failed: %w", err)
	}

	// Step 4: Submit concurrently
	ok, err := submitResponses(ctx, config, client, c.ID, qs, stats)
	if err != nil {
		return stats, fmt.Errorf("submission failed: %w", err)
	}

	// Step 5: Verify aggregates
	var topics []model.MaterialTopic
	if err := client.Get(ctx, "/clients/"+c.ID+"/material-topics", &topics); err != nil {
		return stats, fmt.Errorf("topic retrieval failed: %w", err)
	}
	if mismatches := verifyAggregates(ctx, topics, accepted(qs, ok), stats); len(mismatches) > 0 {
		return stats, fmt.Errorf("%w: %d of %d topics", ErrVerification, len(mismatches), len(topics))
	}

	// Step 6: Verify the report
	var report service.ReportView
	if err := client.Get(ctx, "/clients/"+c.ID+"/report", &report); err != nil {
		return stats, fmt.Errorf("report retrieval failed: %w", err)
	}
	if err := verifyReport(ctx, topics, report.FinalTopics, stats); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrVerification, err)
	}

	// Step 7: Save questionnaires to file
	if config.OutputFile != "" {
		if err := saveResponsesToFile(ctx, config.OutputFile, qs); err != nil {
			log.Warn(ctx, "failed to save responses to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	log.Info(ctx, "simulation completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running. The health endpoint
// serves Prometheus text, so only the status matters.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	if err := client.Get(ctx, "/healthz", nil); err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	logger.Named("surveysim").Info(ctx, "service is healthy")
	return nil
}

// setupClient creates a fresh client and one material topic per catalog
// entry, returning the topic ids in catalog order.
func setupClient(ctx context.Context, config *Config, client *HTTPClient) (model.Client, []string, error) {
	var c model.Client
	in := service.ClientInput{
		Name:        config.ClientName,
		Description: "Synthetic client created by the survey simulator",
		Industry:    "Simulation",
	}
	if err := client.Post(ctx, "/clients", in, &c); err != nil {
		return c, nil, fmt.Errorf("failed to create client: %w", err)
	}

	n := min(max(config.Topics, 1), len(topicCatalog))
	ids := make([]string, 0, n)
	for _, entry := range topicCatalog[:n] {
		var t model.MaterialTopic
		topic := service.MaterialTopicInput{Name: entry.Name, Category: entry.Category}
		if err := client.Post(ctx, "/clients/"+c.ID+"/material-topics", topic, &t); err != nil {
			return c, nil, fmt.Errorf("failed to add topic %q: %w", entry.Name, err)
		}
		ids = append(ids, t.ID)
	}

	logger.Named("surveysim").Info(ctx, "client ready",
		logger.String("clientId", c.ID),
		logger.Int("topics", len(ids)),
	)
	return c, ids, nil
}

// saveResponsesToFile writes the generated questionnaires as a JSON array.
func saveResponsesToFile(ctx context.Context, filename string, qs []service.ResponseInput) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(qs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal responses: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Named("surveysim").Info(ctx, "responses saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, responsesPerSecond float64

	if stats.ResponsesSubmitted > 0 {
		successRate = float64(stats.ResponsesAccepted) / float64(stats.ResponsesSubmitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		responsesPerSecond = float64(stats.ResponsesSubmitted) / stats.Duration.Seconds()
	}

	logger.Named("surveysim").Info(ctx, "final statistics",
		logger.Int("responsesGenerated", stats.ResponsesGenerated),
		logger.Int("responsesSubmitted", stats.ResponsesSubmitted),
		logger.Int("responsesAccepted", stats.ResponsesAccepted),
		logger.Int("responsesFailed", stats.ResponsesFailed),
		logger.Int("topicsVerified", stats.TopicsVerified),
		logger.Int("materialTopics", stats.MaterialTopics),
		logger.Int("finalTopics", stats.FinalTopics),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("responsesPerSecond", responsesPerSecond),
	)
}
