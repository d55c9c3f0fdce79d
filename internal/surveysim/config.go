// Package surveysim drives a running SEMA service with synthetic
// questionnaire traffic and checks the aggregates it reports.
package surveysim

import (
	"time"

	service "github.com/okian/sema/internal/app"
	"github.com/okian/sema/internal/domain/model"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL    string        // Base URL of the service
	ClientName string        // Name of the client created for the run
	Topics     int           // Number of questionnaire topics
	Responses  int           // Number of questionnaires to submit
	Workers    int           // Number of concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Optional file for the generated responses
	LogFile    string        // Optional file mirroring the log output
	KeepClient bool          // Leave the client in place after the run
	Verbose    bool          // Log every failed request
}

// Stats holds run statistics.
type Stats struct {
	ResponsesGenerated int
	ResponsesSubmitted int
	ResponsesAccepted  int
	ResponsesFailed    int
	TopicsVerified     int
	Mismatches         int
	MaterialTopics     int
	FinalTopics        int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}

// accepted returns the questionnaires the service acknowledged, converted
// to the stored shape.
func accepted(qs []service.ResponseInput, ok []bool) []model.StakeholderResponse {
	out := make([]model.StakeholderResponse, 0, len(qs))
	for i, q := range qs {
		if !ok[i] {
			continue
		}
		out = append(out, model.StakeholderResponse{
			StakeholderGroup: q.StakeholderGroup,
			RespondentName:   q.RespondentName,
			Responses:        q.Responses,
		})
	}
	return out
}
