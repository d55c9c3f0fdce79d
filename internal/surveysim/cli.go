package surveysim

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/sema/pkg/logger"
)

// SetupLogging configures logging to the console and, when logFile is set,
// to that file as well. The returned closer releases the file.
func SetupLogging(logFile string) (io.Closer, error) {
	if logFile == "" {
		return nopCloser{}, logger.InitWithWriter(os.Stdout, logger.FormatText)
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	if err := logger.InitWithWriter(io.MultiWriter(os.Stdout, file), logger.FormatText); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file, nil
}

// ShowHelp prints usage information for the survey simulator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`SEMA Survey Simulator
=====================

Creates a client on a running SEMA service, submits synthetic stakeholder
questionnaires concurrently and verifies the aggregated topic scores.

Usage:
  go run ./cmd/survey-sim [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -responses int
        Number of questionnaires to submit (default 500)
  -topics int
        Number of questionnaire topics, at most 11 (default 8)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -client string
        Name of the client created for the run (default "Survey Simulation")
  -keep
        Keep the client after the run
  -output string
        Output file for the generated questionnaires
  -log string
        Log file mirroring the console output
  -verbose
        Log every failed submission
  -help
        Show this help message

Examples:
  go run ./cmd/survey-sim -responses 2000 -workers 16
  go run ./cmd/survey-sim -keep -output out/responses.json
`)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
