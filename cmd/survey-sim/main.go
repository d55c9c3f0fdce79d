package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/sema/internal/surveysim"
)

// Default configuration constants.
const (
	defaultResponses  = 500
	defaultTopics     = 8
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		responses  = flag.Int("responses", defaultResponses, "Number of questionnaires to submit")
		topics     = flag.Int("topics", defaultTopics, "Number of questionnaire topics")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		clientName = flag.String("client", "Survey Simulation", "Name of the client created for the run")
		keep       = flag.Bool("keep", false, "Keep the client after the run")
		outputFile = flag.String("output", "", "Output file for the generated questionnaires")
		logFile    = flag.String("log", "", "Log file mirroring the console output")
		verbose    = flag.Bool("verbose", false, "Log every failed submission")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		surveysim.ShowHelp()
		return
	}

	closer, err := surveysim.SetupLogging(*logFile)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	config := &surveysim.Config{
		BaseURL:    *baseURL,
		ClientName: *clientName,
		Topics:     *topics,
		Responses:  *responses,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		KeepClient: *keep,
		Verbose:    *verbose,
	}

	if _, err := surveysim.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		closer.Close()
		os.Exit(1)
	}
}
