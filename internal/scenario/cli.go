package scenario

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/finesse/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0o600
)

// SetupLogging sends log output to the console and to logFile. If logFile is
// empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) error {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "scenario_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithOutput(io.MultiWriter(os.Stdout, file))); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the scenario tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`finesse scenario driver
=======================

Drives a running finesse server over HTTP: signs up players, completes
onboarding, creates a trial, has every player apply twice concurrently and
verifies that exactly one application per player was kept.

Usage:
  go run ./cmd/finesse-sim [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -players int
        Number of players to sign up (default 20)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for the run report (default: scenario_report_TIMESTAMP.json)
  -log string
        Log file for scenario output (default: scenario_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Run against a local server started with boundary_latency_ms=0
  FINESSE_BOUNDARY_LATENCY_MS=0 go run ./cmd/finesse &
  go run ./cmd/finesse-sim -players 50 -workers 16
`)
}
