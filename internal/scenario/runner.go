// Package scenario drives a running finesse server through a sign-up,
// onboarding and trial application flow and verifies the result.
package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/okian/finesse/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	reportPermission    = 0o600
)

// ErrVerification is returned when the server's state does not match what
// the scenario did.
var ErrVerification = errors.New("verification failed")

// Run executes the complete scenario and returns its report.
func Run(ctx context.Context, config *Config) (*Report, error) {
	if config.Players < 1 {
		return nil, fmt.Errorf("players must be positive, got %d", config.Players)
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	stats := &Stats{StartTime: time.Now()}
	client := NewHTTPClient(config.BaseURL, config.Timeout)
	log := logger.Get()

	log.Info(ctx, "starting finesse scenario",
		logger.String("baseURL", config.BaseURL),
		logger.Int("players", config.Players),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
	)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Sign up players
	players, err := signUpPlayers(ctx, client, config.Players, uuid.NewString()[:8])
	if err != nil {
		return nil, fmt.Errorf("sign-up failed: %w", err)
	}
	stats.PlayersSignedUp = len(players)

	// Step 3: Load the last player's profile and finish onboarding
	if err := onboard(ctx, client, players[len(players)-1]); err != nil {
		return nil, fmt.Errorf("onboarding failed: %w", err)
	}

	// Step 4: Create a trial
	trial, err := createTrial(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("trial creation failed: %w", err)
	}

	// Step 5: Every player applies twice, concurrently
	applyTwice(ctx, client, config, trial.ID, players, stats)

	// Step 6: Verify one application per player
	if err := verify(ctx, client, trial.ID, players, stats); err != nil {
		return nil, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	report := &Report{TrialID: trial.ID, Players: players, Stats: *stats}

	if err := saveReport(ctx, config, report); err != nil {
		log.Warn(ctx, "failed to save report", logger.Error(err))
	}
	displayFinalStats(ctx, stats)
	log.Info(ctx, "scenario completed successfully")
	return report, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")
	if err := client.Do(ctx, http.MethodGet, "/healthz", nil, nil); err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveReport writes the report as JSON.
func saveReport(ctx context.Context, config *Config, report *Report) error {
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "scenario_report_" + timestamp + ".json"
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filename, data, reportPermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Get().Info(ctx, "report saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.ApplicationsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("playersSignedUp", stats.PlayersSignedUp),
		logger.Int("applicationsSubmitted", stats.ApplicationsSubmitted),
		logger.Int("applicationsAccepted", stats.ApplicationsAccepted),
		logger.Int("applicationsDuplicate", stats.ApplicationsDuplicate),
		logger.Int("applicationsFailed", stats.ApplicationsFailed),
		logger.Int("verified", stats.Verified),
		logger.Duration("duration", stats.Duration),
		logger.Float64("applicationsPerSecond", perSecond),
	)
}
