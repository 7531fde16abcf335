package scenario

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/okian/finesse/pkg/logger"
)

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
	attemptsPerPlayer       = 2
	firstPlayerAge          = 15
	playerAgeSpan           = 5
)

type session struct {
	UserID          string `json:"userId"`
	UserType        string `json:"userType"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

type profileState struct {
	Profile *struct {
		UserType string `json:"userType"`
	} `json:"profile"`
}

type outcome struct {
	Outcome string `json:"outcome"`
}

// signUpPlayers registers n players one after the other. The server holds a
// single session, so sign-ups are not parallelised.
func signUpPlayers(ctx context.Context, client *HTTPClient, n int, runID string) ([]Player, error) {
	logger.Get().Info(ctx, "signing up players", logger.Int("players", n))

	players := make([]Player, 0, n)
	for i := range n {
		p := Player{
			Email: fmt.Sprintf("sim-%s-%d@example.com", runID, i),
			Name:  fmt.Sprintf("Player %d", i+1),
			Age:   firstPlayerAge + i%playerAgeSpan,
		}
		var s session
		err := client.Do(ctx, http.MethodPost, "/auth/sign-up", map[string]string{
			"email":    p.Email,
			"password": "secret1",
			"userType": "player",
		}, &s)
		if err != nil {
			return nil, fmt.Errorf("sign up %s: %w", p.Email, err)
		}
		if !s.IsAuthenticated || s.UserID == "" {
			return nil, fmt.Errorf("%w: sign up %s left no session", ErrVerification, p.Email)
		}
		p.UserID = s.UserID
		players = append(players, p)
		logger.Get().Debug(ctx, "player signed up", logger.String("userId", p.UserID))
	}
	return players, nil
}

// onboard loads p's profile and walks the onboarding flow to completion.
func onboard(ctx context.Context, client *HTTPClient, p Player) error {
	var st profileState
	if err := client.Do(ctx, http.MethodPost, "/profile/fetch", map[string]string{"userId": p.UserID}, &st); err != nil {
		return err
	}
	if st.Profile == nil || st.Profile.UserType != "player" {
		return fmt.Errorf("%w: profile of %s not loaded as a player", ErrVerification, p.UserID)
	}

	if err := client.Do(ctx, http.MethodPut, "/onboarding/step", map[string]int{"step": 2}, nil); err != nil {
		return err
	}
	var o outcome
	if err := client.Do(ctx, http.MethodPost, "/onboarding/complete", nil, &o); err != nil {
		return err
	}
	if o.Outcome != "applied" {
		return fmt.Errorf("%w: onboarding completion was %q", ErrVerification, o.Outcome)
	}
	return nil
}

func createTrial(ctx context.Context, client *HTTPClient) (Trial, error) {
	var t Trial
	err := client.Do(ctx, http.MethodPost, "/trials", map[string]any{
		"title":       "Scenario Open Trial",
		"clubId":      "club_1",
		"clubName":    "Scenario FC",
		"location":    "London, UK",
		"date":        "2024-09-01",
		"description": "Open trial created by the scenario driver.",
		"positions":   []string{"ST", "CB", "GK"},
	}, &t)
	if err != nil {
		return Trial{}, err
	}
	if t.ID == "" {
		return Trial{}, fmt.Errorf("%w: created trial has no id", ErrVerification)
	}
	logger.Get().Info(ctx, "trial created", logger.String("trialId", t.ID))
	return t, nil
}

// applyTwice submits two applications per player to trialID through a pool
// of workers and counts the outcomes.
func applyTwice(ctx context.Context, client *HTTPClient, config *Config, trialID string, players []Player, stats *Stats) {
	logger.Get().Info(ctx, "submitting applications",
		logger.Int("applications", len(players)*attemptsPerPlayer),
		logger.Int("workers", config.Workers),
	)

	var submitted, accepted, duplicate, failed atomic.Int64
	jobs := make(chan Player, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for range config.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				err := client.Do(ctx, http.MethodPost, "/trials/"+trialID+"/applications", map[string]any{
					"playerId":       p.UserID,
					"playerName":     p.Name,
					"playerPosition": "ST",
					"playerAge":      p.Age,
				}, nil)
				submitted.Add(1)

				var se *StatusError
				switch {
				case err == nil:
					accepted.Add(1)
				case errors.As(err, &se) && se.Status == http.StatusConflict:
					duplicate.Add(1)
				default:
					failed.Add(1)
					logger.Get().Warn(ctx, "application failed", logger.String("playerId", p.UserID), logger.Error(err))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for range attemptsPerPlayer {
			for _, p := range players {
				select {
				case <-ctx.Done():
					return
				case jobs <- p:
				}
			}
		}
	}()

	wg.Wait()

	stats.ApplicationsSubmitted = int(submitted.Load())
	stats.ApplicationsAccepted = int(accepted.Load())
	stats.ApplicationsDuplicate = int(duplicate.Load())
	stats.ApplicationsFailed = int(failed.Load())
}
