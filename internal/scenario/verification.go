package scenario

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/okian/finesse/pkg/logger"
)

// verify checks that every player holds exactly one application to trialID
// and that the counts agree with what was submitted.
func verify(ctx context.Context, client *HTTPClient, trialID string, players []Player, stats *Stats) error {
	logger.Get().Info(ctx, "verifying applications")

	if stats.ApplicationsFailed > 0 {
		return fmt.Errorf("%w: %d applications failed", ErrVerification, stats.ApplicationsFailed)
	}
	if stats.ApplicationsAccepted != len(players) {
		return fmt.Errorf("%w: %d applications accepted for %d players", ErrVerification, stats.ApplicationsAccepted, len(players))
	}
	if stats.ApplicationsDuplicate != len(players) {
		return fmt.Errorf("%w: %d duplicates reported for %d players", ErrVerification, stats.ApplicationsDuplicate, len(players))
	}

	for _, p := range players {
		var apps []Application
		if err := client.Do(ctx, http.MethodGet, "/applications?playerId="+url.QueryEscape(p.UserID), nil, &apps); err != nil {
			return err
		}
		n := 0
		for _, a := range apps {
			if a.TrialID == trialID {
				n++
			}
		}
		if n != 1 {
			return fmt.Errorf("%w: player %s has %d applications to %s", ErrVerification, p.UserID, n, trialID)
		}
		stats.Verified++
	}

	logger.Get().Info(ctx, "verification passed", logger.Int("players", stats.Verified))
	return nil
}
