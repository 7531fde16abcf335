package trials

import "github.com/okian/finesse/internal/domain/model"

// State is the trials store value. The slices are replaced on every change
// and must not be modified by readers.
type State struct {
	Trials       []model.Trial            `json:"trials"`
	Applications []model.TrialApplication `json:"applications"`
	Loading      bool                     `json:"loading"`
	Error        string                   `json:"error"`
}

type snapshot struct {
	Trials       []model.Trial            `json:"trials"`
	Applications []model.TrialApplication `json:"applications"`
}

func snapshotOf(s State) any {
	return snapshot{Trials: s.Trials, Applications: s.Applications}
}

func hasApplication(apps []model.TrialApplication, trialID, playerID string) bool {
	for _, a := range apps {
		if a.TrialID == trialID && a.PlayerID == playerID {
			return true
		}
	}
	return false
}
