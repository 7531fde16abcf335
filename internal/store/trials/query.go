package trials

import (
	"slices"

	"github.com/okian/finesse/internal/domain/model"
)

// TrialByID returns the trial with id.
func (s *Store) TrialByID(id string) (model.Trial, bool) {
	for _, t := range s.State().Trials {
		if t.ID == id {
			return t, true
		}
	}
	return model.Trial{}, false
}

// ApplicationsForPlayer returns the applications submitted by playerID.
func (s *Store) ApplicationsForPlayer(playerID string) []model.TrialApplication {
	var out []model.TrialApplication
	for _, a := range s.State().Applications {
		if a.PlayerID == playerID {
			out = append(out, a)
		}
	}
	return out
}

// TrialsForPosition returns the trials that list the position code.
func (s *Store) TrialsForPosition(code string) []model.Trial {
	return s.filter(func(t model.Trial) bool { return t.AcceptsPosition(code) })
}

// PremiumTrials returns the premium trials.
func (s *Store) PremiumTrials() []model.Trial {
	return s.filter(func(t model.Trial) bool { return t.IsPremium })
}

func (s *Store) filter(keep func(model.Trial) bool) []model.Trial {
	all := s.State().Trials
	out := make([]model.Trial, 0, len(all))
	for _, t := range all {
		if keep(t) {
			out = append(out, t)
		}
	}
	return slices.Clip(out)
}
