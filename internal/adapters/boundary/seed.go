package boundary

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/okian/finesse/internal/domain/model"
)

const (
	mancityBadge = "https://upload.wikimedia.org/wikipedia/en/thumb/e/eb/Manchester_City_FC_badge.svg/180px-Manchester_City_FC_badge.svg.png"
	unsplash     = "https://images.unsplash.com/photo-%s?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&q=80"
)

func photo(id string) string { return fmt.Sprintf(unsplash, id) }

func seedPlayer(id string) model.PlayerProfile {
	return model.PlayerProfile{
		Base: model.Base{
			ID:                 id,
			Name:               "John Smith",
			Email:              "john@example.com",
			ProfileImage:       photo("1506794778202-cad84cf45f1d"),
			Country:            "GB",
			OnboardingComplete: true,
		},
		Position:     "Striker",
		PositionCode: "ST",
		Age:          17,
		Height:       model.Ptr(178),
		Weight:       model.Ptr(70),
		FavoriteClub: "mancity",
		Skills:       []string{"Speed", "Finishing", "Dribbling"},
		Achievements: []string{"Regional Champion 2022", "Top Scorer 2021"},
		Bio:          "Passionate striker with good finishing skills.",
	}
}

func seedManager(id string) model.ManagerProfile {
	return model.ManagerProfile{
		Base: model.Base{
			ID:                 id,
			Name:               "Sarah Johnson",
			Email:              "sarah@example.com",
			ProfileImage:       photo("1494790108377-be9c29b29330"),
			Country:            "GB",
			OnboardingComplete: true,
		},
		ClubID:     "club_1",
		ClubName:   "Manchester City",
		Role:       "Youth Team Coach",
		Experience: model.Ptr(8),
		Bio:        "Experienced youth coach with focus on player development.",
	}
}

func seedClub(id string) model.ClubProfile {
	return model.ClubProfile{
		Base: model.Base{
			ID:                 id,
			Name:               "Manchester City",
			Email:              "youth@mancity.com",
			ProfileImage:       mancityBadge,
			Country:            "GB",
			OnboardingComplete: true,
		},
		ClubName:    "Manchester City FC",
		Founded:     "1880",
		Location:    "Manchester, UK",
		Website:     "www.mancity.com",
		Logo:        mancityBadge,
		Description: "Premier League club with world-class youth academy.",
	}
}

// profileFor picks the canned profile by id prefix. Unknown prefixes get
// the player profile.
func profileFor(userID string) model.Profile {
	switch {
	case strings.HasPrefix(userID, "manager_"):
		return seedManager(userID)
	case strings.HasPrefix(userID, "club_"):
		return seedClub(userID)
	default:
		return seedPlayer(userID)
	}
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

var seedTrials = []model.Trial{
	{
		ID:          "trial_1",
		Title:       "Manchester City U18 Trials",
		ClubID:      "club_1",
		ClubName:    "Manchester City",
		Location:    "Manchester, UK",
		Date:        "2023-06-15",
		Description: "Join the Manchester City academy trials for under 18 players. Looking for talented players in all positions.",
		Positions:   []string{"ST", "CAM", "CB"},
		IsPremium:   true,
		Image:       photo("1522778119026-d647f0596c20"),
		CreatedAt:   at("2023-05-01T12:00:00Z"),
	},
	{
		ID:          "trial_2",
		Title:       "FC Barcelona Youth Tryouts",
		ClubID:      "club_2",
		ClubName:    "FC Barcelona",
		Location:    "Barcelona, Spain",
		Date:        "2023-07-10",
		Description: "FC Barcelona is looking for talented young players to join their prestigious academy.",
		Positions:   []string{"GK", "LW", "RW", "CM"},
		IsPremium:   true,
		Image:       photo("1574629810360-7efbbe195018"),
		CreatedAt:   at("2023-05-05T10:30:00Z"),
	},
	{
		ID:          "trial_3",
		Title:       "Local Club Tryouts",
		ClubID:      "club_3",
		ClubName:    "Local FC",
		Location:    "London, UK",
		Date:        "2023-06-05",
		Description: "Local football club looking for players of all positions for the upcoming season.",
		Positions:   []string{"ST", "CB", "GK", "LB", "RB"},
		IsPremium:   false,
		Image:       photo("1508098682722-e99c643e7f3b"),
		CreatedAt:   at("2023-05-10T14:15:00Z"),
	},
}

var seedApplications = []model.TrialApplication{
	{
		ID:             "app_1",
		TrialID:        "trial_1",
		PlayerID:       "player_1",
		PlayerName:     "John Smith",
		PlayerPosition: "ST",
		PlayerAge:      17,
		Status:         model.StatusPending,
		CreatedAt:      at("2023-05-15T09:30:00Z"),
	},
	{
		ID:             "app_2",
		TrialID:        "trial_1",
		PlayerID:       "player_2",
		PlayerName:     "Alex Johnson",
		PlayerPosition: "CAM",
		PlayerAge:      16,
		Status:         model.StatusAccepted,
		CreatedAt:      at("2023-05-16T11:45:00Z"),
	},
	{
		ID:             "app_3",
		TrialID:        "trial_2",
		PlayerID:       "player_1",
		PlayerName:     "John Smith",
		PlayerPosition: "ST",
		PlayerAge:      17,
		Status:         model.StatusPending,
		CreatedAt:      at("2023-05-17T14:20:00Z"),
	},
}

// SeedTrials returns a copy of the canned trial catalogue.
func SeedTrials() []model.Trial {
	out := make([]model.Trial, len(seedTrials))
	for i, t := range seedTrials {
		t.Positions = slices.Clone(t.Positions)
		out[i] = t
	}
	return out
}

// SeedApplications returns a copy of the canned applications, filtered by
// trialID unless it is empty.
func SeedApplications(trialID string) []model.TrialApplication {
	out := make([]model.TrialApplication, 0, len(seedApplications))
	for _, a := range seedApplications {
		if trialID == "" || a.TrialID == trialID {
			out = append(out, a)
		}
	}
	return out
}
