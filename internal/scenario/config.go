package scenario

import "time"

// Config holds configuration for a scenario run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Players    int           // Number of players to sign up
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for the run report
	LogFile    string        // Log file for scenario output
	Verbose    bool          // Enable verbose logging
}

// Player is a signed-up account the scenario drives.
type Player struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
}

// Trial is the subset of a trial the scenario reads back.
type Trial struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Application is the subset of an application the scenario reads back.
type Application struct {
	ID       string `json:"id"`
	TrialID  string `json:"trialId"`
	PlayerID string `json:"playerId"`
	Status   string `json:"status"`
}

// Stats holds run statistics.
type Stats struct {
	PlayersSignedUp       int           `json:"playersSignedUp"`
	ApplicationsSubmitted int           `json:"applicationsSubmitted"`
	ApplicationsAccepted  int           `json:"applicationsAccepted"`
	ApplicationsDuplicate int           `json:"applicationsDuplicate"`
	ApplicationsFailed    int           `json:"applicationsFailed"`
	Verified              int           `json:"verified"`
	StartTime             time.Time     `json:"startTime"`
	EndTime               time.Time     `json:"endTime"`
	Duration              time.Duration `json:"duration"`
}

// Report is what Run writes to the output file.
type Report struct {
	TrialID string   `json:"trialId"`
	Players []Player `json:"players"`
	Stats   Stats    `json:"stats"`
}
