package model

import (
	"slices"
	"time"
)

// ApplicationStatus is the review state of a trial application.
type ApplicationStatus string

// Application statuses.
const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// Reviewable reports whether s is a status a reviewer may set.
func (s ApplicationStatus) Reviewable() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Trial is a tryout event posted by a club or manager.
type Trial struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ClubID      string    `json:"clubId"`
	ClubName    string    `json:"clubName"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Positions   []string  `json:"positions"` // position codes, ordered
	IsPremium   bool      `json:"isPremium"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TrialDraft is a trial before the boundary assigns its id and timestamp.
type TrialDraft struct {
	Title       string   `json:"title"`
	ClubID      string   `json:"clubId"`
	ClubName    string   `json:"clubName"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Positions   []string `json:"positions"`
	IsPremium   bool     `json:"isPremium"`
	Image       string   `json:"image"`
}

// Build returns the trial for d with the given identity.
func (d TrialDraft) Build(id string, createdAt time.Time) Trial {
	return Trial{
		ID:          id,
		Title:       d.Title,
		ClubID:      d.ClubID,
		ClubName:    d.ClubName,
		Location:    d.Location,
		Date:        d.Date,
		Description: d.Description,
		Positions:   slices.Clone(d.Positions),
		IsPremium:   d.IsPremium,
		Image:       d.Image,
		CreatedAt:   createdAt,
	}
}

// TrialPatch is a shallow partial update of a trial. Identity fields are not
// patchable.
type TrialPatch struct {
	Title       *string   `json:"title,omitempty"`
	ClubID      *string   `json:"clubId,omitempty"`
	ClubName    *string   `json:"clubName,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Date        *string   `json:"date,omitempty"`
	Description *string   `json:"description,omitempty"`
	Positions   *[]string `json:"positions,omitempty"`
	IsPremium   *bool     `json:"isPremium,omitempty"`
	Image       *string   `json:"image,omitempty"`
}

// Apply returns t with the fields set in p overwritten.
func (t Trial) Apply(p TrialPatch) Trial {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.ClubID != nil {
		t.ClubID = *p.ClubID
	}
	if p.ClubName != nil {
		t.ClubName = *p.ClubName
	}
	if p.Location != nil {
		t.Location = *p.Location
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Positions != nil {
		t.Positions = slices.Clone(*p.Positions)
	}
	if p.IsPremium != nil {
		t.IsPremium = *p.IsPremium
	}
	if p.Image != nil {
		t.Image = *p.Image
	}
	return t
}

// AcceptsPosition reports whether the trial lists the position code.
func (t Trial) AcceptsPosition(code string) bool {
	return slices.Contains(t.Positions, code)
}

// TrialApplication is a player's application to a trial.
type TrialApplication struct {
	ID             string            `json:"id"`
	TrialID        string            `json:"trialId"`
	PlayerID       string            `json:"playerId"`
	PlayerName     string            `json:"playerName"`
	PlayerPosition string            `json:"playerPosition"`
	PlayerAge      int               `json:"playerAge"`
	Status         ApplicationStatus `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// ApplicationRequest carries what a player submits when applying.
type ApplicationRequest struct {
	TrialID        string `json:"trialId"`
	PlayerID       string `json:"playerId"`
	PlayerName     string `json:"playerName"`
	PlayerPosition string `json:"playerPosition"`
	PlayerAge      int    `json:"playerAge"`
}
