package match

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusLive      Status = "LIVE"
	StatusFinished  Status = "FINISHED"
	StatusPostponed Status = "POSTPONED"
	StatusSuspended Status = "SUSPENDED"
)

// Match is one fixture of a season round as published by the acquisition pipeline.
type Match struct {
	ID            string
	SeasonID      string
	Round         int
	HomeTeamID    string
	AwayTeamID    string
	KickoffAt     *time.Time
	Status        Status
	HomeScore     *int
	AwayScore     *int
	Stadium       string
	SourceURL     string
	CurrentMinute string
	UpdatedAt     time.Time
}

func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(value)))
	if status == "" {
		return StatusScheduled, nil
	}
	switch status {
	case StatusScheduled, StatusLive, StatusFinished, StatusPostponed, StatusSuspended:
		return status, nil
	default:
		return "", fmt.Errorf("unknown match status %q", value)
	}
}

// Undecided reports whether the match may still change the outcome of its round.
func (s Status) Undecided() bool {
	return s == StatusScheduled || s == StatusLive
}

// Deferred reports whether the match will not be played on its original date.
func (s Status) Deferred() bool {
	return s == StatusPostponed || s == StatusSuspended
}

func (m Match) Involves(teamID string) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}

// HasResult reports whether the match is finished with both scores known.
func (m Match) HasResult() bool {
	return m.Status == StatusFinished && m.HomeScore != nil && m.AwayScore != nil
}

// WonBy reports a strict win for teamID. Callers must check HasResult first.
func (m Match) WonBy(teamID string) bool {
	if !m.HasResult() {
		return false
	}
	switch teamID {
	case m.HomeTeamID:
		return *m.HomeScore > *m.AwayScore
	case m.AwayTeamID:
		return *m.AwayScore > *m.HomeScore
	default:
		return false
	}
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("match id is required")
	}
	if strings.TrimSpace(m.SeasonID) == "" {
		return fmt.Errorf("match season id is required")
	}
	if m.Round <= 0 {
		return fmt.Errorf("match round must be > 0")
	}
	if strings.TrimSpace(m.HomeTeamID) == "" || strings.TrimSpace(m.AwayTeamID) == "" {
		return fmt.Errorf("match teams are required")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("match home and away team must differ")
	}
	if _, err := ParseStatus(string(m.Status)); err != nil {
		return err
	}
	if (m.HomeScore == nil) != (m.AwayScore == nil) {
		return fmt.Errorf("match scores must be both set or both empty")
	}
	if m.HomeScore != nil {
		if m.Status != StatusLive && m.Status != StatusFinished {
			return fmt.Errorf("match scores are only allowed for %s or %s, got %s", StatusLive, StatusFinished, m.Status)
		}
		if *m.HomeScore < 0 || *m.AwayScore < 0 {
			return fmt.Errorf("match scores must be >= 0")
		}
	}

	return nil
}
