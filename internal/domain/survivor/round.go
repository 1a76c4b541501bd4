package survivor

import (
	"time"

	"github.com/brunobenavent/api-futbol/internal/domain/match"
)

// RoundView is a read-only snapshot of one round's matches.
type RoundView struct {
	round     int
	matches   []match.Match
	byTeam    map[string]match.Match
	undecided int
	earliest  *time.Time
}

// NewRoundView indexes matches by team. Matches belonging to other rounds are ignored.
func NewRoundView(round int, matches []match.Match) RoundView {
	view := RoundView{
		round:  round,
		byTeam: make(map[string]match.Match, len(matches)*2),
	}
	for _, m := range matches {
		if m.Round != round {
			continue
		}
		view.matches = append(view.matches, m)
		view.byTeam[m.HomeTeamID] = m
		view.byTeam[m.AwayTeamID] = m
		if m.Status.Undecided() {
			view.undecided++
		}
		if m.KickoffAt != nil && (view.earliest == nil || m.KickoffAt.Before(*view.earliest)) {
			kickoff := *m.KickoffAt
			view.earliest = &kickoff
		}
	}
	return view
}

func (v RoundView) Round() int {
	return v.round
}

func (v RoundView) Matches() []match.Match {
	return append([]match.Match(nil), v.matches...)
}

// Undecided counts matches still SCHEDULED or LIVE.
func (v RoundView) Undecided() int {
	return v.undecided
}

// Closed reports that every match of the round left SCHEDULED/LIVE.
// A round with no known matches is never closed.
func (v RoundView) Closed() bool {
	return len(v.matches) > 0 && v.undecided == 0
}

// Started reports whether any match has left SCHEDULED.
func (v RoundView) Started() bool {
	for _, m := range v.matches {
		if m.Status != match.StatusScheduled {
			return true
		}
	}
	return false
}

func (v RoundView) MatchFor(teamID string) (match.Match, bool) {
	m, ok := v.byTeam[teamID]
	return m, ok
}

// Deadline is the earliest known kickoff minus lead. ok is false when no kickoff is known.
func (v RoundView) Deadline(lead time.Duration) (time.Time, bool) {
	if v.earliest == nil {
		return time.Time{}, false
	}
	return v.earliest.Add(-lead), true
}
