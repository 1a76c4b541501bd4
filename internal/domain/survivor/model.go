package survivor

import (
	"sort"
	"time"
)

type GameStatus string

const (
	GameStatusOpen                GameStatus = "OPEN"
	GameStatusInProgress          GameStatus = "IN_PROGRESS"
	GameStatusWaitingResurrection GameStatus = "WAITING_RESURRECTION"
	GameStatusFinished            GameStatus = "FINISHED"
)

func (s GameStatus) Valid() bool {
	switch s {
	case GameStatusOpen, GameStatusInProgress, GameStatusWaitingResurrection, GameStatusFinished:
		return true
	default:
		return false
	}
}

type PickResult string

const (
	PickResultPending PickResult = "PENDING"
	PickResultWin     PickResult = "WIN"
	PickResultLose    PickResult = "LOSE"
	PickResultVoid    PickResult = "VOID"
	// PickResultDraw is reserved. Ties count as a loss, so the evaluator never writes it.
	PickResultDraw PickResult = "DRAW"
)

// Terminal reports whether the evaluator has already decided the pick.
func (r PickResult) Terminal() bool {
	switch r {
	case PickResultWin, PickResultLose, PickResultVoid, PickResultDraw:
		return true
	default:
		return false
	}
}

// Outcome is the game-level effect of a settled round.
type Outcome string

const (
	OutcomeContinue     Outcome = "CONTINUE"
	OutcomeWinner       Outcome = "WINNER"
	OutcomeResurrection Outcome = "RESURRECTION"
)

// Game is one survivor pool. WinnerUserID stays empty until the game finishes with a winner.
type Game struct {
	ID           string
	Name         string
	SeasonID     string
	Status       GameStatus
	EntryPrice   int64
	Pot          int64
	CurrentRound int
	WinnerUserID string
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (g Game) HasWinner() bool {
	return g.WinnerUserID != ""
}

// Pick is a player's choice for one round. Result and UsedBackup are written by the evaluator only.
type Pick struct {
	Round        int
	MainTeamID   string
	BackupTeamID string
	Result       PickResult
	UsedBackup   bool
}

// Entry is one user's enrollment in one game.
type Entry struct {
	ID           string
	GameID       string
	UserID       string
	PlayerNumber int
	IsAlive      bool
	UsedTeams    []string
	Picks        []Pick
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e Entry) Clone() Entry {
	out := e
	out.UsedTeams = append([]string(nil), e.UsedTeams...)
	out.Picks = append([]Pick(nil), e.Picks...)
	return out
}

func (e Entry) PickFor(round int) (Pick, bool) {
	for _, p := range e.Picks {
		if p.Round == round {
			return p, true
		}
	}
	return Pick{}, false
}

func (e Entry) HasUsed(teamID string) bool {
	for _, id := range e.UsedTeams {
		if id == teamID {
			return true
		}
	}
	return false
}

// SetPick replaces the pick for p.Round or appends it, keeping picks ordered by round.
func (e *Entry) SetPick(p Pick) {
	for i := range e.Picks {
		if e.Picks[i].Round == p.Round {
			e.Picks[i] = p
			return
		}
	}
	e.Picks = append(e.Picks, p)
	sort.SliceStable(e.Picks, func(i, j int) bool { return e.Picks[i].Round < e.Picks[j].Round })
}

func (e *Entry) RemovePick(round int) bool {
	for i := range e.Picks {
		if e.Picks[i].Round == round {
			e.Picks = append(e.Picks[:i], e.Picks[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Entry) markUsed(teamID string) {
	if teamID == "" || e.HasUsed(teamID) {
		return
	}
	e.UsedTeams = append(e.UsedTeams, teamID)
}

// SortForStanding orders alive entries first, then by player number.
func SortForStanding(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsAlive != entries[j].IsAlive {
			return entries[i].IsAlive
		}
		return entries[i].PlayerNumber < entries[j].PlayerNumber
	})
}

func CountAlive(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.IsAlive {
			n++
		}
	}
	return n
}
