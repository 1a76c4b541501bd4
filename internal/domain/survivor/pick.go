package survivor

import "time"

// PickRequest is a player's candidate pick for a round.
type PickRequest struct {
	Round        int
	MainTeamID   string
	BackupTeamID string
}

// CheckPickWindow runs the checks shared by submit, update and delete.
func CheckPickWindow(game Game, entry Entry, round int, view RoundView, lead time.Duration, now time.Time) error {
	if game.Status == GameStatusFinished || game.Status == GameStatusWaitingResurrection {
		return ErrPicksClosed
	}
	if !entry.IsAlive {
		return ErrEntryEliminated
	}
	if round != game.CurrentRound {
		return ErrRoundMismatch
	}
	if deadline, ok := view.Deadline(lead); ok && now.After(deadline) {
		return ErrDeadlinePassed
	}
	if existing, ok := entry.PickFor(round); ok && existing.Result.Terminal() {
		return ErrPickSettled
	}
	return nil
}

// ValidatePick checks a submit or update against the window and the entry's used teams.
// Once the round's fixtures are known, both teams must play in it.
func ValidatePick(game Game, entry Entry, req PickRequest, view RoundView, lead time.Duration, now time.Time) error {
	if err := CheckPickWindow(game, entry, req.Round, view, lead, now); err != nil {
		return err
	}
	if entry.HasUsed(req.MainTeamID) || entry.HasUsed(req.BackupTeamID) {
		return ErrTeamAlreadyUsed
	}
	if len(view.matches) > 0 {
		for _, teamID := range []string{req.MainTeamID, req.BackupTeamID} {
			if _, ok := view.MatchFor(teamID); !ok {
				return ErrTeamNotPlaying
			}
		}
	}
	return nil
}

// NewPendingPick builds the pick stored on accept.
func NewPendingPick(req PickRequest) Pick {
	return Pick{
		Round:        req.Round,
		MainTeamID:   req.MainTeamID,
		BackupTeamID: req.BackupTeamID,
		Result:       PickResultPending,
	}
}
