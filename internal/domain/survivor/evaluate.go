package survivor

// Resolution describes what evaluating one entry did.
type Resolution string

const (
	ResolutionDeferred Resolution = "deferred"
	ResolutionSettled  Resolution = "settled"
	ResolutionWon      Resolution = "won"
	ResolutionLost     Resolution = "lost"
	ResolutionVoided   Resolution = "voided"
	ResolutionNoShow   Resolution = "no_show"
)

// Changed reports whether the entry must be persisted.
func (r Resolution) Changed() bool {
	switch r {
	case ResolutionWon, ResolutionLost, ResolutionVoided, ResolutionNoShow:
		return true
	default:
		return false
	}
}

// ResolveEntry evaluates an alive entry's pick for the view's round and returns the updated copy.
func ResolveEntry(entry Entry, view RoundView) (Entry, Resolution) {
	out := entry.Clone()
	round := view.Round()

	pick, ok := out.PickFor(round)
	if !ok {
		if !view.Closed() {
			return out, ResolutionDeferred
		}
		out.IsAlive = false
		out.SetPick(Pick{Round: round, Result: PickResultLose})
		return out, ResolutionNoShow
	}
	if pick.Result.Terminal() {
		return out, ResolutionSettled
	}

	teamID := pick.MainTeamID
	usedBackup := false
	selected, found := view.MatchFor(pick.MainTeamID)
	if found && selected.Status.Deferred() {
		teamID = pick.BackupTeamID
		usedBackup = true
		selected, found = view.MatchFor(pick.BackupTeamID)
	}

	if !found || !selected.HasResult() {
		if !view.Closed() {
			return out, ResolutionDeferred
		}
		pick.Result = PickResultVoid
		pick.UsedBackup = usedBackup
		out.SetPick(pick)
		return out, ResolutionVoided
	}

	pick.UsedBackup = usedBackup
	if selected.WonBy(teamID) {
		pick.Result = PickResultWin
		out.SetPick(pick)
		out.markUsed(teamID)
		return out, ResolutionWon
	}

	pick.Result = PickResultLose
	out.SetPick(pick)
	out.IsAlive = false
	return out, ResolutionLost
}

// RoundProgress is the result of resolving every alive entry of a game for one round.
type RoundProgress struct {
	Changed    []Entry
	Eliminated int
	Survivors  []Entry
	Deferred   int
	Closed     bool
}

// ResolveRound resolves the alive entries among entries. Eliminated entries are skipped.
func ResolveRound(entries []Entry, view RoundView) RoundProgress {
	progress := RoundProgress{Closed: view.Closed()}
	for _, entry := range entries {
		if !entry.IsAlive {
			continue
		}
		resolved, resolution := ResolveEntry(entry, view)
		if resolution.Changed() {
			progress.Changed = append(progress.Changed, resolved)
		}
		switch resolution {
		case ResolutionDeferred:
			progress.Deferred++
		case ResolutionLost, ResolutionNoShow:
			progress.Eliminated++
		}
		if resolved.IsAlive {
			progress.Survivors = append(progress.Survivors, resolved)
		}
	}
	return progress
}

// SettleRound applies the phase transition for a closed round and returns the new game state.
func SettleRound(game Game, survivors []Entry) (Game, Outcome) {
	switch len(survivors) {
	case 0:
		game.Status = GameStatusWaitingResurrection
		return game, OutcomeResurrection
	case 1:
		game.Status = GameStatusFinished
		game.WinnerUserID = survivors[0].UserID
		return game, OutcomeWinner
	default:
		game.CurrentRound++
		return game, OutcomeContinue
	}
}

// ImpliedOutcome reports the outcome already recorded on a game that settled its current round.
// A game finished without a winner has no outcome.
func ImpliedOutcome(game Game) (Outcome, bool) {
	switch game.Status {
	case GameStatusFinished:
		if game.HasWinner() {
			return OutcomeWinner, true
		}
		return "", false
	case GameStatusWaitingResurrection:
		return OutcomeResurrection, true
	case GameStatusInProgress:
		return OutcomeContinue, true
	default:
		return "", false
	}
}
