package survivor

import (
	"errors"
	"fmt"
)

// Categories. Every rejection below wraps exactly one of them.
var (
	ErrInvalidPhase      = errors.New("invalid game phase")
	ErrIneligible        = errors.New("ineligible")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrVersionConflict   = errors.New("concurrent modification")
)

var (
	ErrGameNotOpen            = fmt.Errorf("%w: game is not open", ErrInvalidPhase)
	ErrGameNotInProgress      = fmt.Errorf("%w: game is not in progress", ErrInvalidPhase)
	ErrPicksClosed            = fmt.Errorf("%w: picks are not accepted in this phase", ErrInvalidPhase)
	ErrNotWaitingResurrection = fmt.Errorf("%w: game is not waiting for resurrections", ErrInvalidPhase)
	ErrRoundNotReached        = fmt.Errorf("%w: round has not been reached", ErrInvalidPhase)
	ErrEntryEliminated        = fmt.Errorf("%w: entry is eliminated", ErrIneligible)
	ErrEntryAlive             = fmt.Errorf("%w: entry is still alive", ErrIneligible)
	ErrRoundMismatch          = fmt.Errorf("%w: picks are only accepted for the current round", ErrIneligible)
	ErrTeamAlreadyUsed        = fmt.Errorf("%w: team was already used to win", ErrIneligible)
	ErrTeamNotPlaying         = fmt.Errorf("%w: team has no match in this round", ErrIneligible)
	ErrDeadlinePassed         = fmt.Errorf("%w: pick deadline has passed", ErrIneligible)
	ErrPickSettled            = fmt.Errorf("%w: pick for this round is already settled", ErrIneligible)
	ErrAlreadyJoined          = fmt.Errorf("%w: user already joined this game", ErrIneligible)
	ErrNotEnoughPlayers       = fmt.Errorf("%w: not enough players to start", ErrIneligible)
	ErrRoundAlreadyStarted    = fmt.Errorf("%w: active round already started", ErrIneligible)
	ErrBalanceTooLow          = fmt.Errorf("%w: token balance is too low", ErrInsufficientFunds)
	ErrStaleGame              = fmt.Errorf("%w: game changed, retry", ErrVersionConflict)
	ErrStaleEntry             = fmt.Errorf("%w: entry changed, retry", ErrVersionConflict)
)
