package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/brunobenavent/api-futbol/internal/domain/match"
	"github.com/brunobenavent/api-futbol/internal/domain/season"
	"github.com/brunobenavent/api-futbol/internal/domain/survivor"
	"github.com/brunobenavent/api-futbol/internal/platform/logging"
	"github.com/brunobenavent/api-futbol/internal/platform/resilience"
	"github.com/jonboulle/clockwork"
	"github.com/panjf2000/ants/v2"
)

const defaultEvaluateWorkers = 4

// RoundReport summarizes one evaluation call. Outcome is empty until the round settles.
// EliminatedCount only counts entries eliminated by this call; RoundEliminatedTotal
// counts every LOSE recorded for the round so far.
type RoundReport struct {
	GameID               string              `json:"gameId"`
	Round                int                 `json:"round"`
	EliminatedCount      int                 `json:"eliminatedCount"`
	RoundEliminatedTotal int                 `json:"roundEliminatedTotal"`
	SurvivorCount        int                 `json:"survivorCount"`
	DeferredCount        int                 `json:"deferredCount"`
	UndecidedMatches     int                 `json:"undecidedMatches"`
	Settled              bool                `json:"settled"`
	Outcome              survivor.Outcome    `json:"outcome,omitempty"`
	GameStatus           survivor.GameStatus `json:"gameStatus"`
	CurrentRound         int                 `json:"currentRound"`
	WinnerUserID         string              `json:"winnerUserId,omitempty"`
}

type EvaluationFailure struct {
	GameID  string `json:"gameId"`
	Round   int    `json:"round"`
	Message string `json:"message"`
}

type EvaluationBatchResult struct {
	GameCount    int                 `json:"gameCount"`
	SettledCount int                 `json:"settledCount"`
	PendingCount int                 `json:"pendingCount"`
	FailedCount  int                 `json:"failedCount"`
	WorkerCount  int                 `json:"workerCount"`
	Reports      []RoundReport       `json:"reports"`
	Failures     []EvaluationFailure `json:"failures,omitempty"`
}

// EvaluationService settles rounds from stored match results.
type EvaluationService struct {
	games   survivor.Repository
	seasons season.Repository
	matches match.Repository
	locks   *resilience.KeyedMutex
	workers int
	logger  *logging.Logger
	clock   clockwork.Clock
}

func NewEvaluationService(
	games survivor.Repository,
	seasons season.Repository,
	matches match.Repository,
	locks *resilience.KeyedMutex,
	workers int,
	logger *logging.Logger,
) *EvaluationService {
	if locks == nil {
		locks = resilience.NewKeyedMutex()
	}
	if workers <= 0 {
		workers = defaultEvaluateWorkers
	}
	return &EvaluationService{
		games:   games,
		seasons: seasons,
		matches: matches,
		locks:   locks,
		workers: workers,
		logger:  logger,
		clock:   clockwork.NewRealClock(),
	}
}

// EvaluateRound resolves every alive entry of the game for round and settles the game once
// no match of the round is SCHEDULED or LIVE. Calling it again on a settled round only reports.
func (s *EvaluationService) EvaluateRound(ctx context.Context, gameID string, round int) (RoundReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EvaluationService.EvaluateRound", gameAttr(gameID), roundAttr(round))
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return RoundReport{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if round < 1 {
		return RoundReport{}, fmt.Errorf("%w: round must be >= 1", ErrInvalidInput)
	}

	unlock, err := s.locks.Lock(ctx, gameID)
	if err != nil {
		return RoundReport{}, fmt.Errorf("acquire game lock: %w", err)
	}
	defer unlock()

	game, exists, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return RoundReport{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return RoundReport{}, notFound("game", gameID)
	}
	if _, exists, err := s.seasons.GetByID(ctx, game.SeasonID); err != nil {
		return RoundReport{}, fmt.Errorf("get season: %w", err)
	} else if !exists {
		return RoundReport{}, notFound("season", game.SeasonID)
	}

	if game.Status == survivor.GameStatusOpen {
		return RoundReport{}, survivor.ErrGameNotInProgress
	}
	if round > game.CurrentRound {
		return RoundReport{}, fmt.Errorf("%w: round=%d current=%d", survivor.ErrRoundNotReached, round, game.CurrentRound)
	}

	entries, err := s.games.ListEntries(ctx, game.ID)
	if err != nil {
		return RoundReport{}, fmt.Errorf("list entries: %w", err)
	}
	view, err := loadRoundView(ctx, s.matches, game.SeasonID, round)
	if err != nil {
		return RoundReport{}, err
	}

	if round < game.CurrentRound || game.Status != survivor.GameStatusInProgress {
		return settledReport(game, round, entries, view), nil
	}

	progress := survivor.ResolveRound(entries, view)
	settlement := survivor.Settlement{Entries: progress.Changed}
	report := RoundReport{
		GameID:           game.ID,
		Round:            round,
		SurvivorCount:    len(progress.Survivors),
		DeferredCount:    progress.Deferred,
		UndecidedMatches: view.Undecided(),
	}

	if progress.Closed {
		settled, outcome := survivor.SettleRound(game, progress.Survivors)
		settled.UpdatedAt = s.clock.Now().UTC()
		settlement.Game = &settled
		if outcome == survivor.OutcomeWinner && settled.Pot > 0 {
			settlement.Payout = &survivor.Payout{UserID: settled.WinnerUserID, Amount: settled.Pot}
		}
		report.Settled = true
		report.Outcome = outcome
		game = settled
	}

	if settlement.Game != nil || len(settlement.Entries) > 0 {
		now := s.clock.Now().UTC()
		for i := range settlement.Entries {
			settlement.Entries[i].UpdatedAt = now
		}
		if err := s.games.SaveSettlement(ctx, settlement); err != nil {
			return RoundReport{}, fmt.Errorf("save settlement: %w", err)
		}
	}

	report.EliminatedCount = progress.Eliminated
	report.RoundEliminatedTotal = countResults(mergeEntries(entries, progress.Changed), round, survivor.PickResultLose)
	report.GameStatus = game.Status
	report.CurrentRound = game.CurrentRound
	report.WinnerUserID = game.WinnerUserID

	s.logger.InfoContext(ctx, "round evaluated",
		"game_id", game.ID,
		"round", round,
		"eliminated", report.EliminatedCount,
		"eliminated_total", report.RoundEliminatedTotal,
		"survivors", report.SurvivorCount,
		"deferred", report.DeferredCount,
		"settled", report.Settled,
		"outcome", report.Outcome,
	)
	return report, nil
}

// EvaluateActiveGames evaluates the current round of every IN_PROGRESS game on a bounded pool.
func (s *EvaluationService) EvaluateActiveGames(ctx context.Context) (EvaluationBatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EvaluationService.EvaluateActiveGames")
	defer span.End()

	games, err := s.games.ListGames(ctx, survivor.GameStatusInProgress)
	if err != nil {
		return EvaluationBatchResult{}, fmt.Errorf("list active games: %w", err)
	}

	result := EvaluationBatchResult{
		GameCount:   len(games),
		WorkerCount: min(s.workers, max(len(games), 1)),
	}
	if len(games) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(result.WorkerCount)
	if err != nil {
		return EvaluationBatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		settledCount atomic.Int32
		pendingCount atomic.Int32
		mu           sync.Mutex
		workers      sync.WaitGroup
	)
	for _, game := range games {
		game := game
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			report, err := s.EvaluateRound(ctx, game.ID, game.CurrentRound)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.WarnContext(ctx, "evaluate game failed", "game_id", game.ID, "round", game.CurrentRound, "error", err)
				result.Failures = append(result.Failures, EvaluationFailure{
					GameID:  game.ID,
					Round:   game.CurrentRound,
					Message: err.Error(),
				})
				return
			}
			if report.Settled {
				settledCount.Add(1)
			} else {
				pendingCount.Add(1)
			}
			result.Reports = append(result.Reports, report)
		}); err != nil {
			workers.Done()
			return EvaluationBatchResult{}, fmt.Errorf("submit evaluation to worker pool: %w", err)
		}
	}
	workers.Wait()

	sort.SliceStable(result.Reports, func(i, j int) bool { return result.Reports[i].GameID < result.Reports[j].GameID })
	sort.SliceStable(result.Failures, func(i, j int) bool { return result.Failures[i].GameID < result.Failures[j].GameID })

	result.SettledCount = int(settledCount.Load())
	result.PendingCount = int(pendingCount.Load())
	result.FailedCount = len(result.Failures)
	return result, nil
}

// settledReport rebuilds the report of a round the game already moved past from the stored picks.
// Nothing is eliminated by such a call.
func settledReport(game survivor.Game, round int, entries []survivor.Entry, view survivor.RoundView) RoundReport {
	report := RoundReport{
		GameID:               game.ID,
		Round:                round,
		RoundEliminatedTotal: countResults(entries, round, survivor.PickResultLose),
		SurvivorCount:        countResults(entries, round, survivor.PickResultWin, survivor.PickResultVoid),
		UndecidedMatches:     view.Undecided(),
		Settled:              true,
		GameStatus:           game.Status,
		CurrentRound:         game.CurrentRound,
		WinnerUserID:         game.WinnerUserID,
	}
	if round < game.CurrentRound {
		report.Outcome = survivor.OutcomeContinue
		if report.SurvivorCount == 0 {
			report.Outcome = survivor.OutcomeResurrection
		}
		return report
	}
	if outcome, ok := survivor.ImpliedOutcome(game); ok {
		report.Outcome = outcome
	}
	return report
}

func countResults(entries []survivor.Entry, round int, results ...survivor.PickResult) int {
	n := 0
	for _, entry := range entries {
		pick, ok := entry.PickFor(round)
		if !ok {
			continue
		}
		for _, result := range results {
			if pick.Result == result {
				n++
				break
			}
		}
	}
	return n
}

func mergeEntries(entries, changed []survivor.Entry) []survivor.Entry {
	if len(changed) == 0 {
		return entries
	}
	byID := make(map[string]survivor.Entry, len(changed))
	for _, entry := range changed {
		byID[entry.ID] = entry
	}
	out := make([]survivor.Entry, 0, len(entries))
	for _, entry := range entries {
		if updated, ok := byID[entry.ID]; ok {
			entry = updated
		}
		out = append(out, entry)
	}
	return out
}
