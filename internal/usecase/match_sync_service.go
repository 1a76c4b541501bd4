package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/brunobenavent/api-futbol/internal/domain/match"
	"github.com/brunobenavent/api-futbol/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const defaultSyncConcurrency = 4

type SyncedRound struct {
	SeasonID string `json:"seasonId"`
	Round    int    `json:"round"`
	Records  int    `json:"records"`
}

type MatchSyncResult struct {
	Rounds   []SyncedRound `json:"rounds"`
	Ingested int           `json:"ingested"`
	Failures []string      `json:"failures,omitempty"`
}

type fetchedRound struct {
	seasonID string
	round    int
	items    []match.Match
}

// MatchSyncService pulls the active round and the one before it for each configured season
// and writes them through MatchService.
type MatchSyncService struct {
	feed        MatchFeed
	rounds      ActiveRoundResolver
	ingest      *MatchService
	seasonIDs   []string
	concurrency int
	logger      *logging.Logger
}

func NewMatchSyncService(
	feed MatchFeed,
	rounds ActiveRoundResolver,
	ingest *MatchService,
	seasonIDs []string,
	concurrency int,
	logger *logging.Logger,
) *MatchSyncService {
	if concurrency <= 0 {
		concurrency = defaultSyncConcurrency
	}
	return &MatchSyncService{
		feed:        feed,
		rounds:      rounds,
		ingest:      ingest,
		seasonIDs:   seasonIDs,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (s *MatchSyncService) Sync(ctx context.Context) (MatchSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.Sync")
	defer span.End()

	if s.feed == nil {
		return MatchSyncResult{}, fmt.Errorf("%w: results feed is disabled", ErrDependencyUnavailable)
	}

	type target struct {
		seasonID string
		round    int
	}
	var (
		targets []target
		result  MatchSyncResult
	)
	for _, seasonID := range s.seasonIDs {
		seasonID = strings.TrimSpace(seasonID)
		if seasonID == "" {
			continue
		}
		active, err := s.rounds.ActiveRound(ctx, seasonID)
		if err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("season=%s: resolve active round: %v", seasonID, err))
			continue
		}
		if active > 1 {
			targets = append(targets, target{seasonID: seasonID, round: active - 1})
		}
		targets = append(targets, target{seasonID: seasonID, round: active})
	}
	if len(targets) == 0 {
		return result, nil
	}

	fetchers := pool.NewWithResults[fetchedRound]().
		WithContext(ctx).
		WithMaxGoroutines(min(s.concurrency, len(targets)))
	for _, t := range targets {
		t := t
		fetchers.Go(func(ctx context.Context) (fetchedRound, error) {
			items, err := s.feed.FetchRound(ctx, t.seasonID, t.round)
			if err != nil {
				return fetchedRound{}, fmt.Errorf("season=%s round=%d: %w", t.seasonID, t.round, err)
			}
			return fetchedRound{seasonID: t.seasonID, round: t.round, items: items}, nil
		})
	}
	fetched, err := fetchers.Wait()
	if err != nil {
		s.logger.WarnContext(ctx, "results feed fetch failed", "error", err)
		result.Failures = append(result.Failures, err.Error())
		if len(fetched) == 0 {
			return result, fmt.Errorf("%w: results feed: %v", ErrDependencyUnavailable, err)
		}
	}

	sort.SliceStable(fetched, func(i, j int) bool {
		if fetched[i].seasonID != fetched[j].seasonID {
			return fetched[i].seasonID < fetched[j].seasonID
		}
		return fetched[i].round < fetched[j].round
	})

	var batch []match.Match
	for _, f := range fetched {
		result.Rounds = append(result.Rounds, SyncedRound{SeasonID: f.seasonID, Round: f.round, Records: len(f.items)})
		batch = append(batch, f.items...)
	}
	if len(batch) == 0 {
		return result, nil
	}

	count, err := s.ingest.Ingest(ctx, batch)
	if err != nil {
		return result, fmt.Errorf("ingest synced matches: %w", err)
	}
	result.Ingested = count

	s.logger.InfoContext(ctx, "matches synced", "rounds", len(result.Rounds), "ingested", count)
	return result, nil
}
