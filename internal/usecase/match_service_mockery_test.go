package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brunobenavent/api-futbol/internal/domain/match"
	"github.com/brunobenavent/api-futbol/internal/domain/season"
	matchmock "github.com/brunobenavent/api-futbol/internal/mocks/domain/match"
	seasonmock "github.com/brunobenavent/api-futbol/internal/mocks/domain/season"
	"github.com/brunobenavent/api-futbol/internal/platform/logging"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/mock"
)

func intPtr(v int) *int { return &v }

var testSeason = season.Season{
	ID:      "laliga-2025",
	Year:    2025,
	Rounds:  38,
	TeamIDs: []string{"real-madrid", "barcelona", "atletico", "sevilla"},
}

func TestMatchService_Ingest_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	seasonRepo := seasonmock.NewRepository(t)
	matchRepo := matchmock.NewRepository(t)

	now := time.Date(2025, 9, 14, 20, 0, 0, 0, time.UTC)
	svc := NewMatchService(matchRepo, seasonRepo, logging.NewNop())
	svc.clock = clockwork.NewFakeClockAt(now)

	seasonRepo.
		On("GetByID", mock.Anything, "laliga-2025").
		Return(testSeason, true, nil).
		Once()
	matchRepo.
		On("UpsertMany", mock.Anything, mock.MatchedBy(func(items []match.Match) bool {
			return len(items) == 2 &&
				items[0].Status == match.StatusScheduled &&
				items[1].Status == match.StatusFinished &&
				items[0].UpdatedAt.Equal(now)
		})).
		Return(nil).
		Once()

	count, err := svc.Ingest(ctx, []match.Match{
		{ID: "m1", SeasonID: "laliga-2025", Round: 4, HomeTeamID: "real-madrid", AwayTeamID: "barcelona"},
		{ID: "m2", SeasonID: "laliga-2025", Round: 4, HomeTeamID: "atletico", AwayTeamID: "sevilla", Status: "finished", HomeScore: intPtr(1), AwayScore: intPtr(1)},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if count != 2 {
		t.Fatalf("unexpected count: %d", count)
	}
}

func TestMatchService_Ingest_RejectsInvalidRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		item  match.Match
		setup func(*seasonmock.Repository)
		want  error
	}{
		{
			name: "score on scheduled match",
			item: match.Match{ID: "m1", SeasonID: "laliga-2025", Round: 1, HomeTeamID: "real-madrid", AwayTeamID: "barcelona", HomeScore: intPtr(1), AwayScore: intPtr(0)},
			want: ErrInvalidInput,
		},
		{
			name: "unknown status",
			item: match.Match{ID: "m1", SeasonID: "laliga-2025", Round: 1, HomeTeamID: "real-madrid", AwayTeamID: "barcelona", Status: "abandoned"},
			want: ErrInvalidInput,
		},
		{
			name: "round outside season",
			item: match.Match{ID: "m1", SeasonID: "laliga-2025", Round: 39, HomeTeamID: "real-madrid", AwayTeamID: "barcelona"},
			setup: func(r *seasonmock.Repository) {
				r.On("GetByID", mock.Anything, "laliga-2025").Return(testSeason, true, nil).Once()
			},
			want: ErrInvalidInput,
		},
		{
			name: "team outside season",
			item: match.Match{ID: "m1", SeasonID: "laliga-2025", Round: 1, HomeTeamID: "real-madrid", AwayTeamID: "arsenal"},
			setup: func(r *seasonmock.Repository) {
				r.On("GetByID", mock.Anything, "laliga-2025").Return(testSeason, true, nil).Once()
			},
			want: ErrInvalidInput,
		},
		{
			name: "unknown season",
			item: match.Match{ID: "m1", SeasonID: "premier-2025", Round: 1, HomeTeamID: "arsenal", AwayTeamID: "chelsea"},
			setup: func(r *seasonmock.Repository) {
				r.On("GetByID", mock.Anything, "premier-2025").Return(season.Season{}, false, nil).Once()
			},
			want: ErrNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seasonRepo := seasonmock.NewRepository(t)
			matchRepo := matchmock.NewRepository(t)
			if tc.setup != nil {
				tc.setup(seasonRepo)
			}

			svc := NewMatchService(matchRepo, seasonRepo, logging.NewNop())
			_, err := svc.Ingest(context.Background(), []match.Match{tc.item})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestMatchService_ListByRound_OrdersByKickoff(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	seasonRepo := seasonmock.NewRepository(t)
	matchRepo := matchmock.NewRepository(t)
	svc := NewMatchService(matchRepo, seasonRepo, logging.NewNop())

	early := time.Date(2025, 9, 13, 14, 0, 0, 0, time.UTC)
	late := early.Add(5 * time.Hour)

	seasonRepo.On("GetByID", mock.Anything, "laliga-2025").Return(testSeason, true, nil).Twice()
	matchRepo.
		On("ListBySeasonAndRound", mock.Anything, "laliga-2025", 4).
		Return([]match.Match{{ID: "m-late", KickoffAt: &late}, {ID: "m-early", KickoffAt: &early}}, nil).
		Once()

	got, err := svc.ListByRound(ctx, "laliga-2025", 4)
	if err != nil {
		t.Fatalf("list by round: %v", err)
	}
	if len(got) != 2 || got[0].ID != "m-early" {
		t.Fatalf("unexpected order: %+v", got)
	}

	if _, err := svc.ListByRound(ctx, "laliga-2025", 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for round 0, got %v", err)
	}
}
