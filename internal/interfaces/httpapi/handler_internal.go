package httpapi

import (
	"fmt"
	"net/http"

	"github.com/brunobenavent/api-futbol/internal/domain/match"
	"github.com/brunobenavent/api-futbol/internal/usecase"
)

func (h *Handler) IngestMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestMatches")
	defer span.End()

	var req ingestMatchesRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]match.Match, 0, len(req.Matches))
	for _, record := range req.Matches {
		items = append(items, record.toMatch())
	}

	count, err := h.matchService.Ingest(ctx, items)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest matches failed", "records", len(items), "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, ingestResultDTO{Ingested: count})
}

func (h *Handler) RunSyncMatchesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncMatchesJob")
	defer span.End()

	if h.matchSyncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: match sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.matchSyncService.Sync(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run sync matches job failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	h.logger.InfoContext(ctx, "sync matches job completed", "rounds", len(result.Rounds), "ingested", result.Ingested, "failures", len(result.Failures))
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunEvaluateJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunEvaluateJob")
	defer span.End()

	result, err := h.evaluationService.EvaluateActiveGames(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run evaluate job failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	h.logger.InfoContext(ctx, "evaluate job completed",
		"games", result.GameCount,
		"settled", result.SettledCount,
		"pending", result.PendingCount,
		"failed", result.FailedCount,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}
