package httpapi

import (
	"net/http"

	"github.com/brunobenavent/api-futbol/internal/usecase"
)

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGame")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createGameRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	game, err := h.gameService.CreateGame(ctx, usecase.CreateGameInput{
		Actor:      principal,
		Name:       req.Name,
		SeasonYear: req.SeasonYear,
		EntryPrice: req.EntryPrice,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create game failed", "season_year", req.SeasonYear, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, gameToDTO(game))
}

func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartGame")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	gameID := r.PathValue("gameID")
	game, err := h.gameService.Start(ctx, usecase.GameActionInput{Actor: principal, GameID: gameID})
	if err != nil {
		h.logger.WarnContext(ctx, "start game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, gameToDTO(game))
}

func (h *Handler) CloseResurrection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseResurrection")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	gameID := r.PathValue("gameID")
	game, err := h.gameService.CloseResurrection(ctx, usecase.GameActionInput{Actor: principal, GameID: gameID})
	if err != nil {
		h.logger.WarnContext(ctx, "close resurrection failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, gameToDTO(game))
}

func (h *Handler) EvaluateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EvaluateRound")
	defer span.End()

	gameID := r.PathValue("gameID")
	round, err := pathInt(r, "round")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.evaluationService.EvaluateRound(ctx, gameID, round)
	if err != nil {
		h.logger.WarnContext(ctx, "evaluate round failed", "game_id", gameID, "round", round, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) AdjustTokens(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdjustTokens")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req adjustTokensRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	userID := r.PathValue("userID")
	updated, err := h.tokenService.Adjust(ctx, usecase.AdjustTokensInput{
		Actor:     principal,
		UserID:    userID,
		Operation: req.Operation,
		Amount:    req.Amount,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "adjust tokens failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, userToDTO(updated))
}
