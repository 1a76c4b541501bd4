package httpapi

import (
	"context"
	"net/http"

	"github.com/brunobenavent/api-futbol/internal/domain/survivor"
	"github.com/brunobenavent/api-futbol/internal/usecase"
)

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	games, err := h.gameService.ListGames(ctx, r.URL.Query().Get("status"))
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(g))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	details, err := h.gameService.GetGameDetails(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, gameDetailsToDTO(details))
}

func (h *Handler) JoinGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinGame")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	gameID := r.PathValue("gameID")
	entry, err := h.gameService.Join(ctx, usecase.JoinGameInput{GameID: gameID, UserID: principal.UserID})
	if err != nil {
		h.logger.WarnContext(ctx, "join game failed", "game_id", gameID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, entryToDTO(entry))
}

func (h *Handler) SubmitPick(w http.ResponseWriter, r *http.Request) {
	h.savePick(w, r, "httpapi.Handler.SubmitPick", h.pickService.Submit)
}

func (h *Handler) UpdatePick(w http.ResponseWriter, r *http.Request) {
	h.savePick(w, r, "httpapi.Handler.UpdatePick", h.pickService.Update)
}

func (h *Handler) savePick(
	w http.ResponseWriter,
	r *http.Request,
	spanName string,
	save func(ctx context.Context, input usecase.PickInput) (survivor.Entry, error),
) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req pickRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	gameID := r.PathValue("gameID")
	entry, err := save(ctx, usecase.PickInput{
		UserID:       principal.UserID,
		GameID:       gameID,
		Round:        req.Round,
		MainTeamID:   req.MainTeamID,
		BackupTeamID: req.BackupTeamID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save pick failed", "game_id", gameID, "user_id", principal.UserID, "round", req.Round, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, entryToDTO(entry))
}

func (h *Handler) DeletePick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePick")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req deletePickRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	gameID := r.PathValue("gameID")
	entry, err := h.pickService.Delete(ctx, usecase.DeletePickInput{
		UserID: principal.UserID,
		GameID: gameID,
		Round:  req.Round,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "delete pick failed", "game_id", gameID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, entryToDTO(entry))
}

func (h *Handler) ResurrectEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResurrectEntry")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	gameID := r.PathValue("gameID")
	entryID := r.PathValue("entryID")
	entry, err := h.gameService.Resurrect(ctx, usecase.ResurrectInput{
		Actor:   principal,
		GameID:  gameID,
		EntryID: entryID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "resurrect entry failed", "game_id", gameID, "entry_id", entryID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, entryToDTO(entry))
}
