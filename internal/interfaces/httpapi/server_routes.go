package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/rounds/{round}/matches", handler.ListRoundMatches)
	mux.HandleFunc("GET /v1/games", handler.ListGames)
	mux.HandleFunc("GET /v1/games/{gameID}", handler.GetGame)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	auth := func(h http.HandlerFunc) http.Handler { return RequireAuth(verifier, h) }

	mux.Handle("POST /v1/games/{gameID}/join", auth(handler.JoinGame))
	mux.Handle("POST /v1/games/{gameID}/picks", auth(handler.SubmitPick))
	mux.Handle("PUT /v1/games/{gameID}/picks", auth(handler.UpdatePick))
	mux.Handle("DELETE /v1/games/{gameID}/picks", auth(handler.DeletePick))
	mux.Handle("POST /v1/games/{gameID}/entries/{entryID}/resurrect", auth(handler.ResurrectEntry))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	admin := func(h http.HandlerFunc) http.Handler { return RequireAuth(verifier, RequireAdmin(h)) }

	mux.Handle("POST /v1/admin/games", admin(handler.CreateGame))
	mux.Handle("POST /v1/admin/games/{gameID}/start", admin(handler.StartGame))
	mux.Handle("POST /v1/admin/games/{gameID}/close-resurrection", admin(handler.CloseResurrection))
	mux.Handle("POST /v1/admin/games/{gameID}/rounds/{round}/evaluate", admin(handler.EvaluateRound))
	mux.Handle("POST /v1/admin/users/{userID}/tokens", admin(handler.AdjustTokens))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	internal := func(h http.HandlerFunc) http.Handler { return RequireInternalJobToken(internalJobToken, h) }

	mux.Handle("POST /v1/internal/ingestion/matches", internal(handler.IngestMatches))
	mux.Handle("POST /v1/internal/jobs/sync-matches", internal(handler.RunSyncMatchesJob))
	mux.Handle("POST /v1/internal/jobs/evaluate", internal(handler.RunEvaluateJob))
}
