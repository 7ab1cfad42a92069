package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

// Public routes serve the rendered club sites. Friendly matches ride the
// competition routes with the synthetic "friendly" competition id and the
// "single" round id.
func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/clubs", handler.ListClubs)
	mux.HandleFunc("GET /v1/clubs/{clubID}", handler.GetClub)
	mux.HandleFunc("GET /v1/clubs/{clubID}/matches", handler.ListClubMatches)
	mux.HandleFunc("GET /v1/clubs/{clubID}/matches/meta", handler.GetClubMatchIndexMeta)
	mux.HandleFunc("GET /v1/clubs/{clubID}/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/clubs/{clubID}/competitions", handler.ListCompetitions)
	mux.HandleFunc("GET /v1/clubs/{clubID}/competitions/{competitionID}", handler.GetCompetition)
	mux.HandleFunc("GET /v1/clubs/{clubID}/competitions/{competitionID}/rounds", handler.ListRounds)
	mux.HandleFunc("GET /v1/clubs/{clubID}/competitions/{competitionID}/rounds/{roundID}/matches", handler.ListMatchesByRound)
	mux.HandleFunc("GET /v1/clubs/{clubID}/competitions/{competitionID}/rounds/{roundID}/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/clubs/{clubID}/competitions/{competitionID}/standings", handler.ListStandings)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminAPIToken string) {
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireAdminToken(adminAPIToken, h)
	}

	mux.Handle("POST /v1/admin/clubs/{clubID}/teams", admin(handler.CreateTeam))
	mux.Handle("PUT /v1/admin/clubs/{clubID}/teams/{teamID}", admin(handler.SaveTeam))
	mux.Handle("DELETE /v1/admin/clubs/{clubID}/teams/{teamID}", admin(handler.DeleteTeam))

	mux.Handle("POST /v1/admin/clubs/{clubID}/competitions", admin(handler.CreateCompetition))
	mux.Handle("PUT /v1/admin/clubs/{clubID}/competitions/{competitionID}", admin(handler.SaveCompetition))
	mux.Handle("DELETE /v1/admin/clubs/{clubID}/competitions/{competitionID}", admin(handler.DeleteCompetition))
	mux.Handle("POST /v1/admin/clubs/{clubID}/competitions/{competitionID}/rounds", admin(handler.CreateRound))
	mux.Handle("PUT /v1/admin/clubs/{clubID}/competitions/{competitionID}/rounds/{roundID}", admin(handler.SaveRound))
	mux.Handle("DELETE /v1/admin/clubs/{clubID}/competitions/{competitionID}/rounds/{roundID}", admin(handler.DeleteRound))

	mux.Handle("POST /v1/admin/clubs/{clubID}/competitions/{competitionID}/rounds/{roundID}/matches", admin(handler.CreateMatch))
	mux.Handle("PATCH /v1/admin/clubs/{clubID}/competitions/{competitionID}/rounds/{roundID}/matches/{matchID}", admin(handler.UpdateMatch))
	mux.Handle("DELETE /v1/admin/clubs/{clubID}/competitions/{competitionID}/rounds/{roundID}/matches/{matchID}", admin(handler.DeleteMatch))

	mux.Handle("POST /v1/admin/clubs/{clubID}/competitions/{competitionID}/standings/recompute", admin(handler.RecomputeStandings))
	mux.Handle("PUT /v1/admin/clubs/{clubID}/competitions/{competitionID}/standings", admin(handler.ApplyManualStandings))

	mux.Handle("POST /v1/admin/clubs/{clubID}/match-index/backfill", admin(handler.BackfillClubMatchIndex))
}
