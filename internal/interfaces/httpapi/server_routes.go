package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDomainRoutes(mux *http.ServeMux, handler *Handler) {
	registerTeamRoutes(mux, handler)
	registerPlayerRoutes(mux, handler)
	registerStatsRoutes(mux, handler)
	registerSettingsRoutes(mux, handler)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("POST /v1/teams", handler.CreateTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("PUT /v1/teams/{teamID}", handler.UpdateTeam)
	mux.HandleFunc("DELETE /v1/teams/{teamID}", handler.DeleteTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}/players", handler.ListTeamPlayers)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("POST /v1/players", handler.CreatePlayer)
	mux.HandleFunc("GET /v1/players/search", handler.SearchPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("PUT /v1/players/{playerID}", handler.UpdatePlayer)
	mux.HandleFunc("DELETE /v1/players/{playerID}", handler.DeletePlayer)
}

func registerStatsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/stats", handler.GetStatsReport)
	mux.HandleFunc("GET /v1/stats/overview", handler.GetStatsOverview)
	mux.HandleFunc("GET /v1/stats/roles", handler.GetRoleStats)
	mux.HandleFunc("GET /v1/stats/top-bids", handler.GetTopBids)
	mux.HandleFunc("GET /v1/stats/team-spending", handler.GetTeamSpending)
}

func registerSettingsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/settings", handler.ListSettings)
	mux.HandleFunc("PUT /v1/settings/max-purse", handler.UpdateMaxPurse)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/audit", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunAudit)))
}
