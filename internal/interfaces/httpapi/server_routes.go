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

func registerCompetitionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/competitions", handler.ListCompetitions)
	mux.HandleFunc("GET /v1/competitions/{competitionID}", handler.GetCompetition)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/schedule", handler.GetSchedule)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/competitors", handler.ListCompetitors)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/competitors/{registrantID}/groups", handler.ListGroups)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/results/{personID}", handler.GetPersonResults)
}
