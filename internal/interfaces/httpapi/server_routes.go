package httpapi

import "net/http"

func handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, routed(pattern, h))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	handle(mux, "GET /healthz", handler.Healthz)
	if metrics == nil {
		return
	}

	mux.Handle("GET /metrics", routed("GET /metrics", metrics))
}

func registerScheduleRoutes(mux *http.ServeMux, handler *Handler) {
	handle(mux, "GET /schedule", handler.GetSchedule)
	handle(mux, "GET /v1/schedule", handler.GetSchedule)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	handle(mux, "GET /v1/teams", handler.ListTeams)
	handle(mux, "GET /v1/teams/{abbreviation}", handler.GetTeamByAbbreviation)
}
