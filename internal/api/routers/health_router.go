package routers

import (
	"net/http"

	"fintrack/internal/api/handlers/health"
)

func healthRouter(mux *http.ServeMux, db health.Pinger) {
	mux.HandleFunc("GET /healthz", health.Check(db))
}
