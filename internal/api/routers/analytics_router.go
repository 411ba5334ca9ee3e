package routers

import (
	"net/http"

	"fintrack/internal/api/handlers/analytics"
)

func analyticsRouter(mux *http.ServeMux, service analytics.Service) {
	h := analytics.NewHandler(service)

	mux.HandleFunc("GET /analytics/spending-by-category", h.GetSpendingByCategory)
	mux.HandleFunc("GET /analytics/monthly-trends", h.GetMonthlyTrends)
	mux.HandleFunc("GET /analytics/summary", h.GetSummary)
}
