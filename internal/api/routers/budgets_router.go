package routers

import (
	"net/http"

	"fintrack/internal/api/handlers/budgets"
)

func budgetsRouter(mux *http.ServeMux, store budgets.Store, status budgets.StatusReader) {
	h := budgets.NewHandler(store, status)

	mux.HandleFunc("GET /budgets", h.GetBudgets)
	mux.HandleFunc("POST /budgets", h.AddBudget)
	mux.HandleFunc("GET /budgets/status", h.GetBudgetStatus)
	mux.HandleFunc("GET /budgets/{id}", h.GetBudget)
	mux.HandleFunc("PATCH /budgets/{id}", h.PatchBudget)
	mux.HandleFunc("DELETE /budgets/{id}", h.DeleteBudget)
}
