package routers

import (
	"net/http"

	"fintrack/internal/api/handlers/transactions"
)

func transactionsRouter(mux *http.ServeMux, store transactions.Store, evaluator transactions.Evaluator) {
	h := transactions.NewHandler(store, evaluator)

	mux.HandleFunc("GET /transactions", h.GetTransactions)
	mux.HandleFunc("POST /transactions", h.AddTransaction)
	mux.HandleFunc("GET /transactions/{id}", h.GetTransaction)
	mux.HandleFunc("PATCH /transactions/{id}", h.PatchTransaction)
	mux.HandleFunc("DELETE /transactions/{id}", h.DeleteTransaction)
}
