package routers

import (
	"net/http"

	"fintrack/internal/api/handlers/goals"
)

func goalsRouter(mux *http.ServeMux, store goals.Store, tracker goals.Tracker) {
	h := goals.NewHandler(store, tracker)

	mux.HandleFunc("GET /goals", h.GetGoals)
	mux.HandleFunc("POST /goals", h.AddGoal)
	mux.HandleFunc("GET /goals/{id}", h.GetGoal)
	mux.HandleFunc("PATCH /goals/{id}", h.PatchGoal)
	mux.HandleFunc("DELETE /goals/{id}", h.DeleteGoal)
	mux.HandleFunc("POST /goals/{id}/progress", h.AddProgress)
}
