package routers

import (
	"net/http"

	"fintrack/internal/api/handlers/categories"
)

func categoriesRouter(mux *http.ServeMux) {
	mux.HandleFunc("GET /categories", categories.GetCategories)
}
