package categories

import (
	"net/http"

	"fintrack/internal/api/handlers"
	"fintrack/internal/models"
)

func GetCategories(w http.ResponseWriter, r *http.Request) {
	handlers.WriteData(w, http.StatusOK, models.Categories())
}
