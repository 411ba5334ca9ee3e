package analytics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/api/handlers"
	"fintrack/internal/services/analytics"
	"fintrack/pkg/utils"
)

type Service interface {
	Now() time.Time
	SpendingByCategory(ctx context.Context, userID int64, month, year int) (map[string]string, error)
	MonthlyTrends(ctx context.Context, userID int64, months int, dense bool) ([]analytics.TrendPoint, error)
	Summary(ctx context.Context, userID int64) (analytics.Summary, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type spendingResponse struct {
	Month      int               `json:"month"`
	Year       int               `json:"year"`
	ByCategory map[string]string `json:"by_category"`
}

func (h *Handler) GetSpendingByCategory(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}

	month, year, err := handlers.MonthYear(r, h.service.Now())
	if err != nil {
		handlers.WriteError(w, r, err, "analytics")
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	totals, err := h.service.SpendingByCategory(ctx, identity.UserID, month, year)
	if err != nil {
		handlers.WriteError(w, r, err, "analytics")
		return
	}
	handlers.WriteData(w, http.StatusOK, spendingResponse{Month: month, Year: year, ByCategory: totals})
}

// GetMonthlyTrends accepts months (default 6, capped) and dense=true to include
// empty months.
func (h *Handler) GetMonthlyTrends(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}

	details := map[string]string{}
	months, err := handlers.QueryInt(r, "months", analytics.DefaultTrendMonths)
	if err != nil {
		details["months"] = "must be an integer"
	}
	dense := false
	if raw := r.URL.Query().Get("dense"); raw != "" {
		if dense, err = strconv.ParseBool(raw); err != nil {
			details["dense"] = "must be true or false"
		}
	}
	if len(details) > 0 {
		utils.WriteValidationError(w, details)
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	trends, err := h.service.MonthlyTrends(ctx, identity.UserID, months, dense)
	if err != nil {
		handlers.WriteError(w, r, err, "analytics")
		return
	}
	handlers.WriteData(w, http.StatusOK, trends)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	summary, err := h.service.Summary(ctx, identity.UserID)
	if err != nil {
		handlers.WriteError(w, r, err, "analytics")
		return
	}
	handlers.WriteData(w, http.StatusOK, summary)
}
