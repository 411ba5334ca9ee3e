package budgets

import (
	"context"
	"net/http"
	"time"

	"fintrack/internal/api/handlers"
	"fintrack/internal/models"
	"fintrack/pkg/utils"
)

type Store interface {
	CreateBudget(ctx context.Context, b *models.Budget) error
	GetBudget(ctx context.Context, userID, id int64) (models.Budget, error)
	ListBudgets(ctx context.Context, userID int64, f models.BudgetFilter) ([]models.Budget, error)
	UpdateBudget(ctx context.Context, b *models.Budget) error
	DeleteBudget(ctx context.Context, userID, id int64) error
}

type StatusReader interface {
	Now() time.Time
	BudgetStatus(ctx context.Context, userID int64, month, year int) ([]models.BudgetStatus, error)
}

type Handler struct {
	store  Store
	status StatusReader
}

func NewHandler(store Store, status StatusReader) *Handler {
	return &Handler{store: store, status: status}
}

func (h *Handler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	v := &models.ValidationError{}
	var filter models.BudgetFilter

	if raw := q.Get("category"); raw != "" {
		filter.Category = models.Category(raw)
		if !filter.Category.Valid() {
			v.Add("category", "is not a known category")
		}
	}
	month, err := handlers.QueryInt(r, "month", 0)
	if err != nil || month < 0 || month > 12 {
		v.Add("month", "must be between 1 and 12")
	}
	year, err := handlers.QueryInt(r, "year", 0)
	if err != nil || year < 0 {
		v.Add("year", "must be a valid year")
	}
	if len(v.Fields) > 0 {
		utils.WriteValidationError(w, v.Fields)
		return
	}
	filter.Month, filter.Year = month, year

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	list, err := h.store.ListBudgets(ctx, identity.UserID, filter)
	if err != nil {
		handlers.WriteError(w, r, err, "budget")
		return
	}
	if list == nil {
		list = []models.Budget{}
	}
	handlers.WriteData(w, http.StatusOK, list)
}

func (h *Handler) AddBudget(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}

	var input models.BudgetInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	budget, err := input.ToBudget(identity.UserID)
	if err != nil {
		handlers.WriteError(w, r, err, "budget")
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	if err := h.store.CreateBudget(ctx, &budget); err != nil {
		handlers.WriteError(w, r, err, "budget")
		return
	}
	handlers.WriteData(w, http.StatusCreated, budget)
}

// GetBudgetStatus reports spend against each budget of the month.
func (h *Handler) GetBudgetStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}

	month, year, err := handlers.MonthYear(r, h.status.Now())
	if err != nil {
		handlers.WriteError(w, r, err, "budget")
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	statuses, err := h.status.BudgetStatus(ctx, identity.UserID, month, year)
	if err != nil {
		handlers.WriteError(w, r, err, "budget")
		return
	}
	if statuses == nil {
		statuses = []models.BudgetStatus{}
	}
	handlers.WriteData(w, http.StatusOK, statuses)
}

func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}
	id, ok := handlers.PathID(w, r, "budget")
	if !ok {
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	budget, err := h.store.GetBudget(ctx, identity.UserID, id)
	if err != nil {
		handlers.WriteError(w, r, err, "budget")
		return
	}
	handlers.WriteData(w, http.StatusOK, budget)
}

func (h *Handler) PatchBudget(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}
	id, ok := handlers.PathID(w, r, "budget")
	if !ok {
		return
	}

	var patch models.BudgetPatch
	if !handlers.DecodeJSON(w, r, &patch) {
		return
	}
	if patch.Empty() {
		utils.WriteError(w, "no fields to update", http.StatusBadRequest)
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	existing, err := h.store.GetBudget(ctx, identity.UserID, id)
	if err != nil {
		handlers.WriteError(w, r, err, "budget")
		return
	}
	updated, err := patch.Apply(existing)
	if err != nil {
		handlers.WriteError(w, r, err, "budget")
		return
	}
	if err := h.store.UpdateBudget(ctx, &updated); err != nil {
		handlers.WriteError(w, r, err, "budget")
		return
	}
	handlers.WriteData(w, http.StatusOK, updated)
}

func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}
	id, ok := handlers.PathID(w, r, "budget")
	if !ok {
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	if err := h.store.DeleteBudget(ctx, identity.UserID, id); err != nil {
		handlers.WriteError(w, r, err, "budget")
		return
	}
	handlers.WriteMessage(w, "budget deleted successfully")
}
