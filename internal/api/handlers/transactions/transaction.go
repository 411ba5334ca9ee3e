package transactions

import (
	"context"
	"net/http"

	"fintrack/internal/api/handlers"
	"fintrack/internal/models"
	"fintrack/pkg/utils"
)

type Store interface {
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	GetTransaction(ctx context.Context, userID, id int64) (models.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, f models.TransactionFilter) ([]models.Transaction, int, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id int64) error
}

// Evaluator runs after a transaction is committed. It never fails the request.
type Evaluator interface {
	AfterExpense(ctx context.Context, t models.Transaction)
}

type Handler struct {
	store     Store
	evaluator Evaluator
}

func NewHandler(store Store, evaluator Evaluator) *Handler {
	return &Handler{store: store, evaluator: evaluator}
}

var sortFields = []string{"date", "created_at", "category", "amount"}

func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}

	filter, page, limit, err := parseFilter(r)
	if err != nil {
		handlers.WriteError(w, r, err, "transaction")
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	txns, total, err := h.store.ListTransactions(ctx, identity.UserID, filter)
	if err != nil {
		handlers.WriteError(w, r, err, "transaction")
		return
	}

	handlers.WritePage(w, txns, len(txns), total, page, limit)
}

func parseFilter(r *http.Request) (models.TransactionFilter, int, int, error) {
	q := r.URL.Query()
	v := &models.ValidationError{}
	var f models.TransactionFilter

	if raw := q.Get("type"); raw != "" {
		f.Type = models.TransactionType(raw)
		if !f.Type.Valid() {
			v.Add("type", "must be income or expense")
		}
	}
	if raw := q.Get("category"); raw != "" {
		f.Category = models.Category(raw)
		if !f.Category.Valid() {
			v.Add("category", "is not a known category")
		}
	}
	if raw := q.Get("from"); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			v.Add("from", err.Error())
		}
		f.From = d
	}
	if raw := q.Get("to"); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			v.Add("to", err.Error())
		}
		f.To = d
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		v.Add("to", "must not be before from")
	}

	page, limit, err := utils.GetPaginationParams(r)
	if err != nil {
		v.Add("pagination", err.Error())
	}
	sortBy, order, err := utils.GetSortParams(r, sortFields...)
	if err != nil {
		v.Add("sort_by", err.Error())
	}

	if len(v.Fields) > 0 {
		return f, 0, 0, v
	}

	f.SortBy = sortBy
	f.Order = order
	f.Limit = limit
	f.Offset = (page - 1) * limit
	return f, page, limit, nil
}

// AddTransaction records a transaction and then lets the evaluator check the
// category budget.
func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}

	var input models.TransactionInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	txn, err := input.ToTransaction(identity.UserID)
	if err != nil {
		handlers.WriteError(w, r, err, "transaction")
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	if err := h.store.CreateTransaction(ctx, &txn); err != nil {
		handlers.WriteError(w, r, err, "transaction")
		return
	}

	if h.evaluator != nil {
		h.evaluator.AfterExpense(ctx, txn)
	}

	handlers.WriteData(w, http.StatusCreated, txn)
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}
	id, ok := handlers.PathID(w, r, "transaction")
	if !ok {
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	txn, err := h.store.GetTransaction(ctx, identity.UserID, id)
	if err != nil {
		handlers.WriteError(w, r, err, "transaction")
		return
	}
	handlers.WriteData(w, http.StatusOK, txn)
}

func (h *Handler) PatchTransaction(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}
	id, ok := handlers.PathID(w, r, "transaction")
	if !ok {
		return
	}

	var patch models.TransactionPatch
	if !handlers.DecodeJSON(w, r, &patch) {
		return
	}
	if patch.Empty() {
		utils.WriteError(w, "no fields to update", http.StatusBadRequest)
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	existing, err := h.store.GetTransaction(ctx, identity.UserID, id)
	if err != nil {
		handlers.WriteError(w, r, err, "transaction")
		return
	}

	updated, err := patch.Apply(existing)
	if err != nil {
		handlers.WriteError(w, r, err, "transaction")
		return
	}

	if err := h.store.UpdateTransaction(ctx, &updated); err != nil {
		handlers.WriteError(w, r, err, "transaction")
		return
	}
	handlers.WriteData(w, http.StatusOK, updated)
}

// DeleteTransaction removes the row only. Notifications it triggered stay.
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}
	id, ok := handlers.PathID(w, r, "transaction")
	if !ok {
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	if err := h.store.DeleteTransaction(ctx, identity.UserID, id); err != nil {
		handlers.WriteError(w, r, err, "transaction")
		return
	}
	handlers.WriteMessage(w, "transaction deleted successfully")
}
