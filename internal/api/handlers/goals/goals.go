package goals

import (
	"context"
	"net/http"
	"strconv"

	"fintrack/internal/api/handlers"
	"fintrack/internal/models"
	"fintrack/pkg/utils"
)

type Store interface {
	CreateGoal(ctx context.Context, g *models.Goal) error
	GetGoal(ctx context.Context, userID, id int64) (models.Goal, error)
	ListGoals(ctx context.Context, userID int64, completed *bool) ([]models.Goal, error)
	DeleteGoal(ctx context.Context, userID, id int64) error
}

// Tracker owns every write that can complete a goal.
type Tracker interface {
	AddProgress(ctx context.Context, userID, id int64, in models.GoalProgressInput) (models.Goal, error)
	Update(ctx context.Context, userID, id int64, patch models.GoalPatch) (models.Goal, error)
}

type Handler struct {
	store   Store
	tracker Tracker
}

func NewHandler(store Store, tracker Tracker) *Handler {
	return &Handler{store: store, tracker: tracker}
}

func (h *Handler) GetGoals(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}

	var completed *bool
	if raw := r.URL.Query().Get("completed"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			utils.WriteValidationError(w, map[string]string{"completed": "must be true or false"})
			return
		}
		completed = &b
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	list, err := h.store.ListGoals(ctx, identity.UserID, completed)
	if err != nil {
		handlers.WriteError(w, r, err, "goal")
		return
	}
	if list == nil {
		list = []models.Goal{}
	}
	handlers.WriteData(w, http.StatusOK, list)
}

func (h *Handler) AddGoal(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}

	var input models.GoalInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	goal, err := input.ToGoal(identity.UserID)
	if err != nil {
		handlers.WriteError(w, r, err, "goal")
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	if err := h.store.CreateGoal(ctx, &goal); err != nil {
		handlers.WriteError(w, r, err, "goal")
		return
	}
	handlers.WriteData(w, http.StatusCreated, goal)
}

func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}
	id, ok := handlers.PathID(w, r, "goal")
	if !ok {
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	goal, err := h.store.GetGoal(ctx, identity.UserID, id)
	if err != nil {
		handlers.WriteError(w, r, err, "goal")
		return
	}
	handlers.WriteData(w, http.StatusOK, goal)
}

func (h *Handler) PatchGoal(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}
	id, ok := handlers.PathID(w, r, "goal")
	if !ok {
		return
	}

	var patch models.GoalPatch
	if !handlers.DecodeJSON(w, r, &patch) {
		return
	}
	if patch.Empty() {
		utils.WriteError(w, "no fields to update", http.StatusBadRequest)
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	goal, err := h.tracker.Update(ctx, identity.UserID, id, patch)
	if err != nil {
		handlers.WriteError(w, r, err, "goal")
		return
	}
	handlers.WriteData(w, http.StatusOK, goal)
}

func (h *Handler) AddProgress(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}
	id, ok := handlers.PathID(w, r, "goal")
	if !ok {
		return
	}

	var input models.GoalProgressInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	goal, err := h.tracker.AddProgress(ctx, identity.UserID, id, input)
	if err != nil {
		handlers.WriteError(w, r, err, "goal")
		return
	}
	handlers.WriteData(w, http.StatusOK, goal)
}

func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}
	id, ok := handlers.PathID(w, r, "goal")
	if !ok {
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	if err := h.store.DeleteGoal(ctx, identity.UserID, id); err != nil {
		handlers.WriteError(w, r, err, "goal")
		return
	}
	handlers.WriteMessage(w, "goal deleted successfully")
}
