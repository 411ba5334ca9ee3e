package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repositories/store"
	"fintrack/pkg/utils"

	"github.com/sirupsen/logrus"
)

const (
	RequestTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20
)

// RequestContext bounds the storage work of one request.
func RequestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), RequestTimeout)
}

type dataResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type pageResponse struct {
	Status   string `json:"status"`
	Count    int    `json:"count"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Data     any    `json:"data"`
}

func WriteData(w http.ResponseWriter, status int, data any) {
	utils.WriteJSONStatus(w, status, dataResponse{Status: "success", Data: data})
}

func WriteMessage(w http.ResponseWriter, message string) {
	utils.WriteJSON(w, dataResponse{Status: "success", Message: message})
}

func WritePage(w http.ResponseWriter, data any, count, total, page, pageSize int) {
	utils.WriteJSON(w, pageResponse{
		Status:   "success",
		Count:    count,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Data:     data,
	})
}

// DecodeJSON strictly decodes a single JSON object into dst. On failure it
// writes a 400 and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		utils.Logger.WithField("request_id", utils.RequestIDFrom(r.Context())).
			WithError(err).Debug("rejected request body")
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return false
	}
	if decoder.Decode(&struct{}{}) != io.EOF {
		utils.WriteError(w, "request body must contain a single JSON object", http.StatusBadRequest)
		return false
	}
	return true
}

// PathID parses the {id} path segment.
func PathID(w http.ResponseWriter, r *http.Request, entity string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		utils.WriteError(w, "invalid "+entity+" ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// CurrentIdentity returns the authenticated caller or writes a 401.
func CurrentIdentity(w http.ResponseWriter, r *http.Request) (utils.Identity, bool) {
	id, ok := utils.IdentityFrom(r.Context())
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return utils.Identity{}, false
	}
	return id, true
}

// WriteError maps domain and storage errors onto HTTP responses. Unexpected
// errors are logged and reported without detail.
func WriteError(w http.ResponseWriter, r *http.Request, err error, entity string) {
	var (
		validationErr *models.ValidationError
		duplicateErr  *store.DuplicateError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.WriteValidationError(w, validationErr.Fields)
	case errors.Is(err, store.ErrNotFound):
		utils.WriteError(w, entity+" not found", http.StatusNotFound)
	case errors.As(err, &duplicateErr):
		utils.WriteError(w, duplicateErr.Error(), http.StatusConflict)
	case errors.Is(err, context.DeadlineExceeded):
		logError(r, err, entity)
		utils.WriteError(w, "request timed out", http.StatusGatewayTimeout)
	default:
		logError(r, err, entity)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}

func logError(r *http.Request, err error, entity string) {
	fields := logrus.Fields{
		"request_id": utils.RequestIDFrom(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
		"entity":     entity,
		"error":      err.Error(),
	}
	if id, ok := utils.IdentityFrom(r.Context()); ok {
		fields["user_id"] = id.UserID
	}
	utils.Logger.WithFields(fields).Error("request failed")
}

// QueryInt reads an optional integer query parameter.
func QueryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

// MonthYear reads month and year, defaulting to now's calendar month.
func MonthYear(r *http.Request, now time.Time) (month, year int, err error) {
	v := &models.ValidationError{}

	month, err = QueryInt(r, "month", int(now.Month()))
	if err != nil || month < 1 || month > 12 {
		v.Add("month", "must be between 1 and 12")
	}
	year, err = QueryInt(r, "year", now.Year())
	if err != nil || year < 2000 || year > 2100 {
		v.Add("year", "must be between 2000 and 2100")
	}
	if len(v.Fields) > 0 {
		return 0, 0, v
	}
	return month, year, nil
}
