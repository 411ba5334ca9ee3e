package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/api/handlers"
	"fintrack/internal/api/middlewares"
	"fintrack/internal/models"
	"fintrack/internal/repositories/store"
	"fintrack/pkg/utils"

	"github.com/sirupsen/logrus"
)

type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByAccount(ctx context.Context, account string) (models.User, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
}

type Handler struct {
	store        Store
	mailer       utils.Mailer
	jwtSecret    string
	jwtExpiresIn time.Duration
	secureCookie bool
}

func NewHandler(store Store, mailer utils.Mailer, jwtSecret string, jwtExpiresIn time.Duration, secureCookie bool) *Handler {
	if mailer == nil {
		mailer = utils.NoopMailer{}
	}
	return &Handler{
		store:        store,
		mailer:       mailer,
		jwtSecret:    jwtSecret,
		jwtExpiresIn: jwtExpiresIn,
		secureCookie: secureCookie,
	}
}

// Signup registers a user and sends a best-effort welcome email.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		handlers.WriteError(w, r, err, "user")
		return
	}

	hashedPwd, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.WriteError(w, "error hashing password", http.StatusInternalServerError)
		return
	}

	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Username:  req.Username,
		Password:  hashedPwd,
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	if err := h.store.CreateUser(ctx, &user); err != nil {
		handlers.WriteError(w, r, err, "user")
		return
	}

	go func(to, firstName string) {
		subject, body := utils.WelcomeEmail(firstName)
		if err := h.mailer.SendEmail(to, subject, body); err != nil {
			utils.Logger.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Warn("failed to send welcome email")
		}
	}(user.Email, user.FirstName)

	utils.Logger.WithField("user_id", user.ID).Info("user registered")
	handlers.WriteData(w, http.StatusCreated, user)
}

type loginResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

// Login accepts a username or email and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	v := &models.ValidationError{}
	if req.AccountID == "" {
		v.Add("account_id", "is required")
	}
	if req.Password == "" {
		v.Add("password", "is required")
	}
	if len(v.Fields) > 0 {
		utils.WriteValidationError(w, v.Fields)
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	user, err := h.store.GetUserByAccount(ctx, normalizeAccount(req.AccountID))
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, "incorrect password or account ID", http.StatusUnauthorized)
		return
	}
	if err != nil {
		handlers.WriteError(w, r, err, "user")
		return
	}

	if err := utils.VerifyPassword(req.Password, user.Password); err != nil {
		if !errors.Is(err, utils.ErrPasswordMismatch) {
			utils.Logger.WithField("user_id", user.ID).WithError(err).Error("stored password hash is unreadable")
		}
		utils.WriteError(w, "incorrect password or account ID", http.StatusUnauthorized)
		return
	}

	tokenString, err := utils.SignToken(h.jwtSecret, h.jwtExpiresIn, user.ID, user.Username)
	if err != nil {
		utils.WriteError(w, "error signing in", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middlewares.SessionCookie,
		Value:    tokenString,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		Expires:  time.Now().Add(h.jwtExpiresIn),
		SameSite: http.SameSiteStrictMode,
	})

	utils.WriteJSON(w, loginResponse{
		Status:  "success",
		Message: "login successful",
		Token:   tokenString,
		User:    user,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middlewares.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		SameSite: http.SameSiteStrictMode,
	})

	handlers.WriteMessage(w, "logged out successfully")
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	user, err := h.store.GetUserByID(ctx, identity.UserID)
	if err != nil {
		handlers.WriteError(w, r, err, "user")
		return
	}
	handlers.WriteData(w, http.StatusOK, user)
}

// normalizeAccount matches the lower-casing applied at signup.
func normalizeAccount(account string) string {
	return strings.ToLower(strings.TrimSpace(account))
}
