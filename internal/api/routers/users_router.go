package routers

import (
	"net/http"

	"fintrack/internal/api/handlers/auth"
)

func usersRouter(mux *http.ServeMux, deps Dependencies) {
	h := auth.NewHandler(deps.Store, deps.Mailer, deps.JWTSecret, deps.JWTExpiresIn, deps.SecureCookie)

	mux.HandleFunc("POST /users/signup", h.Signup)
	mux.HandleFunc("POST /users/login", h.Login)
	mux.HandleFunc("POST /users/logout", h.Logout)
	mux.HandleFunc("GET /users/me", h.Me)
}
