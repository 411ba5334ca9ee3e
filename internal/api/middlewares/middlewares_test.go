package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/pkg/utils"

	"github.com/google/uuid"
)

const secret = "middleware-test-secret"

func whoami(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IdentityFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Write([]byte(id.Username))
}

func TestJWTMiddleware(t *testing.T) {
	valid, _ := utils.SignToken(secret, time.Hour, 7, "alice")
	expired, _ := utils.SignToken(secret, -time.Hour, 7, "alice")

	handler := MiddlewaresExcludePaths(JWTMiddleware(secret), "/users/login")(http.HandlerFunc(whoami))

	tests := []struct {
		name       string
		path       string
		setup      func(r *http.Request)
		wantStatus int
		wantBody   string
	}{
		{"cookie", "/transactions", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: SessionCookie, Value: valid})
		}, http.StatusOK, "alice"},
		{"authorization header", "/transactions", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+valid)
		}, http.StatusOK, "alice"},
		{"missing token", "/transactions", func(r *http.Request) {}, http.StatusUnauthorized, ""},
		{"expired token", "/transactions", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+expired)
		}, http.StatusUnauthorized, ""},
		{"tampered token", "/transactions", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+valid+"x")
		}, http.StatusUnauthorized, ""},
		{"excluded path", "/users/login", func(r *http.Request) {}, http.StatusTeapot, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			tt.setup(r)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body, tt.wantBody)
			}
		})
	}
}

func TestRequestLoggerAssignsID(t *testing.T) {
	var seen string
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = utils.RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/transactions", nil))

	got := rec.Header().Get("X-Request-ID")
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("X-Request-ID = %q, want a uuid", got)
	}
	if seen != got {
		t.Errorf("context request id = %q, header = %q", seen, got)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}

	// a caller-supplied uuid is kept
	incoming := uuid.NewString()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", incoming)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	if rec.Header().Get("X-Request-ID") != incoming {
		t.Errorf("X-Request-ID = %q, want %q", rec.Header().Get("X-Request-ID"), incoming)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, h := range []string{"X-Content-Type-Options", "X-Frame-Options", "Content-Security-Policy"} {
		if rec.Header().Get(h) == "" {
			t.Errorf("%s not set", h)
		}
	}
}

func TestRecoveryReturns500(t *testing.T) {
	rec := httptest.NewRecorder()
	Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
