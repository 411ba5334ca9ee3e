package health

import (
	"context"
	"net/http"
	"time"

	"fintrack/internal/api/handlers"
	"fintrack/pkg/utils"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Check reports 503 when the database does not answer within two seconds.
func Check(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			utils.Logger.WithError(err).Warn("health check failed")
			utils.WriteError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		handlers.WriteData(w, http.StatusOK, map[string]string{"database": "ok"})
	}
}
