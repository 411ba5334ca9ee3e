package routers

import (
	"net/http"
	"time"

	"fintrack/internal/repositories/store"
	"fintrack/internal/services/alerts"
	"fintrack/internal/services/analytics"
	"fintrack/internal/services/goals"
	"fintrack/internal/services/notify"
	"fintrack/pkg/utils"
)

// Dependencies is everything the HTTP layer needs from main.
type Dependencies struct {
	Store        *store.Store
	Publisher    notify.Publisher
	Mailer       utils.Mailer
	JWTSecret    string
	JWTExpiresIn time.Duration
	SecureCookie bool
}

// PublicPaths are served without a session.
var PublicPaths = []string{"/users/signup", "/users/login", "/healthz"}

func MainRouter(deps Dependencies) *http.ServeMux {
	mux := http.NewServeMux()

	notifier := notify.New(deps.Store, deps.Publisher)
	evaluator := alerts.NewEvaluator(deps.Store, notifier)
	tracker := goals.NewTracker(deps.Store, notifier)
	reports := analytics.New(deps.Store)

	healthRouter(mux, deps.Store.DB())
	usersRouter(mux, deps)
	categoriesRouter(mux)
	transactionsRouter(mux, deps.Store, evaluator)
	budgetsRouter(mux, deps.Store, reports)
	goalsRouter(mux, deps.Store, tracker)
	notificationsRouter(mux, deps.Store)
	analyticsRouter(mux, reports)

	return mux
}
