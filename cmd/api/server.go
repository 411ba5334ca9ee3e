package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack/internal/api/middlewares"
	"fintrack/internal/api/routers"
	"fintrack/internal/config"
	"fintrack/internal/repositories/sqlconnect"
	"fintrack/internal/repositories/store"
	"fintrack/internal/services/events"
	"fintrack/internal/services/notify"
	"fintrack/pkg/cron"
	"fintrack/pkg/utils"
)

func main() {
	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel, cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		utils.Logger.Fatalf("Invalid configuration: %v", err)
	}

	if err := sqlconnect.RunMigrations(cfg.DB); err != nil {
		utils.Logger.Fatalf("Database migration failed: %v", err)
	}

	db, err := sqlconnect.ConnectDb(cfg.DB)
	if err != nil {
		utils.Logger.Fatalf("DB connection failed: %v", err)
	}
	defer db.Close()

	st := store.New(db, cfg.DB.Driver)

	var publisher notify.Publisher = notify.NoopPublisher{}
	if cfg.AMQP.Enabled() {
		client, err := events.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			utils.Logger.Fatalf("Failed to connect to message broker: %v", err)
		}
		defer client.Close()
		publisher = client
	} else {
		utils.Logger.Info("AMQP_URL not set, notification events are not published")
	}

	var mailer utils.Mailer = utils.NoopMailer{}
	if cfg.SMTP.Enabled() {
		mailer = utils.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Email, cfg.SMTP.Password)
	}

	router := routers.MainRouter(routers.Dependencies{
		Store:        st,
		Publisher:    publisher,
		Mailer:       mailer,
		JWTSecret:    cfg.JWTSecret,
		JWTExpiresIn: cfg.JWTExpiresIn,
		SecureCookie: cfg.TLSEnabled(),
	})

	jwtMiddleware := middlewares.MiddlewaresExcludePaths(middlewares.JWTMiddleware(cfg.JWTSecret), routers.PublicPaths...)
	secureMux := middlewares.Recovery(
		middlewares.Cors(cfg.CORSOrigins)(
			middlewares.RequestLogger(
				middlewares.SecurityHeaders(
					jwtMiddleware(router)))))

	if cfg.CronEnabled {
		scheduler := cron.StartCronJob(cron.Jobs{
			Store:         st,
			Notifier:      notify.New(st, publisher),
			ReminderDays:  cfg.GoalReminderDays,
			RetentionDays: cfg.NotificationRetentionDays,
		})
		defer func() { <-scheduler.Stop().Done() }()
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           secureMux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		utils.Logger.WithField("addr", server.Addr).Info("Server is running")
		if cfg.TLSEnabled() {
			serverErr <- server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
			return
		}
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Errorf("Error starting the server: %v", err)
		}
		return
	case <-ctx.Done():
	}

	utils.Logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.Logger.Errorf("Graceful shutdown failed: %v", err)
	}
}
