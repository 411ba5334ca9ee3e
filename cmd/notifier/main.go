package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"fintrack/internal/config"
	"fintrack/internal/repositories/sqlconnect"
	"fintrack/internal/repositories/store"
	"fintrack/internal/services/events"
	"fintrack/internal/services/notify"
	"fintrack/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// The notifier consumes notification.created events and emails them.
func main() {
	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel, cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		utils.Logger.Fatalf("Invalid configuration: %v", err)
	}
	if !cfg.AMQP.Enabled() {
		utils.Logger.Fatal("AMQP_URL is required for the notifier")
	}
	if !cfg.SMTP.Enabled() {
		utils.Logger.Warn("SMTP_HOST not set, notification emails are logged only")
	}

	db, err := sqlconnect.ConnectDb(cfg.DB)
	if err != nil {
		utils.Logger.Fatalf("DB connection failed: %v", err)
	}
	defer db.Close()

	client, err := events.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
	if err != nil {
		utils.Logger.Fatalf("Failed to connect to message broker: %v", err)
	}
	defer client.Close()

	var mailer utils.Mailer = utils.NoopMailer{}
	if cfg.SMTP.Enabled() {
		mailer = utils.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Email, cfg.SMTP.Password)
	}
	delivery := notify.NewEmailDelivery(store.New(db, cfg.DB.Driver), mailer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeNotifications(gctx, delivery.Deliver)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		utils.Logger.Errorf("Notifier stopped: %v", err)
		return
	}
	utils.Logger.Info("Notifier stopped")
}
