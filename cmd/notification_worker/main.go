package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	amqp "github.com/rabbitmq/amqp091-go"

	"lendingportal-backend/internal/adapter/repository/mysql"
	"lendingportal-backend/internal/config"
	"lendingportal-backend/internal/infrastructure/db"
	"lendingportal-backend/internal/infrastructure/queue"
	"lendingportal-backend/internal/infrastructure/sender"
	"lendingportal-backend/internal/usecase/notify"
)

// The worker drains the bulk-send queue and runs the same dispatcher the
// API uses, so channel and preference behavior stays identical.
func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer conn.Close()

	dispatcher := notify.NewDispatcher(
		mysql.NewNotificationRepository(gdb),
		mysql.NewUserRepository(gdb),
		sender.NewSMTPEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom),
		sender.NewTwilioSMSSender(cfg.TwilioFromNumber),
		sender.NewHTTPWebhookPoster(),
		logger,
	)

	logger.Info("notification worker started", "queue", cfg.QueueName)
	err = queue.Consume(conn, cfg.QueueName, func(ctx context.Context, job notify.SendJob) error {
		dispatcher.Dispatch(ctx, job.Event, job.RecipientID, job.Data)
		return nil
	})
	if err != nil {
		log.Fatalf("consume: %v", err)
	}
}
