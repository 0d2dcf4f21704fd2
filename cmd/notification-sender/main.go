package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/fanlist/internal/config"
	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
	"github.com/magabrotheeeer/fanlist/internal/lib/smtp"
	"github.com/magabrotheeeer/fanlist/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/fanlist/internal/services/sender"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("starting notification-sender", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := rabbitmq.Connect(cfg.AmqpConnectionString, cfg.ConnectRetries, cfg.ConnectDelay)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		_ = conn.Close()
	}()

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		logger.Error("failed to setup RabbitMQ channel", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		_ = ch.Close()
	}()

	transport := smtp.NewTransport(cfg, logger)
	sender := senderservice.NewSenderService(transport, logger)

	if err := rabbitmq.ConsumerMessage(ctx, ch, "notifications.suggestion_approved", sender.SendSuggestionApproved); err != nil {
		logger.Error("failed to start suggestion consumer", sl.Err(err))
		os.Exit(1)
	}
	if err := rabbitmq.ConsumerMessage(ctx, ch, "notifications.redemption_created", sender.SendRedemptionCreated); err != nil {
		logger.Error("failed to start redemption consumer", sl.Err(err))
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("notification sender shutting down gracefully")
}
