package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/busreservation/config"
	"github.com/Domenick1991/busreservation/internal/kafka"
	"github.com/Domenick1991/busreservation/internal/logging"
	"github.com/Domenick1991/busreservation/internal/notify"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log, os.Stdout).With("component", "worker")

	if len(cfg.Kafka.Brokers) == 0 {
		logger.Error("kafka.brokers is empty, nothing to consume")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, logger)
	defer consumer.Close()

	sender := notify.NewSender(logger)

	logger.Info("consuming notifications", "topic", cfg.Kafka.NotificationsTopic, "group_id", cfg.Kafka.GroupID)
	if err := consumer.Consume(ctx, sender.Send); err != nil {
		logger.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
