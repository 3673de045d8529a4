package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airline-backoffice/config"
	"github.com/Domenick1991/airline-backoffice/internal/email"
	"github.com/Domenick1991/airline-backoffice/internal/kafka"
	"github.com/Domenick1991/airline-backoffice/internal/logging"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("configure logging")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sender := email.NewSender(log)
	g, runCtx := errgroup.WithContext(ctx)

	for _, topic := range []string{cfg.Kafka.BookingEventsTopic, cfg.Kafka.NotificationsTopic} {
		if topic == "" {
			continue
		}
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, topic)
		defer consumer.Close()

		entry := log.WithField("topic", topic)
		g.Go(func() error {
			entry.Info("consuming events")
			return consumer.Consume(runCtx, func(ctx context.Context, event kafka.Event) error {
				if err := sender.Send(ctx, event); err != nil {
					entry.WithError(err).WithField("event_id", event.ID).Error("failed to send notification")
				}
				return nil
			})
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("worker stopped")
	}
	log.Info("worker stopped")
}
