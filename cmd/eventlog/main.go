// Command eventlog tails the counterparty event topic and logs every event.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/counterparty/internal/counterparty/events"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

// Config is read from the environment.
type Config struct {
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic        string   `envconfig:"TOPIC" default:"counterparty-events"`
	GroupID      string   `envconfig:"GROUP_ID" default:"counterparty-eventlog"`
}

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.GroupID, cfg.Topic, logger)
	defer consumer.Close()
	consumer.RegisterHandler(logEvent(logger.Named("eventlog")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Tailing events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.Topic))
	<-consumer.Start(ctx)
	logger.Info("Event log stopped")
}

func logEvent(logger *zap.Logger) func(context.Context, events.Event) error {
	return func(_ context.Context, event events.Event) error {
		fields := []zap.Field{
			zap.String("type", string(event.Type)),
			zap.String("session_id", event.SessionID),
			zap.Time("occurred_at", event.OccurredAt),
		}
		if event.Counterparty != nil {
			fields = append(fields,
				zap.String("counterparty_id", event.Counterparty.ID),
				zap.String("status", string(event.Counterparty.Status)),
			)
		}
		if event.FileName != "" {
			fields = append(fields, zap.String("file_name", event.FileName))
		}
		if event.Type == events.CounterpartiesLoaded {
			fields = append(fields, zap.Int("count", event.Count))
		}
		logger.Info("Event", fields...)
		return nil
	}
}
