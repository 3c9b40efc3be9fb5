package repository

import (
	"context"

	"github.com/driver4567/StockvsTrend/internal/domain/models"
	"github.com/driver4567/StockvsTrend/internal/domain/repository"
	pkgkafka "github.com/driver4567/StockvsTrend/pkg/kafka"
	applogger "github.com/driver4567/StockvsTrend/pkg/logger"
)

// KafkaPublisher implements EventPublisher for Kafka. Events are keyed by
// channel name so each channel's events stay ordered within a partition.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.EventPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev *models.ChannelEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Channel), ev)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// LogPublisher writes events to the log. It stands in when Kafka is disabled.
type LogPublisher struct {
	logger *applogger.Logger
}

func NewLogPublisher(l *applogger.Logger) repository.EventPublisher {
	return &LogPublisher{logger: l}
}

func (p *LogPublisher) Publish(_ context.Context, ev *models.ChannelEvent) error {
	p.logger.Info("channel resolved",
		applogger.String("channel", ev.Channel),
		applogger.Uint64("dispatch_id", ev.DispatchID),
		applogger.String("status", string(ev.Status)),
		applogger.String("query", ev.QueryLabel),
		applogger.String("date_range", string(ev.DateRange)),
		applogger.Int("points", ev.Points),
		applogger.String("reason", ev.Reason),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
