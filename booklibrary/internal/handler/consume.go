package handler

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/ddmtrv/booklibrary-service/pkg/kafka"
)

type statsEventHandler func(ctx context.Context, event kafka.EventStats) error

// Consumer persists broker activity events into the audit table.
type Consumer struct {
	statsHandler statsEventHandler
	log          *zap.Logger
}

func NewConsumer(stats statsEventHandler, log *zap.Logger) *Consumer {
	return &Consumer{
		statsHandler: stats,
		log:          log.Named("consumer"),
	}
}

// Setup runs once per consumer-group session; rebalances start new sessions.
func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var event kafka.EventStats
			if err := json.Unmarshal(message.Value, &event); err != nil {
				consumer.log.Error("unmarshal stats event", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.statsHandler(session.Context(), event); err != nil {
				consumer.log.Error("handle stats event", zap.Error(err))
				continue
			}

			consumer.log.Debug("message claimed",
				zap.String("value", string(message.Value)),
				zap.Time("timestamp", message.Timestamp),
				zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
