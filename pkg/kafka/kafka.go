package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
)

const (
	StatsTopic         = "booklibrary-stats"
	StatsConsumerGroup = "booklibrary-stats-group"
)

type Config struct {
	Addrs []string `yaml:"addrs" envconfig:"KAFKA_ADDRS"`
}

// EventStats is the activity message published after committed state changes.
type EventStats struct {
	EventType       string    `json:"eventType"`
	Isbn            string    `json:"isbn,omitempty"`
	PublicationDate string    `json:"publicationDate,omitempty"`
	AbonentID       string    `json:"abonentId,omitempty"`
	BookID          string    `json:"bookId,omitempty"`
	AvailableCount  int       `json:"availableCount"`
	BorrowedCount   int       `json:"borrowedCount"`
	OccurredAt      time.Time `json:"occurredAt"`
}

func NewProducer(cfg Config) (sarama.AsyncProducer, error) {
	return sarama.NewAsyncProducer(cfg.Addrs, producerConfig())
}

// Nobody consumes Successes or Errors; leaving either enabled fills the
// channel during a broker outage and blocks Input forever.
func producerConfig() *sarama.Config {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = false
	defaultCfg.Producer.Return.Errors = false

	return defaultCfg
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume blocks, re-joining the group on rebalance until ctx is done.
func Consume(ctx context.Context, consumer sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, topics ...string) error {
	for {
		if err := consumer.Consume(ctx, topics, handler); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
