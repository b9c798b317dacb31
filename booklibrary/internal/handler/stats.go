package handler

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"

	"github.com/ddmtrv/booklibrary-service/pkg/circuit_breaker"
	"github.com/ddmtrv/booklibrary-service/pkg/kafka"
)

type statsLog struct {
	producer sarama.AsyncProducer
	topic    string
	cb       circuit_breaker.CircuitBreaker
}

type StatsLog interface {
	Log(sl kafka.EventStats) error
}

func NewStatsLog(producer sarama.AsyncProducer, topic string) *statsLog {
	return &statsLog{
		producer: producer,
		topic:    topic,
		cb:       circuit_breaker.New(100, time.Second, 0.2, 2),
	}
}

func (l *statsLog) Log(sl kafka.EventStats) error {
	return l.cb.Call(func() error {
		data, err := json.Marshal(sl)
		if err != nil {
			return err
		}
		msg := &sarama.ProducerMessage{Topic: l.topic, Value: sarama.StringEncoder(data)}
		l.producer.Input() <- msg
		return nil
	})
}
