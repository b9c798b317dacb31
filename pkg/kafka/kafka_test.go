package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"
)

func TestProducerConfig(t *testing.T) {
	t.Parallel()

	cfg := producerConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)

	// no goroutine drains either channel, so a fire-and-forget producer must
	// not return acks or errors
	require.False(t, cfg.Producer.Return.Successes)
	require.False(t, cfg.Producer.Return.Errors)
}
