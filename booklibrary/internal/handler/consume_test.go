package handler_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/handler"
	"github.com/ddmtrv/booklibrary-service/pkg/kafka"
)

type sessionCtxKey struct{}

type sessionStub struct {
	ctx    context.Context
	marked []*sarama.ConsumerMessage
}

func (s *sessionStub) Claims() map[string][]int32 { return nil }
func (s *sessionStub) MemberID() string           { return "" }
func (s *sessionStub) GenerationID() int32        { return 0 }
func (s *sessionStub) MarkOffset(string, int32, int64, string) {
}
func (s *sessionStub) Commit() {}
func (s *sessionStub) ResetOffset(string, int32, int64, string) {
}
func (s *sessionStub) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg)
}
func (s *sessionStub) Context() context.Context { return s.ctx }

type claimStub struct {
	msgs chan *sarama.ConsumerMessage
}

func (c *claimStub) Topic() string                                 { return kafka.StatsTopic }
func (c *claimStub) Partition() int32                              { return 0 }
func (c *claimStub) InitialOffset() int64                          { return 0 }
func (c *claimStub) HighWaterMarkOffset() int64                    { return 0 }
func (c *claimStub) Messages() <-chan *sarama.ConsumerMessage      { return c.msgs }

func TestConsumer_Setup(t *testing.T) {
	t.Parallel()

	// the group re-joins after every rebalance, so Setup runs once per
	// session and must be safe to repeat
	consumer := handler.NewConsumer(nil, zap.NewNop())
	require.NoError(t, consumer.Setup(nil))
	require.NoError(t, consumer.Setup(nil))
	require.NoError(t, consumer.Cleanup(nil))
}

func TestConsumer_ConsumeClaim(t *testing.T) {
	t.Parallel()

	newClaim := func(values ...[]byte) *claimStub {
		claim := &claimStub{msgs: make(chan *sarama.ConsumerMessage, len(values))}
		for _, v := range values {
			claim.msgs <- &sarama.ConsumerMessage{Value: v}
		}
		close(claim.msgs)
		return claim
	}

	t.Run("handles messages with the session context", func(t *testing.T) {
		t.Parallel()

		var (
			gotCtx   context.Context
			gotEvent kafka.EventStats
		)
		consumer := handler.NewConsumer(func(ctx context.Context, event kafka.EventStats) error {
			gotCtx, gotEvent = ctx, event
			return nil
		}, zap.NewNop())

		sess := &sessionStub{ctx: context.WithValue(context.Background(), sessionCtxKey{}, "session")}
		payload, err := json.Marshal(kafka.EventStats{EventType: "book.borrowed", Isbn: "9780134190440"})
		require.NoError(t, err)

		require.NoError(t, consumer.ConsumeClaim(sess, newClaim(payload)))
		require.Equal(t, "book.borrowed", gotEvent.EventType)
		require.Len(t, sess.marked, 1)

		require.NotNil(t, gotCtx)
		require.Equal(t, "session", gotCtx.Value(sessionCtxKey{}))
	})

	t.Run("malformed payload is marked and skipped", func(t *testing.T) {
		t.Parallel()

		handled := 0
		consumer := handler.NewConsumer(func(context.Context, kafka.EventStats) error {
			handled++
			return nil
		}, zap.NewNop())

		sess := &sessionStub{ctx: context.Background()}
		require.NoError(t, consumer.ConsumeClaim(sess, newClaim([]byte("{not json"))))
		require.Zero(t, handled)
		require.Len(t, sess.marked, 1)
	})

	t.Run("handler failure leaves the message unmarked", func(t *testing.T) {
		t.Parallel()

		consumer := handler.NewConsumer(func(context.Context, kafka.EventStats) error {
			return sarama.ErrOutOfBrokers
		}, zap.NewNop())

		sess := &sessionStub{ctx: context.Background()}
		payload, err := json.Marshal(kafka.EventStats{EventType: "book.returned"})
		require.NoError(t, err)

		require.NoError(t, consumer.ConsumeClaim(sess, newClaim(payload)))
		require.Empty(t, sess.marked)
	})
}
