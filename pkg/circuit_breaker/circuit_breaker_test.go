package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ddmtrv/booklibrary-service/pkg/circuit_breaker"
	"github.com/stretchr/testify/require"
)

func Test_circuitBreaker_Call(t *testing.T) {
	t.Parallel()

	successfulService := func() error {
		return nil
	}
	failingService := func() error {
		return errors.New("service error")
	}

	t.Run("opens after failure percentile exceeded", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(10, time.Minute, 0.30, 2)

		for i := 0; i < 10; i++ {
			require.NoError(t, cb.Call(successfulService))
		}
		for i := 0; i < 4; i++ {
			_ = cb.Call(failingService)
		}

		err := cb.Call(successfulService)
		require.ErrorIs(t, err, circuit_breaker.ErrOpenCB)
	})

	t.Run("recovers through half-open", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(10, 20*time.Millisecond, 0.30, 2)

		for i := 0; i < 4; i++ {
			_ = cb.Call(failingService)
		}
		require.ErrorIs(t, cb.Call(successfulService), circuit_breaker.ErrOpenCB)

		time.Sleep(30 * time.Millisecond)

		// half-open now, consecutive successes close it again
		for i := 0; i < 5; i++ {
			require.NoError(t, cb.Call(successfulService))
		}
		require.NoError(t, cb.Call(successfulService))
	})

	t.Run("half-open failure reopens", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(10, 20*time.Millisecond, 0.30, 3)

		for i := 0; i < 4; i++ {
			_ = cb.Call(failingService)
		}
		time.Sleep(30 * time.Millisecond)

		require.Error(t, cb.Call(failingService))
		require.ErrorIs(t, cb.Call(successfulService), circuit_breaker.ErrOpenCB)
	})
}
