package xmsg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_Order(t *testing.T) {
	var trace []string
	mw := func(tag string) Middleware {
		return func(next Handler) Handler {
			return func(ctx context.Context, msg *Message) error {
				trace = append(trace, tag)
				return next(ctx, msg)
			}
		}
	}

	h := Chain(func(ctx context.Context, msg *Message) error {
		trace = append(trace, "handler")
		return nil
	}, mw("a"), nil, mw("b"))

	require.NoError(t, h(context.Background(), &Message{}))
	assert.Equal(t, []string{"a", "b", "handler"}, trace)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware()(func(ctx context.Context, msg *Message) error {
		_ = msg.Payload.MustVec2()
		return nil
	})

	err := h(context.Background(), &Message{Payload: NewInt(1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	h = RecoveryMiddleware()(func(ctx context.Context, msg *Message) error {
		panic("boom")
	})
	err = h(context.Background(), &Message{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRetryMiddleware_SucceedsAfterFailures(t *testing.T) {
	clock := newManualClock()
	start := clock.Now()
	ctx := InjectAll(context.Background(), nil, clock)

	calls := 0
	h := RetryMiddleware(RetryConfig{
		MaxAttempts: 4,
		Backoff:     func(attempt int) time.Duration { return time.Duration(attempt) * time.Second },
	})(func(ctx context.Context, msg *Message) error {
		calls++
		if calls < 4 {
			return errors.New("not yet")
		}
		return nil
	})

	require.NoError(t, h(ctx, &Message{}))
	assert.Equal(t, 4, calls)
	// Waits of 1s, 2s and 3s went through the injected clock.
	assert.Equal(t, 6*time.Second, clock.Since(start))
}

func TestRetryMiddleware_GivesUp(t *testing.T) {
	sentinel := errors.New("always")
	calls := 0
	h := RetryMiddleware(RetryConfig{MaxAttempts: 3})(func(ctx context.Context, msg *Message) error {
		calls++
		return sentinel
	})
	assert.ErrorIs(t, h(context.Background(), &Message{}), sentinel)
	assert.Equal(t, 3, calls)
}

func TestRetryMiddleware_RetryIf(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	h := RetryMiddleware(RetryConfig{
		MaxAttempts: 5,
		RetryIf:     func(err error) bool { return !errors.Is(err, permanent) },
	})(func(ctx context.Context, msg *Message) error {
		calls++
		return permanent
	})
	assert.ErrorIs(t, h(context.Background(), &Message{}), permanent)
	assert.Equal(t, 1, calls)
}

func TestRetryMiddleware_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	h := RetryMiddleware(RetryConfig{MaxAttempts: 5})(func(ctx context.Context, msg *Message) error {
		calls++
		cancel()
		return errors.New("failed")
	})
	assert.Error(t, h(ctx, &Message{}))
	assert.Equal(t, 1, calls)
}

func TestTimeoutMiddleware(t *testing.T) {
	slow := func(ctx context.Context, msg *Message) error {
		<-ctx.Done()
		return ctx.Err()
	}
	err := TimeoutMiddleware(10*time.Millisecond)(slow)(context.Background(), &Message{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	sentinel := errors.New("handler failed")
	fast := func(ctx context.Context, msg *Message) error { return sentinel }
	err = TimeoutMiddleware(time.Second)(fast)(context.Background(), &Message{})
	assert.ErrorIs(t, err, sentinel)

	// Non-positive durations leave the handler untouched.
	err = TimeoutMiddleware(0)(fast)(context.Background(), &Message{})
	assert.ErrorIs(t, err, sentinel)
}

func TestContextInjection(t *testing.T) {
	clock := newManualClock()
	r := newTestRouter(t, clock)

	ctx := InjectAll(context.Background(), r.Logger(), r.Clock())
	l, ok := LoggerFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, r.Logger(), l)

	c, ok := ClockFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, clock.Now(), c.Now())

	_, ok = LoggerFromContext(context.Background())
	assert.False(t, ok)
	_, ok = ClockFromContext(context.Background())
	assert.False(t, ok)
}
