package botmw

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Semior001/newsdigest/pkg/botx"
	"github.com/Semior001/newsdigest/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestRequestID(t *testing.T) {
	var id string
	h := botx.Handler(func(ctx context.Context, _ botx.Request) ([]botx.Response, error) {
		var ok bool
		id, ok = logx.RequestIDFromContext(ctx)
		assert.True(t, ok)
		return nil, nil
	}).With(RequestID())

	_, err := h(context.Background(), botx.Request{})
	require.NoError(t, err)
	assert.Len(t, id, 36)

	ctx := logx.ContextWithRequestID(context.Background(), "upstream")
	_, err = h(ctx, botx.Request{})
	require.NoError(t, err)
	assert.Equal(t, "upstream", id)
}

func TestAppendRequestIDOnError(t *testing.T) {
	ctx := logx.ContextWithRequestID(context.Background(), "req-1")

	t.Run("no responses", func(t *testing.T) {
		h := botx.Handler(func(context.Context, botx.Request) ([]botx.Response, error) {
			return nil, errors.New("boom")
		}).With(AppendRequestIDOnError())

		resps, err := h(ctx, botx.Request{Chat: botx.Chat{ID: "1"}})
		assert.Error(t, err)
		require.Len(t, resps, 1)
		assert.Equal(t, "1", resps[0].ChatID)
		assert.Contains(t, resps[0].Text, "Request ID: `req-1`")
	})

	t.Run("response to requester", func(t *testing.T) {
		h := botx.Handler(func(_ context.Context, req botx.Request) ([]botx.Response, error) {
			return []botx.Response{{ChatID: req.Chat.ID, Text: "failed"}}, errors.New("boom")
		}).With(AppendRequestIDOnError())

		resps, err := h(ctx, botx.Request{Chat: botx.Chat{ID: "1"}})
		assert.Error(t, err)
		require.Len(t, resps, 1)
		assert.Equal(t, "failed\n\nRequest ID: `req-1`", resps[0].Text)
	})

	t.Run("response to another chat only", func(t *testing.T) {
		h := botx.Handler(func(context.Context, botx.Request) ([]botx.Response, error) {
			return []botx.Response{{ChatID: "admin", Text: "alert"}}, errors.New("boom")
		}).With(AppendRequestIDOnError())

		resps, err := h(ctx, botx.Request{Chat: botx.Chat{ID: "1"}})
		assert.Error(t, err)
		require.Len(t, resps, 2)
		assert.Equal(t, botx.Response{ChatID: "admin", Text: "alert"}, resps[0])
		assert.Equal(t, "1", resps[1].ChatID)
	})

	t.Run("success", func(t *testing.T) {
		h := botx.Handler(func(_ context.Context, req botx.Request) ([]botx.Response, error) {
			return []botx.Response{{ChatID: req.Chat.ID, Text: "ok"}}, nil
		}).With(AppendRequestIDOnError())

		resps, err := h(ctx, botx.Request{Chat: botx.Chat{ID: "1"}})
		require.NoError(t, err)
		assert.Equal(t, "ok", resps[0].Text)
	})
}

func TestTimeout(t *testing.T) {
	h := botx.Handler(func(context.Context, botx.Request) ([]botx.Response, error) {
		time.Sleep(100 * time.Millisecond)
		return []botx.Response{{Text: "late"}}, nil
	}).With(Timeout(10 * time.Millisecond))

	_, err := h(context.Background(), botx.Request{})
	assert.ErrorIs(t, err, ErrTimeout)

	h = botx.Handler(func(context.Context, botx.Request) ([]botx.Response, error) {
		return []botx.Response{{Text: "fast"}}, nil
	}).With(Timeout(0))
	resps, err := h(context.Background(), botx.Request{})
	require.NoError(t, err)
	assert.Equal(t, "fast", resps[0].Text)
}

func TestRecover(t *testing.T) {
	h := botx.Handler(func(context.Context, botx.Request) ([]botx.Response, error) {
		panic("oops")
	}).With(Recover(slog.New(logx.NoOp())))

	var err error
	assert.NotPanics(t, func() { _, err = h(context.Background(), botx.Request{}) })
	assert.EqualError(t, err, "panic: oops")
}

func TestLogger(t *testing.T) {
	h := botx.Handler(func(_ context.Context, req botx.Request) ([]botx.Response, error) {
		return []botx.Response{{ChatID: req.Chat.ID, Text: "ok"}}, nil
	}).With(Logger(slog.New(logx.NoOp())))

	resps, err := h(context.Background(), botx.Request{Chat: botx.Chat{ID: "1"}, Text: "/start"})
	require.NoError(t, err)
	assert.Equal(t, []botx.Response{{ChatID: "1", Text: "ok"}}, resps)
}

func TestCooldown(t *testing.T) {
	calls := 0
	mw := Cooldown(time.Hour)
	h := botx.Handler(func(_ context.Context, req botx.Request) ([]botx.Response, error) {
		calls++
		return []botx.Response{{ChatID: req.Chat.ID, Text: "ok"}}, nil
	})
	first, second := h.With(mw), h.With(mw)

	resps, err := first(context.Background(), botx.Request{Chat: botx.Chat{ID: "1"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", resps[0].Text)

	resps, err = second(context.Background(), botx.Request{Chat: botx.Chat{ID: "1"}})
	require.NoError(t, err)
	assert.Equal(t, "Too many requests, please try again in 1h0m0s.", resps[0].Text)

	resps, err = first(context.Background(), botx.Request{Chat: botx.Chat{ID: "2"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", resps[0].Text)

	assert.Equal(t, 2, calls)
}

func TestCooldown_Disabled(t *testing.T) {
	calls := 0
	h := botx.Handler(func(context.Context, botx.Request) ([]botx.Response, error) {
		calls++
		return nil, nil
	}).With(Cooldown(0))

	for i := 0; i < 3; i++ {
		_, err := h(context.Background(), botx.Request{Chat: botx.Chat{ID: "1"}})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}
