// Package botx provides a command router, middlewares and a worker pool
// to serve chat bot updates.
package botx

import (
	"context"
	"sync"

	"github.com/Semior001/newsdigest/pkg/logx"
	"golang.org/x/exp/slog"
)

//go:generate moq -out mock_api.go . API

// API defines methods for an API interface to receive and send chat messages.
type API interface {
	Updates() <-chan Request
	SendMessage(ctx context.Context, resp Response) error
}

// Options defines options for Bot.
type Options struct {
	Workers int
	Logger  *slog.Logger
	// Replies makes responses to the requester's chat reply to the
	// request message.
	Replies bool
}

// Option defines a function that configures Bot.
type Option func(*Options)

// WithWorkers sets the number of workers to run.
func WithWorkers(workers int) Option {
	return func(o *Options) {
		if workers > 0 {
			o.Workers = workers
		}
	}
}

// WithLogger sets the logger to use.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithReplies turns on replying to request messages.
func WithReplies() Option {
	return func(o *Options) { o.Replies = true }
}

// Bot serves updates of the API with the handler.
type Bot struct {
	h   Handler
	api API
	Options
}

// NewBot creates a new Bot.
func NewBot(h Handler, api API, opts ...Option) *Bot {
	b := &Bot{
		h:   h,
		api: api,
		Options: Options{
			Workers: 1,
			Logger:  slog.New(logx.NoOp()),
		},
	}

	for _, opt := range opts {
		opt(&b.Options)
	}

	return b
}

// Run handles updates in Workers goroutines until the context is done
// or the updates channel is closed.
func (b *Bot) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < b.Workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			b.work(ctx, worker)
		}(i)
	}
	wg.Wait()
}

func (b *Bot) work(ctx context.Context, worker int) {
	lg := b.Logger.With(slog.Int("worker", worker))
	lg.DebugCtx(ctx, "worker started")
	defer lg.DebugCtx(ctx, "worker stopped")

	updates := b.api.Updates()
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-updates:
			if !ok {
				return
			}
			b.serve(ctx, req)
		}
	}
}

func (b *Bot) serve(ctx context.Context, req Request) {
	resps, err := b.h(ctx, req)
	if err != nil {
		b.Logger.ErrorCtx(ctx, "failed to handle request",
			slog.String("chat_id", req.Chat.ID),
			slog.Any("err", err))
	}

	for _, resp := range resps {
		if b.Replies && resp.ChatID == req.Chat.ID && resp.ReplyToMessageID == "" {
			resp.ReplyToMessageID = req.MessageID
		}

		if err := b.api.SendMessage(ctx, resp); err != nil {
			b.Logger.WarnCtx(ctx, "failed to send message",
				slog.String("chat_id", resp.ChatID),
				slog.Any("err", err))
		}
	}
}
