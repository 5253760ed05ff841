// Package botmw provides middlewares for bot handler.
package botmw

import (
	"context"
	"fmt"
	"time"

	"github.com/Semior001/newsdigest/pkg/botx"
	"golang.org/x/exp/slog"
)

// Logger logs every request with its command and outcome. Message texts
// are logged only at debug level.
func Logger(lg *slog.Logger) botx.Middleware {
	return func(next botx.Handler) botx.Handler {
		return func(ctx context.Context, req botx.Request) ([]botx.Response, error) {
			debug := lg.Enabled(ctx, slog.LevelDebug)

			attrs := []any{
				slog.String("chat_id", req.Chat.ID),
				slog.String("chat_username", req.Chat.Username),
				slog.String("command", req.Command()),
			}
			if debug {
				attrs = append(attrs, slog.String("text", req.Text))
			}

			start := time.Now()
			resps, err := next(ctx, req)
			attrs = append(attrs,
				slog.Int("responses", len(resps)),
				slog.Duration("elapsed", time.Since(start)),
			)

			switch {
			case err != nil:
				lg.WarnCtx(ctx, "request failed", append(attrs, slog.Any("err", err))...)
			case debug:
				lg.DebugCtx(ctx, "request processed", append(attrs, slog.Any("resps", resps))...)
			default:
				lg.InfoCtx(ctx, "request processed", attrs...)
			}

			return resps, err
		}
	}
}

// Recover turns panics of the handler into errors.
func Recover(lg *slog.Logger) botx.Middleware {
	return func(next botx.Handler) botx.Handler {
		return func(ctx context.Context, req botx.Request) (resps []botx.Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					lg.ErrorCtx(ctx, "panic recovered", slog.Any("panic", r))
					resps, err = nil, fmt.Errorf("panic: %v", r)
				}
			}()
			return next(ctx, req)
		}
	}
}
