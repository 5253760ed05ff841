package botmw

import (
	"context"
	"fmt"

	"github.com/Semior001/newsdigest/pkg/botx"
	"github.com/Semior001/newsdigest/pkg/logx"
	"github.com/google/uuid"
)

// RequestID puts a new request id into the context, unless it already
// has one.
func RequestID() botx.Middleware {
	return func(next botx.Handler) botx.Handler {
		return func(ctx context.Context, req botx.Request) ([]botx.Response, error) {
			if _, ok := logx.RequestIDFromContext(ctx); !ok {
				ctx = logx.ContextWithRequestID(ctx, uuid.NewString())
			}
			return next(ctx, req)
		}
	}
}

// AppendRequestIDOnError adds the request id to responses of a failed
// request, so that users can report it. If the handler didn't respond
// to the requester, a generic apology is sent.
func AppendRequestIDOnError() botx.Middleware {
	return func(next botx.Handler) botx.Handler {
		return func(ctx context.Context, req botx.Request) ([]botx.Response, error) {
			resps, err := next(ctx, req)
			if err == nil {
				return resps, nil
			}

			reqID, _ := logx.RequestIDFromContext(ctx)
			footer := fmt.Sprintf("\n\nRequest ID: `%s`", reqID)

			answered := false
			for i := range resps {
				if resps[i].ChatID != req.Chat.ID {
					continue
				}
				resps[i].Text += footer
				answered = true
			}

			if !answered {
				resps = append(resps, botx.Response{
					ChatID: req.Chat.ID,
					Text:   "Something went wrong. Please, try again later or ask admin for help." + footer,
				})
			}

			return resps, err
		}
	}
}
