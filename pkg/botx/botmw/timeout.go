package botmw

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Semior001/newsdigest/pkg/botx"
)

// ErrTimeout is returned by Timeout middleware when handler timed out.
var ErrTimeout = errors.New("timed out")

// Timeout limits the handler's time with dur, zero means no limit.
// The handler receives the deadline in its context, but the middleware
// returns after dur even if the handler ignores it.
func Timeout(dur time.Duration) botx.Middleware {
	return func(next botx.Handler) botx.Handler {
		if dur <= 0 {
			return next
		}

		return func(ctx context.Context, req botx.Request) ([]botx.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, dur)
			defer cancel()

			type result struct {
				resps []botx.Response
				err   error
			}

			done := make(chan result, 1)
			go func() {
				resps, err := next(ctx, req)
				done <- result{resps: resps, err: err}
			}()

			select {
			case res := <-done:
				return res.resps, res.err
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return nil, fmt.Errorf("%w after %s", ErrTimeout, dur)
				}
				return nil, ctx.Err()
			}
		}
	}
}
