package botmw

import (
	"context"
	"fmt"
	"time"

	"github.com/Semior001/newsdigest/pkg/botx"
	expirable "github.com/go-pkgz/expirable-cache/v2"
)

// maxCooldownChats bounds the number of tracked chats.
const maxCooldownChats = 10000

// Cooldown lets a chat through at most once per interval, other requests
// are answered with a notice and not passed to the handler. All handlers
// wrapped by the same middleware share the limit. Zero interval disables
// the middleware.
func Cooldown(interval time.Duration) botx.Middleware {
	seen := expirable.NewCache[string, time.Time]().
		WithTTL(interval).
		WithMaxKeys(maxCooldownChats)

	return func(next botx.Handler) botx.Handler {
		if interval <= 0 {
			return next
		}

		return func(ctx context.Context, req botx.Request) ([]botx.Response, error) {
			if last, ok := seen.Get(req.Chat.ID); ok {
				left := (interval - time.Since(last)).Round(time.Second)
				if left < time.Second {
					left = time.Second
				}
				return []botx.Response{{
					ChatID: req.Chat.ID,
					Text:   fmt.Sprintf("Too many requests, please try again in %s.", left),
				}}, nil
			}

			seen.Set(req.Chat.ID, time.Now(), 0)
			return next(ctx, req)
		}
	}
}
