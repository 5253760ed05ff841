package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Semior001/newsdigest/pkg/botx"
)

func (c *Ctrl) cacheStats(_ context.Context, req botx.Request) ([]botx.Response, error) {
	stats := c.Simplifier.CacheStat()
	return []botx.Response{{
		ChatID: req.Chat.ID,
		Text: fmt.Sprintf("hits: %d, misses: %d, evictions: %d, added: %d\n",
			stats.Hits, stats.Misses, stats.Evicted, stats.Added),
	}}, nil
}

func (c *Ctrl) clearCache(_ context.Context, req botx.Request) ([]botx.Response, error) {
	c.Simplifier.ClearCache()
	return []botx.Response{{ChatID: req.Chat.ID, Text: "Simplifier cache cleared."}}, nil
}

func (c *Ctrl) users(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	users, err := c.Store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	sb := &strings.Builder{}
	_, _ = sb.WriteString("Users:\n")
	for _, u := range users {
		_, _ = sb.WriteString(fmt.Sprintf("id: %s, topics: %s, level: %s, favorites: %d\n",
			u.ID, strings.Join(u.Preferences.PreferredTopics, ", "),
			escapeMarkdown(string(readingLevel(u))), len(u.Preferences.Favorites)))
	}

	return []botx.Response{{
		ChatID: req.Chat.ID,
		Text:   sb.String(),
	}}, nil
}
