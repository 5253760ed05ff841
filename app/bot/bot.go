// Package bot contains routers and controllers for bots.
package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Semior001/newsdigest/app/news"
	"github.com/Semior001/newsdigest/app/revisor"
	"github.com/Semior001/newsdigest/app/store"
	"github.com/Semior001/newsdigest/pkg/botx"
	"github.com/Semior001/newsdigest/pkg/botx/botmw"
	expirable "github.com/go-pkgz/expirable-cache/v2"
	"github.com/samber/lo"
	"golang.org/x/exp/slog"
)

//go:generate moq -out mock_pages.go . Pages
//go:generate moq -out mock_simplifier.go . Simplifier
//go:generate moq -out mock_fetcher.go . Fetcher

// Pages provides pages of articles.
type Pages interface {
	Page(ctx context.Context, req news.Request) (news.Page, error)
}

// Simplifier rewrites articles for reading levels.
type Simplifier interface {
	Simplify(ctx context.Context, article store.Article, level revisor.ReadingLevel) (revisor.Simplified, error)
	ClearCache()
	CacheStat() expirable.Stats
}

// Fetcher downloads articles by url.
type Fetcher interface {
	Fetch(ctx context.Context, u string) (store.Article, error)
}

// DefaultPageSize is the number of articles sent by /news.
const DefaultPageSize = 5

// Ctrl provides routes and controllers for bot updates.
type Ctrl struct {
	Logger         *slog.Logger
	Store          store.Interface
	Pages          Pages
	Simplifier     Simplifier
	Fetcher        Fetcher
	API            botx.API
	AdminIDs       []string
	HandlerTimeout time.Duration
	PageSize       int
	// Cooldown is the minimal interval between requests of a chat that
	// download or rewrite articles.
	Cooldown time.Duration
}

// Routes returns a multiplexer for bot controllers.
func (c *Ctrl) Routes() *botx.Router {
	rtr := botx.NewRouter()

	rtr.Use(
		botmw.RequestID(),
		botmw.AppendRequestIDOnError(),
		botmw.Recover(c.Logger),
		botmw.Logger(c.Logger),
		botmw.Timeout(c.HandlerTimeout),
		c.withUser,
	)

	cooldown := botmw.Cooldown(c.Cooldown)

	rtr.NotFound(botx.Handler(c.fallback).With(cooldown))
	rtr.Add("/start", c.start)
	rtr.Add("/help", c.help)
	rtr.Add("/news", c.news)
	rtr.Add("/topics", c.topics)
	rtr.Add("/level", c.level)
	rtr.Add("/unfav", c.removeFavorite)
	rtr.Add("/favorites", c.favorites)

	rtr.Group(func(rtr *botx.Router) {
		rtr.Use(cooldown)

		rtr.Add("/simplify", c.simplify)
		rtr.Add("/fav", c.addFavorite)
	})

	rtr.Group(func(rtr *botx.Router) {
		rtr.Use(c.ensureAdmin)

		rtr.Add("/cache", c.cacheStats)
		rtr.Add("/clear", c.clearCache)
		rtr.Add("/users", c.users)
	})

	return rtr
}

const helpText = "/news [category] - latest news, in your first topic by default\n" +
	"/topics [category...] - show or set your topics\n" +
	"/level [level] - show or set your reading level\n" +
	"/simplify <url> - rewrite the article for your reading level\n" +
	"/fav <url> - add the article to favorites\n" +
	"/unfav <url> - remove the article from favorites\n" +
	"/favorites - list your favorites\n\n" +
	"You can also just send me a link to an article."

func (c *Ctrl) start(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	u, ok := userFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no user in context")
	}

	// persist the user with default preferences
	if _, err := c.Store.PutPreferences(ctx, req.Chat.ID, store.Preferences{}); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	if err := c.NotifyAdmins(ctx, fmt.Sprintf("new user: %s", escapeMarkdown(req.Chat.Username))); err != nil {
		c.Logger.WarnCtx(ctx, "notify admins about registered user", slog.Any("err", err))
	}

	return []botx.Response{{
		ChatID: req.Chat.ID,
		Text: fmt.Sprintf("Hello! I collect the latest news and can rewrite them in simpler words.\n"+
			"Your topics: %s, reading level: %s.\n\n%s",
			strings.Join(u.Preferences.PreferredTopics, ", "), escapeMarkdown(string(readingLevel(u))),
			escapeMarkdown(helpText)),
	}}, nil
}

func (c *Ctrl) help(_ context.Context, req botx.Request) ([]botx.Response, error) {
	return []botx.Response{{ChatID: req.Chat.ID, Text: escapeMarkdown(helpText)}}, nil
}

// fallback simplifies the article if the message is a link.
func (c *Ctrl) fallback(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	if u, ok := parseURL(req.Text); ok {
		return c.simplifyURL(ctx, req, u)
	}

	return []botx.Response{{
		ChatID: req.Chat.ID,
		Text:   "I don't know this command.\n\n" + escapeMarkdown(helpText),
	}}, nil
}

type userKey struct{}

func userFromContext(ctx context.Context) (store.User, bool) {
	u, ok := ctx.Value(userKey{}).(store.User)
	return u, ok
}

// withUser loads the requester's user into the context.
func (c *Ctrl) withUser(h botx.Handler) botx.Handler {
	return func(ctx context.Context, req botx.Request) ([]botx.Response, error) {
		u, err := c.Store.GetUser(ctx, req.Chat.ID)
		if err != nil {
			return nil, fmt.Errorf("get user: %w", err)
		}

		return h(context.WithValue(ctx, userKey{}, u), req)
	}
}

func (c *Ctrl) ensureAdmin(h botx.Handler) botx.Handler {
	return func(ctx context.Context, req botx.Request) ([]botx.Response, error) {
		if !lo.Contains(c.AdminIDs, req.Chat.ID) {
			return botx.NotFound(ctx, req)
		}

		return h(ctx, req)
	}
}

// NotifyAdmins sends a message to all admins.
func (c *Ctrl) NotifyAdmins(ctx context.Context, msg string) error {
	for _, adminID := range c.AdminIDs {
		if err := c.API.SendMessage(ctx, botx.Response{
			ChatID: adminID,
			Text:   msg,
		}); err != nil {
			return fmt.Errorf("send message to admin: %w", err)
		}
	}

	return nil
}

func readingLevel(u store.User) revisor.ReadingLevel {
	if u.Preferences.ReadingLevel == "" {
		return revisor.DefaultReadingLevel
	}
	return revisor.ReadingLevel(u.Preferences.ReadingLevel)
}

var mdEscaper = strings.NewReplacer(
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	"[", "\\[",
	"]", "\\]",
)

func escapeMarkdown(s string) string {
	return mdEscaper.Replace(s)
}
