package bot

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"text/template"

	"github.com/Semior001/newsdigest/app/revisor"
	"github.com/Semior001/newsdigest/app/store"
	"github.com/Semior001/newsdigest/pkg/botx"
	"github.com/samber/lo"
	"golang.org/x/exp/slog"
)

var simplifiedMessageTmpl = template.Must(template.New("simplifiedMessage").Parse(`*{{.OriginalTitle}}*

_{{.SimplifiedSummary}}_

{{.FullContent}}

*Pros:*
{{range .Pros}}- {{.}}
{{end}}
*Cons:*
{{range .Cons}}- {{.}}
{{end}}
[source]({{.OriginalURL}})
`))

func (c *Ctrl) simplify(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	args := req.Args()
	if len(args) != 1 {
		return []botx.Response{{ChatID: req.Chat.ID, Text: "Usage: /simplify <url>"}}, nil
	}

	u, ok := parseURL(args[0])
	if !ok {
		return []botx.Response{{ChatID: req.Chat.ID, Text: "Please, send me a valid link."}}, nil
	}

	return c.simplifyURL(ctx, req, u)
}

func (c *Ctrl) simplifyURL(ctx context.Context, req botx.Request, u string) ([]botx.Response, error) {
	usr, ok := userFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no user in context")
	}

	err := c.API.SendMessage(ctx, botx.Response{
		ChatID: req.Chat.ID,
		Text:   "I'm working on it, please wait...",
	})
	if err != nil {
		return nil, fmt.Errorf("send start message: %w", err)
	}

	article, err := c.Fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch article: %w", err)
	}

	res, err := c.Simplifier.Simplify(ctx, article, readingLevel(usr))
	switch {
	case revisor.IsInvalidOutput(err):
		c.Logger.WarnCtx(ctx, "failed to simplify article", slog.String("url", u), slog.Any("err", err))
		return []botx.Response{{
			ChatID: req.Chat.ID,
			Text:   "Sorry, I couldn't rewrite this article, please try again later.",
		}}, nil
	case err != nil:
		return nil, fmt.Errorf("simplify article: %w", err)
	}

	if res.OriginalURL == "" {
		res.OriginalURL = u
	}
	if res.OriginalTitle == "" {
		res.OriginalTitle = article.Title
	}

	sb := &strings.Builder{}
	if err = simplifiedMessageTmpl.Execute(sb, escapeSimplified(res)); err != nil {
		return nil, fmt.Errorf("execute simplified message template: %w", err)
	}

	return []botx.Response{{ChatID: req.Chat.ID, Text: sb.String()}}, nil
}

func (c *Ctrl) addFavorite(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	args := req.Args()
	if len(args) != 1 {
		return []botx.Response{{ChatID: req.Chat.ID, Text: "Usage: /fav <url>"}}, nil
	}

	u, ok := parseURL(args[0])
	if !ok {
		return []botx.Response{{ChatID: req.Chat.ID, Text: "Please, send me a valid link."}}, nil
	}

	article, err := c.Fetcher.Fetch(ctx, u)
	if err != nil {
		c.Logger.WarnCtx(ctx, "failed to fetch favorite article, saving the link only",
			slog.String("url", u), slog.Any("err", err))
		article = store.Article{URL: u}
	}
	if article.Title == "" {
		article.Title = u
	}

	if err = c.Store.AddFavorite(ctx, req.Chat.ID, article); err != nil {
		return nil, fmt.Errorf("add favorite: %w", err)
	}

	return []botx.Response{{
		ChatID: req.Chat.ID,
		Text:   fmt.Sprintf("Added to favorites: %s", escapeMarkdown(article.Title)),
	}}, nil
}

func (c *Ctrl) removeFavorite(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	args := req.Args()
	if len(args) != 1 {
		return []botx.Response{{ChatID: req.Chat.ID, Text: "Usage: /unfav <url>"}}, nil
	}

	if err := c.Store.RemoveFavorite(ctx, req.Chat.ID, args[0]); err != nil {
		return nil, fmt.Errorf("remove favorite: %w", err)
	}

	return []botx.Response{{ChatID: req.Chat.ID, Text: "Removed from favorites."}}, nil
}

func (c *Ctrl) favorites(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	u, ok := userFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no user in context")
	}

	if len(u.Preferences.Favorites) == 0 {
		return []botx.Response{{ChatID: req.Chat.ID, Text: "You have no favorites yet, add one with /fav <url>."}}, nil
	}

	sb := &strings.Builder{}
	sb.WriteString("*Favorites*\n\n")
	writeArticles(sb, u.Preferences.Favorites)

	return []botx.Response{{ChatID: req.Chat.ID, Text: sb.String()}}, nil
}

func parseURL(s string) (string, bool) {
	u, err := url.ParseRequestURI(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return u.String(), true
}

func escapeSimplified(s revisor.Simplified) revisor.Simplified {
	s.OriginalTitle = escapeMarkdown(s.OriginalTitle)
	s.SimplifiedSummary = escapeMarkdown(s.SimplifiedSummary)
	s.FullContent = escapeMarkdown(s.FullContent)
	s.Pros = lo.Map(s.Pros, func(p string, _ int) string { return escapeMarkdown(p) })
	s.Cons = lo.Map(s.Cons, func(c string, _ int) string { return escapeMarkdown(c) })
	return s
}
