package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Semior001/newsdigest/app/news"
	"github.com/Semior001/newsdigest/app/revisor"
	"github.com/Semior001/newsdigest/app/store"
	"github.com/Semior001/newsdigest/pkg/botx"
	"github.com/samber/lo"
)

func (c *Ctrl) news(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	u, ok := userFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no user in context")
	}

	category := news.General
	if len(u.Preferences.PreferredTopics) > 0 {
		if pc, err := news.ParseCategory(u.Preferences.PreferredTopics[0]); err == nil {
			category = pc
		}
	}

	if args := req.Args(); len(args) > 0 {
		var err error
		if category, err = news.ParseCategory(args[0]); err != nil {
			return []botx.Response{{
				ChatID: req.Chat.ID,
				Text:   "Unknown category, try one of: " + categoryList(),
			}}, nil
		}
	}

	pageSize := c.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	page, err := c.Pages.Page(ctx, news.Request{Category: category, PageSize: pageSize})
	if err != nil {
		return nil, fmt.Errorf("get %s news: %w", category, err)
	}

	if len(page.Articles) == 0 {
		return []botx.Response{{
			ChatID: req.Chat.ID,
			Text:   fmt.Sprintf("No %s news for now, try again later.", category),
		}}, nil
	}

	articles := page.Articles
	if len(articles) > pageSize {
		articles = articles[:pageSize]
	}

	sb := &strings.Builder{}
	_, _ = fmt.Fprintf(sb, "*Latest %s news*\n\n", category)
	writeArticles(sb, articles)

	return []botx.Response{{ChatID: req.Chat.ID, Text: sb.String()}}, nil
}

func (c *Ctrl) topics(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	u, ok := userFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no user in context")
	}

	args := req.Args()
	if len(args) == 0 {
		return []botx.Response{{
			ChatID: req.Chat.ID,
			Text: fmt.Sprintf("Your topics: %s.\nAvailable: %s.\nUse /topics science health to change them.",
				strings.Join(u.Preferences.PreferredTopics, ", "), categoryList()),
		}}, nil
	}

	topics := make([]string, 0, len(args))
	for _, arg := range args {
		category, err := news.ParseCategory(arg)
		if err != nil {
			return []botx.Response{{
				ChatID: req.Chat.ID,
				Text:   fmt.Sprintf("Unknown category %s, try one of: %s", escapeMarkdown(arg), categoryList()),
			}}, nil
		}
		topics = append(topics, string(category))
	}

	prefs, err := c.Store.PutPreferences(ctx, req.Chat.ID, store.Preferences{PreferredTopics: lo.Uniq(topics)})
	if err != nil {
		return nil, fmt.Errorf("put topics: %w", err)
	}

	return []botx.Response{{
		ChatID: req.Chat.ID,
		Text:   fmt.Sprintf("Your topics: %s.", strings.Join(prefs.PreferredTopics, ", ")),
	}}, nil
}

func (c *Ctrl) level(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	u, ok := userFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no user in context")
	}

	levels := escapeMarkdown(strings.Join(lo.Map(revisor.ReadingLevels(), func(l revisor.ReadingLevel, _ int) string {
		return string(l)
	}), ", "))

	args := req.Args()
	if len(args) == 0 {
		return []botx.Response{{
			ChatID: req.Chat.ID,
			Text: fmt.Sprintf("Your reading level: %s.\nAvailable: %s.",
				escapeMarkdown(string(readingLevel(u))), levels),
		}}, nil
	}

	level := revisor.ReadingLevel(strings.ToLower(args[0]))
	if !level.Valid() {
		return []botx.Response{{
			ChatID: req.Chat.ID,
			Text:   "Unknown reading level, try one of: " + levels,
		}}, nil
	}

	if _, err := c.Store.PutPreferences(ctx, req.Chat.ID, store.Preferences{ReadingLevel: string(level)}); err != nil {
		return nil, fmt.Errorf("put reading level: %w", err)
	}

	return []botx.Response{{
		ChatID: req.Chat.ID,
		Text:   fmt.Sprintf("Your reading level: %s.", escapeMarkdown(string(level))),
	}}, nil
}

func categoryList() string {
	return strings.Join(lo.Map(news.Categories(), func(c news.Category, _ int) string {
		return string(c)
	}), ", ")
}

func writeArticles(sb *strings.Builder, articles []store.Article) {
	for i, a := range articles {
		_, _ = fmt.Fprintf(sb, "%d. [%s](%s)", i+1, escapeMarkdown(a.Title), a.URL)
		if a.Source != "" {
			_, _ = fmt.Fprintf(sb, " - %s", escapeMarkdown(a.Source))
		}
		sb.WriteString("\n")
	}
}
