package revisor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/Semior001/newsdigest/app/store"
	"github.com/go-pkgz/requester"
	"github.com/go-shiori/go-readability"
	"golang.org/x/exp/slog"
)

// Extractor is extracts article from HTML page.
type Extractor struct {
	parser readability.Parser
}

// NewExtractor creates new Extractor.
func NewExtractor(debug bool) Extractor {
	svc := Extractor{parser: readability.NewParser()}
	svc.parser.Debug = debug

	return svc
}

// Extract extracts article from an HTML page. Page URL is used to resolve
// relative links and may be nil.
func (e Extractor) Extract(rd io.Reader, pageURL *url.URL) (store.Article, error) {
	doc, err := e.parser.Parse(rd, pageURL)
	if err != nil {
		return store.Article{}, fmt.Errorf("parse html: %w", err)
	}

	return store.Article{
		Title:       doc.Title,
		Description: doc.Excerpt,
		Content:     sanitize(doc.TextContent),
		Author:      doc.Byline,
		ImageURL:    doc.Image,
		Source:      doc.SiteName,
	}, nil
}

var spaces = regexp.MustCompile(`\s+`)

func sanitize(s string) string {
	// nbsp
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// truncated matches the marker the provider puts at the end of cut content.
var truncated = regexp.MustCompile(`\s*\[\+\d+ chars\]\s*$`)

// Fetcher downloads articles and extracts their text.
type Fetcher struct {
	log       *slog.Logger
	cl        *requester.Requester
	extractor Extractor
}

// NewFetcher makes a new Fetcher.
func NewFetcher(lg *slog.Logger, cl *requester.Requester, extractor Extractor) *Fetcher {
	return &Fetcher{log: lg, cl: cl, extractor: extractor}
}

// Fetch downloads the page and extracts the article from it.
func (f *Fetcher) Fetch(ctx context.Context, u string) (store.Article, error) {
	f.log.DebugCtx(ctx, "fetching article", slog.String("url", u))

	pageURL, err := url.Parse(u)
	if err != nil {
		return store.Article{}, fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return store.Article{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.cl.Do(req)
	if err != nil {
		return store.Article{}, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			f.log.WarnCtx(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !ok {
		return store.Article{}, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	article, err := f.extractor.Extract(resp.Body, pageURL)
	if err != nil {
		return store.Article{}, fmt.Errorf("extract article: %w", err)
	}
	article.URL = u

	return article, nil
}

// Full replaces the content of the article with the text from its page,
// when the provider's content is cut. On failure the article is returned
// unchanged.
func (f *Fetcher) Full(ctx context.Context, article store.Article) store.Article {
	if article.URL == "" || !truncated.MatchString(article.Content) {
		return article
	}

	page, err := f.Fetch(ctx, article.URL)
	if err != nil {
		f.log.WarnCtx(ctx, "failed to fetch full article",
			slog.String("url", article.URL),
			slog.Any("err", err),
		)
		return article
	}

	if len(page.Content) <= len(truncated.ReplaceAllString(article.Content, "")) {
		return article
	}

	article.Content = page.Content
	return article
}
