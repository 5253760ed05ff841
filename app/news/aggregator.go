// Package news fetches articles from the news provider, re-categorizes them
// and assembles category-relevant pages.
package news

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Semior001/newsdigest/app/store"
	"github.com/Semior001/newsdigest/pkg/throttle"
	"github.com/samber/lo"
	"golang.org/x/exp/slog"
)

// Defaults for request parameters.
const (
	DefaultPageSize = 30
	DefaultSortBy   = "publishedAt"
)

// window is how far back articles are searched.
const window = 24 * time.Hour

// Request identifies a unique page of articles.
type Request struct {
	Category Category
	Page     int
	PageSize int
	Query    string
	SortBy   string
}

// WithDefaults fills zero fields of the request with defaults.
func (r Request) WithDefaults() Request {
	if r.Category == "" {
		r.Category = General
	}
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
	if r.SortBy == "" {
		r.SortBy = DefaultSortBy
	}
	return r
}

// Key returns the cache key of the request.
func (r Request) Key() string {
	return fmt.Sprintf("news:%s:%d:%d:%s:%s", r.Category, r.Page, r.PageSize, r.Query, r.SortBy)
}

// Page is a page of articles served to consumers.
type Page struct {
	Articles   []store.Article `json:"articles"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
}

// NewPage wraps articles fetched for the request into a page.
// TotalPages is an estimate, as the provider's total is not tracked.
func NewPage(req Request, articles []store.Article) Page {
	total := 1
	if req.PageSize > 0 {
		total = len(articles)/req.PageSize + 1
	}
	return Page{Articles: articles, Page: req.Page, TotalPages: total}
}

// Policy toggles the deliberately loose parts of page assembly.
type Policy struct {
	// ExtendToDouble lets a specific category page grow up to twice the
	// page size with articles of other categories, when there are any.
	ExtendToDouble bool
	// GeneralSecondPass admits titled articles without URL to a general
	// page that is still short after the first pass.
	GeneralSecondPass bool
}

// DefaultPolicy returns the policy used in production.
func DefaultPolicy() Policy {
	return Policy{ExtendToDouble: true, GeneralSecondPass: false}
}

// Aggregator assembles pages of category-relevant articles.
type Aggregator struct {
	log      *slog.Logger
	provider Provider
	taxonomy *Taxonomy
	throttle *throttle.Throttle
	policy   Policy
	now      func() time.Time
}

// NewAggregator makes a new Aggregator.
func NewAggregator(lg *slog.Logger, p Provider, tx *Taxonomy, th *throttle.Throttle, policy Policy) *Aggregator {
	return &Aggregator{
		log:      lg,
		provider: p,
		taxonomy: tx,
		throttle: th,
		policy:   policy,
		now:      time.Now,
	}
}

// Taxonomy returns the taxonomy used to classify articles.
func (a *Aggregator) Taxonomy() *Taxonomy { return a.taxonomy }

// Result is the outcome of assembling a page.
type Result struct {
	Articles []store.Article
	// Degraded is set when a provider call failed, so that the articles
	// may be missing or incomplete.
	Degraded bool
}

// Articles returns articles for the request. Requests with a search query
// are served by Search. Otherwise, the provider is asked for the category's
// articles of the last day, which are re-classified and assembled into
// a page of at least req.PageSize articles, when the provider has enough.
//
// Provider errors on the first call are logged and yield an empty result,
// transport errors are returned. The broader refetch never fails the call.
func (a *Aggregator) Articles(ctx context.Context, req Request) ([]store.Article, error) {
	res, err := a.Collect(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.Articles, nil
}

// Collect is Articles, which also reports whether the provider failed
// along the way.
func (a *Aggregator) Collect(ctx context.Context, req Request) (Result, error) {
	req = req.WithDefaults()

	if req.Query != "" {
		return a.search(ctx, req.Query, req.Page, req.PageSize, req.SortBy)
	}

	raws, err := a.fetch(ctx, a.lastDay(Query{
		Q:        a.taxonomy.PrimaryQuery(req.Category),
		Page:     req.Page,
		PageSize: maxPageSize,
		SortBy:   req.SortBy,
	}))
	switch {
	case errors.Is(err, ErrProvider):
		a.log.WarnCtx(ctx, "provider failed to serve articles", slog.Any("err", err))
		return Result{Articles: []store.Article{}, Degraded: true}, nil
	case err != nil:
		return Result{}, fmt.Errorf("fetch articles: %w", err)
	}

	matches, others := a.partition(req.Category, raws)

	a.log.DebugCtx(ctx, "partitioned articles",
		slog.String("category", string(req.Category)),
		slog.Int("fetched", len(raws)),
		slog.Int("matches", len(matches)),
		slog.Int("others", len(others)),
	)

	if req.Category == General {
		return Result{Articles: a.assembleGeneral(matches, req.PageSize)}, nil
	}

	res := Result{Articles: a.assemble(req.Category, matches, others, req.PageSize)}
	if len(res.Articles) < req.PageSize {
		res.Articles, res.Degraded = a.refetch(ctx, req, res.Articles)
	}

	return res, nil
}

// Search returns titled articles matching the keyword query, without date
// restrictions and classification.
func (a *Aggregator) Search(ctx context.Context, query string, page, pageSize int, sortBy string) ([]store.Article, error) {
	res, err := a.search(ctx, query, page, pageSize, sortBy)
	if err != nil {
		return nil, err
	}
	return res.Articles, nil
}

func (a *Aggregator) search(ctx context.Context, query string, page, pageSize int, sortBy string) (Result, error) {
	raws, err := a.fetch(ctx, Query{Q: query, Page: page, PageSize: pageSize, SortBy: sortBy})
	switch {
	case errors.Is(err, ErrProvider):
		a.log.WarnCtx(ctx, "provider failed to search articles", slog.Any("err", err))
		return Result{Articles: []store.Article{}, Degraded: true}, nil
	case err != nil:
		return Result{}, fmt.Errorf("search articles: %w", err)
	}

	res := make([]store.Article, 0, len(raws))
	for _, raw := range raws {
		if raw.Title == "" {
			continue
		}
		res = append(res, normalize(raw, Search))
	}
	return Result{Articles: res}, nil
}

// partition splits titled articles into the ones detected to be of the
// category and the rest. For General, every titled article matches.
func (a *Aggregator) partition(c Category, raws []RawArticle) (matches, others []store.Article) {
	for _, raw := range raws {
		art := normalize(raw, a.taxonomy.Detect(raw.Title, raw.Description, raw.Content))
		switch {
		case art.Title == "":
			continue
		case c == General, Category(art.Category) == c:
			matches = append(matches, art)
		default:
			others = append(others, art)
		}
	}
	return matches, others
}

// assembleGeneral takes articles in order, deduplicated by URL.
func (a *Aggregator) assembleGeneral(pool []store.Article, size int) []store.Article {
	res := newCollector()
	taken := make([]bool, len(pool))

	for i, art := range pool {
		if len(res.items) >= size {
			break
		}
		if art.URL == "" {
			continue
		}
		taken[i] = res.add(art)
	}

	if !a.policy.GeneralSecondPass {
		return res.items
	}

	for i, art := range pool {
		if len(res.items) >= size {
			break
		}
		if !taken[i] {
			taken[i] = res.add(art)
		}
	}

	return res.items
}

// assemble puts matches first, then fills the page with other articles.
// The final fill with articles relevant to the category never adds anything
// while it runs after the unconditional fill, which has already used every
// other article when the page is still short; it is kept to preserve the
// order of the backfill steps.
func (a *Aggregator) assemble(c Category, matches, others []store.Article, size int) []store.Article {
	res := newCollector()
	for _, art := range matches {
		if len(res.items) >= size {
			break
		}
		res.add(art)
	}

	used := make([]bool, len(others))
	fill := func(limit int, fits func(store.Article) bool) {
		for i, art := range others {
			if len(res.items) >= limit {
				return
			}
			if used[i] || !fits(art) {
				continue
			}
			used[i] = true
			res.add(art)
		}
	}

	all := func(store.Article) bool { return true }

	fill(size, all)
	if a.policy.ExtendToDouble {
		fill(size*2, all)
	}

	if len(res.items) < size {
		fill(size, func(art store.Article) bool { return a.taxonomy.Relevant(art, c) })
	}

	return res.items
}

// refetch asks the provider with the broader query of the category and
// appends new articles until the page is full. Fetched articles are
// attributed to the requested category. On failure, res is returned as is
// and reported as degraded.
func (a *Aggregator) refetch(ctx context.Context, req Request, res []store.Article) ([]store.Article, bool) {
	raws, err := a.fetch(ctx, a.lastDay(Query{
		Q:        a.taxonomy.BroaderQuery(req.Category),
		Page:     req.Page,
		PageSize: lo.Min([]int{maxPageSize, req.PageSize * 2}),
		SortBy:   req.SortBy,
	}))
	if err != nil {
		a.log.WarnCtx(ctx, "failed to refetch with broader query",
			slog.String("category", string(req.Category)),
			slog.Any("err", err),
		)
		return res, true
	}

	before := len(res)
	for _, raw := range raws {
		if len(res) >= req.PageSize {
			break
		}
		art := normalize(raw, req.Category)
		if art.Title == "" || lo.Contains(res, art) {
			continue
		}
		res = append(res, art)
	}

	a.log.DebugCtx(ctx, "refetched with broader query",
		slog.String("category", string(req.Category)),
		slog.Int("fetched", len(raws)),
		slog.Int("added", len(res)-before),
	)

	return res, false
}

// fetch waits for the throttle and calls the provider.
func (a *Aggregator) fetch(ctx context.Context, q Query) ([]RawArticle, error) {
	if err := a.throttle.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for throttle: %w", err)
	}

	return a.provider.Everything(ctx, q)
}

// lastDay restricts the query to the articles published within the window.
func (a *Aggregator) lastDay(q Query) Query {
	q.To = a.now()
	q.From = q.To.Add(-window)
	return q
}

// collector accumulates articles deduplicated by non-empty URL.
type collector struct {
	items []store.Article
	seen  map[string]struct{}
}

func newCollector() *collector {
	return &collector{items: []store.Article{}, seen: map[string]struct{}{}}
}

func (c *collector) add(art store.Article) bool {
	if art.URL != "" {
		if _, ok := c.seen[art.URL]; ok {
			return false
		}
		c.seen[art.URL] = struct{}{}
	}
	c.items = append(c.items, art)
	return true
}
