package news

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Semior001/newsdigest/app/store"
	"github.com/Semior001/newsdigest/pkg/logx"
	"github.com/Semior001/newsdigest/pkg/throttle"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

var testNow = time.Date(2023, 5, 17, 10, 0, 0, 0, time.UTC)

func newTestAggregator(p Provider, policy Policy) *Aggregator {
	a := NewAggregator(slog.New(logx.NoOp()), p, DefaultTaxonomy(), throttle.New(0), policy)
	a.now = func() time.Time { return testNow }
	return a
}

func techArticles(n int) []RawArticle {
	res := make([]RawArticle, n)
	for i := range res {
		res[i] = raw(fmt.Sprintf("AI startup %d launches", i), "The company ships software",
			fmt.Sprintf("https://example.com/tech/%d", i))
	}
	return res
}

func gardenArticles(n int) []RawArticle {
	res := make([]RawArticle, n)
	for i := range res {
		res[i] = raw(fmt.Sprintf("Garden tips %d", i), "Grow tomatoes in spring",
			fmt.Sprintf("https://example.com/garden/%d", i))
	}
	return res
}

func raw(title, description, u string) RawArticle {
	r := RawArticle{Title: title, Description: description, URL: u}
	r.Source.Name = "Example"
	return r
}

// providerOf returns a provider that serves primary and broader queries
// of the category with the given articles.
func providerOf(c Category, primary, broader []RawArticle) *ProviderMock {
	tx := DefaultTaxonomy()
	return &ProviderMock{EverythingFunc: func(_ context.Context, q Query) ([]RawArticle, error) {
		switch q.Q {
		case tx.PrimaryQuery(c):
			return primary, nil
		case tx.BroaderQuery(c):
			return broader, nil
		}
		return nil, fmt.Errorf("unexpected query %q", q.Q)
	}}
}

func urls(arts []store.Article) []string {
	return lo.Map(arts, func(a store.Article, _ int) string { return a.URL })
}

func TestAggregator_Articles_TechnologyScenario(t *testing.T) {
	primary := append(gardenArticles(5), techArticles(5)...)
	p := providerOf(Technology, primary, nil)
	a := newTestAggregator(p, DefaultPolicy())

	res, err := a.Articles(context.Background(), Request{Category: Technology, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, res, 10)

	for i := 0; i < 5; i++ {
		assert.Equal(t, string(Technology), res[i].Category, "matches go first")
		assert.Equal(t, fmt.Sprintf("https://example.com/tech/%d", i), res[i].URL)
	}
	for i := 5; i < 10; i++ {
		assert.Equal(t, string(General), res[i].Category, "others keep detected category")
	}

	calls := p.EverythingCalls()
	require.Len(t, calls, 1, "no broader refetch for a full page")
	assert.Equal(t, Query{
		Q:        DefaultTaxonomy().PrimaryQuery(Technology),
		Page:     1,
		PageSize: 100,
		SortBy:   "publishedAt",
		From:     testNow.Add(-24 * time.Hour),
		To:       testNow,
	}, calls[0].Q)
}

func TestAggregator_Articles_BroaderRefetch(t *testing.T) {
	broader := []RawArticle{
		// identical to an already picked article once attributed to technology
		raw("AI startup 0 launches", "The company ships software", "https://example.com/tech/0"),
		raw("", "untitled", "https://example.com/untitled"),
		raw("Digital trends", "", "https://example.com/b/1"),
		raw("Digital trends 2", "", "https://example.com/b/2"),
		raw("Digital trends 3", "", "https://example.com/b/3"),
		raw("Digital trends 4", "", "https://example.com/b/4"),
	}
	p := providerOf(Technology, append(techArticles(3), gardenArticles(2)...), broader)
	a := newTestAggregator(p, DefaultPolicy())

	res, err := a.Articles(context.Background(), Request{Category: Technology, PageSize: 8, SortBy: "popularity"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/tech/0", "https://example.com/tech/1", "https://example.com/tech/2",
		"https://example.com/garden/0", "https://example.com/garden/1",
		"https://example.com/b/1", "https://example.com/b/2", "https://example.com/b/3",
	}, urls(res))

	for _, art := range res[5:] {
		assert.Equal(t, string(Technology), art.Category, "broader results are attributed to the request")
	}

	calls := p.EverythingCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, Query{
		Q:        DefaultTaxonomy().BroaderQuery(Technology),
		Page:     1,
		PageSize: 16,
		SortBy:   "popularity",
		From:     testNow.Add(-24 * time.Hour),
		To:       testNow,
	}, calls[1].Q)
}

func TestAggregator_Articles_BroaderComparesWholeArticle(t *testing.T) {
	// same url, different description: not equal, so admitted
	broader := []RawArticle{raw("AI startup 0 launches", "updated", "https://example.com/tech/0")}
	a := newTestAggregator(providerOf(Technology, techArticles(1), broader), DefaultPolicy())

	res, err := a.Articles(context.Background(), Request{Category: Technology, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/tech/0", "https://example.com/tech/0"}, urls(res))
}

func TestAggregator_Articles_ExtendToDouble(t *testing.T) {
	primary := append(techArticles(3), gardenArticles(20)...)

	t.Run("enabled", func(t *testing.T) {
		a := newTestAggregator(providerOf(Technology, primary, nil), Policy{ExtendToDouble: true})
		res, err := a.Articles(context.Background(), Request{Category: Technology, PageSize: 5})
		require.NoError(t, err)
		assert.Len(t, res, 10)
		assert.Len(t, lo.Uniq(urls(res)), 10)
	})

	t.Run("disabled", func(t *testing.T) {
		a := newTestAggregator(providerOf(Technology, primary, nil), Policy{})
		res, err := a.Articles(context.Background(), Request{Category: Technology, PageSize: 5})
		require.NoError(t, err)
		assert.Len(t, res, 5)
	})

	t.Run("enough matches, page still extended", func(t *testing.T) {
		a := newTestAggregator(providerOf(Technology, append(techArticles(8), gardenArticles(2)...), nil),
			DefaultPolicy())
		res, err := a.Articles(context.Background(), Request{Category: Technology, PageSize: 5})
		require.NoError(t, err)
		assert.Len(t, res, 7)
		assert.Equal(t, "https://example.com/garden/1", res[6].URL)
	})
}

func TestAggregator_Articles_AtLeastPageSizeWhenPoolIsLarge(t *testing.T) {
	for size := 1; size <= 12; size++ {
		primary := append(techArticles(size/2), gardenArticles(size/3)...)
		broader := gardenArticles(size)
		for i := range broader {
			broader[i].URL += "/b"
		}
		a := newTestAggregator(providerOf(Technology, primary, broader), DefaultPolicy())

		res, err := a.Articles(context.Background(), Request{Category: Technology, PageSize: size})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(res), size, "page size %d", size)
	}
}

func TestAggregator_Articles_General(t *testing.T) {
	primary := []RawArticle{
		raw("AI startup", "", "https://example.com/1"),
		raw("Garden tips", "", "https://example.com/2"),
		raw("", "untitled", "https://example.com/3"),
		raw("Duplicate", "", "https://example.com/1"),
		raw("No url", "", ""),
		raw("NBA finals", "", "https://example.com/4"),
		raw("Senate votes", "", "https://example.com/5"),
	}

	t.Run("first pass only", func(t *testing.T) {
		p := providerOf(General, primary, nil)
		a := newTestAggregator(p, DefaultPolicy())

		res, err := a.Articles(context.Background(), Request{Category: General, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/1", "https://example.com/2",
			"https://example.com/4", "https://example.com/5"}, urls(res))
		for _, art := range res {
			assert.NotEmpty(t, art.Title)
			assert.NotEmpty(t, art.URL)
		}
		assert.Equal(t, string(Technology), res[0].Category, "category is detected, not forced")
		assert.Len(t, p.EverythingCalls(), 1, "general never refetches")
	})

	t.Run("page size respected", func(t *testing.T) {
		a := newTestAggregator(providerOf(General, primary, nil), DefaultPolicy())
		res, err := a.Articles(context.Background(), Request{Category: General, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/1", "https://example.com/2"}, urls(res))
	})

	t.Run("second pass admits articles without url", func(t *testing.T) {
		a := newTestAggregator(providerOf(General, primary, nil), Policy{GeneralSecondPass: true})
		res, err := a.Articles(context.Background(), Request{Category: General, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/1", "https://example.com/2",
			"https://example.com/4", "https://example.com/5", ""}, urls(res))
	})
}

func TestAggregator_Articles_Failures(t *testing.T) {
	t.Run("provider error on primary fetch", func(t *testing.T) {
		p := &ProviderMock{EverythingFunc: func(context.Context, Query) ([]RawArticle, error) {
			return nil, fmt.Errorf("%w: status 429", ErrProvider)
		}}
		res, err := newTestAggregator(p, DefaultPolicy()).
			Articles(context.Background(), Request{Category: Science, PageSize: 5})
		require.NoError(t, err)
		assert.Empty(t, res)
		assert.NotNil(t, res)
		assert.Len(t, p.EverythingCalls(), 1)
	})

	t.Run("transport error on primary fetch", func(t *testing.T) {
		p := &ProviderMock{EverythingFunc: func(context.Context, Query) ([]RawArticle, error) {
			return nil, errors.New("connection refused")
		}}
		res, err := newTestAggregator(p, DefaultPolicy()).
			Articles(context.Background(), Request{Category: Science, PageSize: 5})
		assert.ErrorContains(t, err, "connection refused")
		assert.Empty(t, res)
	})

	t.Run("broader refetch failure keeps gathered articles", func(t *testing.T) {
		tx := DefaultTaxonomy()
		p := &ProviderMock{EverythingFunc: func(_ context.Context, q Query) ([]RawArticle, error) {
			if q.Q == tx.PrimaryQuery(Technology) {
				return techArticles(2), nil
			}
			return nil, errors.New("timeout")
		}}
		res, err := newTestAggregator(p, DefaultPolicy()).
			Articles(context.Background(), Request{Category: Technology, PageSize: 5})
		require.NoError(t, err)
		assert.Len(t, res, 2)
		assert.Len(t, p.EverythingCalls(), 2)
	})
}

func TestAggregator_Collect_Degraded(t *testing.T) {
	providerErr := fmt.Errorf("%w: status 500", ErrProvider)

	tests := []struct {
		name     string
		req      Request
		p        *ProviderMock
		articles int
		degraded bool
	}{
		{
			name:     "empty response",
			req:      Request{Category: General, PageSize: 5},
			p:        providerOf(General, []RawArticle{}, nil),
			articles: 0,
		},
		{
			name:     "full page",
			req:      Request{Category: Technology, PageSize: 2},
			p:        providerOf(Technology, techArticles(3), nil),
			articles: 2,
		},
		{
			name:     "short page refetched",
			req:      Request{Category: Technology, PageSize: 3},
			p:        providerOf(Technology, techArticles(1), []RawArticle{}),
			articles: 1,
		},
		{
			name: "primary fetch failed",
			req:  Request{Category: Technology, PageSize: 3},
			p: &ProviderMock{EverythingFunc: func(context.Context, Query) ([]RawArticle, error) {
				return nil, providerErr
			}},
			degraded: true,
		},
		{
			name: "broader refetch failed",
			req:  Request{Category: Technology, PageSize: 3},
			p: &ProviderMock{EverythingFunc: func(_ context.Context, q Query) ([]RawArticle, error) {
				if q.Q == DefaultTaxonomy().PrimaryQuery(Technology) {
					return techArticles(1), nil
				}
				return nil, providerErr
			}},
			articles: 1,
			degraded: true,
		},
		{
			name: "search failed",
			req:  Request{Query: "golang", PageSize: 3},
			p: &ProviderMock{EverythingFunc: func(context.Context, Query) ([]RawArticle, error) {
				return nil, providerErr
			}},
			degraded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newTestAggregator(tt.p, DefaultPolicy()).Collect(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Len(t, res.Articles, tt.articles)
			assert.NotNil(t, res.Articles)
			assert.Equal(t, tt.degraded, res.Degraded)
		})
	}
}

func TestAggregator_Articles_Search(t *testing.T) {
	p := &ProviderMock{EverythingFunc: func(_ context.Context, q Query) ([]RawArticle, error) {
		return []RawArticle{raw("Golang news", "", "https://example.com/go"), raw("", "", "https://x")}, nil
	}}
	a := newTestAggregator(p, DefaultPolicy())

	res, err := a.Articles(context.Background(), Request{Category: Sports, Query: "golang", PageSize: 7})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, string(Search), res[0].Category)

	assert.Equal(t, Query{Q: "golang", Page: 1, PageSize: 7, SortBy: "publishedAt"}, p.EverythingCalls()[0].Q)
}

func TestRequest(t *testing.T) {
	req := Request{}.WithDefaults()
	assert.Equal(t, Request{Category: General, Page: 1, PageSize: 30, SortBy: "publishedAt"}, req)
	assert.Equal(t, "news:general:1:30::publishedAt", req.Key())

	req = Request{Category: Sports, Page: 2, PageSize: 10, Query: "nba", SortBy: "popularity"}.WithDefaults()
	assert.Equal(t, "news:sports:2:10:nba:popularity", req.Key())
}

func TestNewPage(t *testing.T) {
	req := Request{Page: 3, PageSize: 10}
	page := NewPage(req, make([]store.Article, 25))
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 3, page.TotalPages)

	assert.Equal(t, 1, NewPage(req, nil).TotalPages)
}
