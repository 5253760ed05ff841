// Package cache provides key-value stores with expiration and a caching
// facade over the article aggregator.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Semior001/newsdigest/app/news"
	"golang.org/x/exp/slog"
)

// DefaultTTL is how long pages of articles are kept.
const DefaultTTL = 30 * time.Minute

//go:generate moq -out mock_store.go . Store

// Store is a key-value store with expiring entries.
type Store interface {
	// Get returns the value and true, or false if the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Source provides articles for the request.
type Source interface {
	Collect(ctx context.Context, req news.Request) (news.Result, error)
}

// Service serves pages of articles from the store, computing and storing
// them on a miss.
type Service struct {
	log   *slog.Logger
	store Store
	src   Source
	ttl   time.Duration
}

// NewService makes a new Service.
func NewService(lg *slog.Logger, st Store, src Source, ttl time.Duration) *Service {
	return &Service{log: lg, store: st, src: src, ttl: ttl}
}

// Page returns the page of articles for the request.
// Store failures are logged and treated as a miss. Pages assembled while
// the provider was failing are served but not cached.
func (s *Service) Page(ctx context.Context, req news.Request) (news.Page, error) {
	req = req.WithDefaults()
	key := req.Key()

	if page, ok := s.get(ctx, key); ok {
		s.log.DebugCtx(ctx, "page served from cache", slog.String("key", key))
		return page, nil
	}

	res, err := s.src.Collect(ctx, req)
	if err != nil {
		return news.Page{}, fmt.Errorf("get articles: %w", err)
	}

	page := news.NewPage(req, res.Articles)

	if res.Degraded {
		s.log.DebugCtx(ctx, "provider failed, page is not cached", slog.String("key", key))
		return page, nil
	}

	bts, err := json.Marshal(page)
	if err != nil {
		return news.Page{}, fmt.Errorf("marshal page: %w", err)
	}

	if err = s.store.Set(ctx, key, bts, s.ttl); err != nil {
		s.log.WarnCtx(ctx, "failed to cache page", slog.String("key", key), slog.Any("err", err))
	}

	return page, nil
}

func (s *Service) get(ctx context.Context, key string) (news.Page, bool) {
	bts, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.log.WarnCtx(ctx, "failed to get page from cache", slog.String("key", key), slog.Any("err", err))
		return news.Page{}, false
	}
	if !ok {
		return news.Page{}, false
	}

	var page news.Page
	if err = json.Unmarshal(bts, &page); err != nil {
		s.log.WarnCtx(ctx, "failed to unmarshal cached page", slog.String("key", key), slog.Any("err", err))
		return news.Page{}, false
	}

	return page, true
}
