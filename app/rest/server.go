// Package rest provides the HTTP API over news, user preferences and
// article simplification.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Semior001/newsdigest/app/news"
	"github.com/Semior001/newsdigest/app/revisor"
	"github.com/Semior001/newsdigest/app/store"
	"github.com/gin-gonic/gin"
	expirable "github.com/go-pkgz/expirable-cache/v2"
	"golang.org/x/exp/slog"
)

//go:generate moq -out mock_pages.go . Pages
//go:generate moq -out mock_simplifier.go . Simplifier
//go:generate moq -out mock_token_verifier.go . TokenVerifier

// Pages provides pages of articles.
type Pages interface {
	Page(ctx context.Context, req news.Request) (news.Page, error)
}

// Simplifier rewrites articles for reading levels.
type Simplifier interface {
	Simplify(ctx context.Context, article store.Article, level revisor.ReadingLevel) (revisor.Simplified, error)
	ClearCache()
	CacheStat() expirable.Stats
	CacheKeys(n int) []string
}

// Server is a REST API server.
type Server struct {
	Addr       string
	Logger     *slog.Logger
	Pages      Pages
	Simplifier Simplifier
	Store      store.Interface
	Verifier   TokenVerifier
	// AllowedOrigin is sent in CORS headers, CORS is disabled when empty.
	AllowedOrigin string

	now func() time.Time
}

// Run starts the server and blocks until the context is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.InfoCtx(ctx, "starting rest server", slog.String("addr", s.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen and serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	s.Logger.InfoCtx(ctx, "rest server stopped")
	return nil
}

// Handler returns the router of the API.
func (s *Server) Handler() http.Handler {
	if s.now == nil {
		s.now = time.Now
	}

	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(
		requestID(),
		logger(s.Logger),
		gin.CustomRecovery(func(c *gin.Context, err any) {
			s.Logger.ErrorCtx(c.Request.Context(), "panic recovered", slog.Any("panic", err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, errResponse{Error: "internal error"})
		}),
	)

	if s.AllowedOrigin != "" {
		r.Use(cors(s.AllowedOrigin))
	}

	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/news", s.getNews)
		api.GET("/categories", s.categories)
		api.GET("/cache/status", s.cacheStatus)
		api.POST("/cache/clear", s.clearCache)
		api.POST("/simplify", s.simplify)
	}

	user := api.Group("/user", authenticate(s.Verifier))
	{
		user.GET("/preferences", s.getPreferences)
		user.PUT("/preferences", s.putPreferences)
		user.GET("/favorites", s.getFavorites)
		user.POST("/favorites", s.addFavorite)
		user.DELETE("/favorites/*url", s.removeFavorite)
	}

	return r
}

type errResponse struct {
	Error string `json:"error"`
}

type msgResponse struct {
	Message string `json:"message"`
}

// fail logs the error and responds with its message.
func (s *Server) fail(c *gin.Context, status int, msg string, err error) {
	switch {
	case err == nil:
	case status >= http.StatusInternalServerError:
		s.Logger.ErrorCtx(c.Request.Context(), msg, slog.Any("err", err))
	default:
		s.Logger.WarnCtx(c.Request.Context(), msg, slog.Any("err", err))
	}
	c.AbortWithStatusJSON(status, errResponse{Error: msg})
}
