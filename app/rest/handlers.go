package rest

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Semior001/newsdigest/app/news"
	"github.com/Semior001/newsdigest/app/revisor"
	"github.com/Semior001/newsdigest/app/store"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// maxPageSize limits the page size requested by clients.
const maxPageSize = 100

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": s.now().Format(time.RFC3339),
	})
}

// GET /api/news?category=general&page=1&page_size=30&q=&sortBy=publishedAt
func (s *Server) getNews(c *gin.Context) {
	category, err := news.ParseCategory(c.DefaultQuery("category", string(news.General)))
	if err != nil {
		s.fail(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	page, err := intQuery(c, "page", 1)
	if err != nil {
		s.fail(c, http.StatusBadRequest, "page must be a positive number", nil)
		return
	}

	pageSize, err := intQuery(c, "page_size", news.DefaultPageSize)
	if err != nil {
		s.fail(c, http.StatusBadRequest, "page_size must be a positive number", nil)
		return
	}

	res, err := s.Pages.Page(c.Request.Context(), news.Request{
		Category: category,
		Page:     page,
		PageSize: lo.Min([]int{pageSize, maxPageSize}),
		Query:    strings.TrimSpace(c.Query("q")),
		SortBy:   c.DefaultQuery("sortBy", news.DefaultSortBy),
	})
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to get news", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": news.Categories()})
}

// cacheKeysShown is the number of simplifier cache keys in the status.
const cacheKeysShown = 10

func (s *Server) cacheStatus(c *gin.Context) {
	stat := s.Simplifier.CacheStat()
	keys := s.Simplifier.CacheKeys(0)

	c.JSON(http.StatusOK, gin.H{
		"cache_size": len(keys),
		"cache_keys": lo.Subset(keys, 0, cacheKeysShown),
		"hits":       stat.Hits,
		"misses":     stat.Misses,
		"evicted":    stat.Evicted,
		"timestamp":  s.now().Format(time.RFC3339),
	})
}

func (s *Server) clearCache(c *gin.Context) {
	s.Simplifier.ClearCache()
	c.JSON(http.StatusOK, msgResponse{Message: "Cache cleared successfully"})
}

type simplifyRequest struct {
	Article      *store.Article `json:"article"`
	ReadingLevel string         `json:"reading_level"`
}

func (s *Server) simplify(c *gin.Context) {
	var req simplifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.Article == nil {
		s.fail(c, http.StatusBadRequest, "Missing article data", nil)
		return
	}

	level := revisor.ReadingLevel(req.ReadingLevel)
	if level != "" && !level.Valid() {
		s.fail(c, http.StatusBadRequest, "unknown reading level", nil)
		return
	}

	res, err := s.Simplifier.Simplify(c.Request.Context(), *req.Article, level)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err.Error(), err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// intQuery returns the positive integer query parameter, or def if absent.
func intQuery(c *gin.Context, key string, def int) (int, error) {
	v, ok := c.GetQuery(key)
	if !ok || v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, strconv.ErrRange
	}

	return n, nil
}
