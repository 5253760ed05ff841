package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/requester"
	"golang.org/x/exp/slog"
)

// ErrProvider is returned when the provider responds with an error.
var ErrProvider = errors.New("provider error")

// maxPageSize is the largest page the provider serves in one call.
const maxPageSize = 100

// Query describes a single provider search call.
type Query struct {
	Q        string
	Page     int
	PageSize int
	SortBy   string
	// From and To bound publication dates, zero values are omitted.
	From, To time.Time
}

//go:generate moq -out mock_provider.go . Provider

// Provider searches for articles.
type Provider interface {
	Everything(ctx context.Context, q Query) ([]RawArticle, error)
}

// NewsAPI is a client for newsapi.org "everything" endpoint.
type NewsAPI struct {
	log     *slog.Logger
	cl      *requester.Requester
	baseURL string
	apiKey  string
}

// NewNewsAPI makes a new NewsAPI client.
func NewNewsAPI(lg *slog.Logger, cl *requester.Requester, baseURL, apiKey string) *NewsAPI {
	return &NewsAPI{
		log:     lg,
		cl:      cl,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type everythingResponse struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Articles     []RawArticle `json:"articles"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
}

// Everything searches through all articles, english only.
func (n *NewsAPI) Everything(ctx context.Context, q Query) ([]RawArticle, error) {
	params := url.Values{}
	params.Set("apiKey", n.apiKey)
	params.Set("q", q.Q)
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("language", "en")
	if q.SortBy != "" {
		params.Set("sortBy", q.SortBy)
	}
	if !q.From.IsZero() {
		params.Set("from", q.From.Format("2006-01-02"))
	}
	if !q.To.IsZero() {
		params.Set("to", q.To.Format("2006-01-02"))
	}

	u := n.baseURL + "/everything?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := n.cl.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			n.log.WarnCtx(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	var body everythingResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !ok {
		return nil, fmt.Errorf("%w: status %d: %s %s", ErrProvider, resp.StatusCode, body.Code, body.Message)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}

	if body.Status != "" && body.Status != "ok" {
		return nil, fmt.Errorf("%w: status %q: %s %s", ErrProvider, body.Status, body.Code, body.Message)
	}

	return body.Articles, nil
}
