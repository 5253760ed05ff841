package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Semior001/newsdigest/pkg/logx"
	"github.com/go-pkgz/requester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

const everythingJSON = `{
	"status": "ok",
	"totalResults": 2,
	"articles": [
		{
			"source": {"id": null, "name": "The Verge"},
			"author": null,
			"title": "AI startup launches",
			"description": "The company ships software",
			"url": "https://example.com/1",
			"urlToImage": "https://example.com/1.png",
			"publishedAt": "2023-05-17T09:00:00Z",
			"content": "Some text… [+1234 chars]"
		},
		{
			"source": {"id": "bbc-news", "name": "BBC News"},
			"title": "Garden tips",
			"url": "https://example.com/2",
			"videoUrl": "https://example.com/2.mp4"
		}
	]
}`

func TestNewsAPI_Everything(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/everything", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("apiKey"))
		assert.Equal(t, "tech OR ai", q.Get("q"))
		assert.Equal(t, "100", q.Get("pageSize"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "publishedAt", q.Get("sortBy"))
		assert.Equal(t, "2023-05-16", q.Get("from"))
		assert.Equal(t, "2023-05-17", q.Get("to"))

		_, _ = w.Write([]byte(everythingJSON))
	}))
	defer ts.Close()

	n := NewNewsAPI(slog.New(logx.NoOp()), requester.New(http.Client{Timeout: time.Second}), ts.URL+"/v2/", "secret")

	res, err := n.Everything(context.Background(), Query{
		Q:        "tech OR ai",
		Page:     2,
		PageSize: 100,
		SortBy:   "publishedAt",
		From:     testNow.Add(-24 * time.Hour),
		To:       testNow,
	})
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.Equal(t, "The Verge", res[0].Source.Name)
	assert.Equal(t, "", res[0].Author)
	assert.Equal(t, "https://example.com/1.png", res[0].URLToImage)
	assert.Equal(t, "https://example.com/2.mp4", res[1].VideoURL)
	assert.Equal(t, "", res[1].Description)

	art := normalize(res[1], Technology)
	assert.Equal(t, "BBC News", art.Source)
	assert.Equal(t, "technology", art.Category)
}

func TestNewsAPI_Everything_NoWindow(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("from"))
		assert.False(t, r.URL.Query().Has("to"))
		_, _ = w.Write([]byte(`{"status":"ok","articles":[]}`))
	}))
	defer ts.Close()

	n := NewNewsAPI(slog.New(logx.NoOp()), requester.New(http.Client{}), ts.URL, "secret")
	res, err := n.Everything(context.Background(), Query{Q: "golang", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestNewsAPI_Everything_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		isProv  bool
		errText string
	}{
		{
			name:    "rate limited",
			status:  http.StatusTooManyRequests,
			body:    `{"status":"error","code":"rateLimited","message":"too many requests"}`,
			isProv:  true,
			errText: "status 429: rateLimited too many requests",
		},
		{
			name:    "error status with 200",
			status:  http.StatusOK,
			body:    `{"status":"error","code":"parameterInvalid","message":"bad q"}`,
			isProv:  true,
			errText: "parameterInvalid",
		},
		{
			name:    "garbage body",
			status:  http.StatusOK,
			body:    `not json`,
			errText: "decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			n := NewNewsAPI(slog.New(logx.NoOp()), requester.New(http.Client{}), ts.URL, "secret")
			_, err := n.Everything(context.Background(), Query{Q: "x", Page: 1, PageSize: 1})
			require.Error(t, err)
			assert.Equal(t, tt.isProv, errors.Is(err, ErrProvider))
			assert.ErrorContains(t, err, tt.errText)
		})
	}
}
