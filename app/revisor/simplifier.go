// Package revisor rewrites articles with a language model and extracts
// their full text from the web.
package revisor

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/Semior001/newsdigest/app/store"
	"github.com/Semior001/newsdigest/pkg/throttle"
	expirable "github.com/go-pkgz/expirable-cache/v2"
	"golang.org/x/exp/slog"
)

//go:embed data/prompt.tmpl
var prompt string

var promptTmpl = template.Must(template.New("prompt").Parse(prompt))

const systemPrompt = "You are a helpful assistant that simplifies news articles for different reading levels " +
	"while maintaining accuracy and key information. You MUST respond with valid JSON only."

// ReadingLevel is a target audience of the rewritten article.
type ReadingLevel string

// Supported reading levels.
const (
	Grade3 ReadingLevel = "3rd_grade"
	Grade5 ReadingLevel = "5th_grade"
	Grade8 ReadingLevel = "8th_grade"
	Adult  ReadingLevel = "adult"
)

// DefaultReadingLevel is used when the level is not specified.
const DefaultReadingLevel = Grade5

var instructions = map[ReadingLevel]string{
	Grade3: "Rewrite this news article at a 3rd grade reading level. " +
		"Use simple words, short sentences, and explain any complex terms.",
	Grade5: "Rewrite this news article at a 5th grade reading level. " +
		"Use clear language, avoid jargon, and explain important concepts.",
	Grade8: "Rewrite this news article at an 8th grade reading level. " +
		"Use accessible language while maintaining the key information.",
	Adult: "Rewrite this news article in clear, concise language suitable for adults. " +
		"Maintain accuracy and key details.",
}

// ReadingLevels returns all supported reading levels.
func ReadingLevels() []ReadingLevel { return []ReadingLevel{Grade3, Grade5, Grade8, Adult} }

// Valid returns true if the level is one of the supported ones.
func (l ReadingLevel) Valid() bool {
	_, ok := instructions[l]
	return ok
}

// instruction returns the rewrite instruction, unknown levels
// get the default one.
func (l ReadingLevel) instruction() string {
	if s, ok := instructions[l]; ok {
		return s
	}
	return instructions[DefaultReadingLevel]
}

// Simplified is an article rewritten for the reading level.
type Simplified struct {
	FullContent       string   `json:"full_content"`
	Pros              []string `json:"pros"`
	Cons              []string `json:"cons"`
	SimplifiedSummary string   `json:"simplified_summary"`
	ReadingLevel      string   `json:"reading_level"`
	OriginalTitle     string   `json:"original_title"`
	OriginalSource    string   `json:"original_source"`
	OriginalURL       string   `json:"original_url"`
	OriginalImage     string   `json:"original_image"`
	PublishedAt       string   `json:"published_at"`
}

// Enricher completes the article's content, if possible.
type Enricher interface {
	Full(ctx context.Context, article store.Article) store.Article
}

// Simplifier rewrites articles for reading levels and keeps results
// in a bounded cache.
type Simplifier struct {
	log      *slog.Logger
	cl       Completer
	enricher Enricher
	throttle *throttle.Throttle
	cache    expirable.Cache[string, Simplified]
}

// NewSimplifier makes a new Simplifier. Enricher is optional.
func NewSimplifier(lg *slog.Logger, cl Completer, enr Enricher, th *throttle.Throttle, maxKeys int) *Simplifier {
	return &Simplifier{
		log:      lg,
		cl:       cl,
		enricher: enr,
		throttle: th,
		cache: expirable.NewCache[string, Simplified]().
			WithLRU().
			WithMaxKeys(maxKeys),
	}
}

// Simplify rewrites the article for the reading level.
// Only successful results are cached.
func (s *Simplifier) Simplify(ctx context.Context, article store.Article, level ReadingLevel) (Simplified, error) {
	if level == "" {
		level = DefaultReadingLevel
	}

	key := cacheKey(article, level)
	if res, ok := s.cache.Get(key); ok {
		s.log.DebugCtx(ctx, "simplified article served from cache", slog.String("key", key))
		return res, nil
	}

	if err := s.throttle.Wait(ctx); err != nil {
		return Simplified{}, fmt.Errorf("wait for throttle: %w", err)
	}

	if s.enricher != nil {
		article = s.enricher.Full(ctx, article)
	}

	buf := &strings.Builder{}
	err := promptTmpl.Execute(buf, struct {
		Instruction string
		Level       ReadingLevel
		Article     store.Article
	}{
		Instruction: level.instruction(),
		Level:       level,
		Article:     article,
	})
	if err != nil {
		return Simplified{}, fmt.Errorf("build prompt: %w", err)
	}

	resp, err := s.cl.Complete(ctx, systemPrompt, buf.String())
	if err != nil {
		return Simplified{}, fmt.Errorf("complete prompt: %w", err)
	}

	res, err := parse(resp)
	if err != nil {
		s.log.WarnCtx(ctx, "model returned invalid output",
			slog.String("key", key),
			slog.String("response", truncate(resp, 500)),
			slog.Any("err", err),
		)
		return Simplified{}, fmt.Errorf("parse model output: %w", err)
	}

	s.cache.Set(key, res, 0)
	return res, nil
}

// ClearCache drops all cached results.
func (s *Simplifier) ClearCache() { s.cache.Purge() }

// CacheStat returns cache stats.
func (s *Simplifier) CacheStat() expirable.Stats { return s.cache.Stat() }

// CacheKeys returns at most n keys of the cache, all of them if n is not positive.
func (s *Simplifier) CacheKeys(n int) []string {
	keys := s.cache.Keys()
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// cacheKey identifies the article by URL, and by title if URL is empty.
func cacheKey(article store.Article, level ReadingLevel) string {
	id := article.URL
	if id == "" {
		id = article.Title
	}
	return id + "_" + string(level)
}

// IsInvalidOutput returns true if the error is caused by the model's output.
func IsInvalidOutput(err error) bool {
	return errors.Is(err, ErrMalformedOutput) || errors.Is(err, ErrValidation)
}

// truncate cuts s to at most n bytes, without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
