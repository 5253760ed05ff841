package news

import (
	"fmt"
	"os"
	"strings"

	"github.com/Semior001/newsdigest/app/store"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// fallbackQuery is sent to the provider for categories without a query table.
const fallbackQuery = "news"

// Taxonomy classifies texts and builds provider queries from per-category
// keyword tables. It is immutable after construction.
type Taxonomy struct {
	keywords map[Category]Keywords
}

// DefaultTaxonomy returns the taxonomy with built-in keyword tables.
func DefaultTaxonomy() *Taxonomy {
	t := &Taxonomy{keywords: make(map[Category]Keywords, len(defaultKeywords))}
	for c, kw := range defaultKeywords {
		t.keywords[c] = kw
	}
	return t
}

// LoadTaxonomy reads keyword tables from the yaml file at path and puts them
// over the built-in ones. Categories missing from the file, as well as empty
// tables of the listed categories, keep the built-in keywords.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	bts, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file: %w", err)
	}

	var overrides map[string]Keywords
	if err = yaml.Unmarshal(bts, &overrides); err != nil {
		return nil, fmt.Errorf("unmarshal taxonomy: %w", err)
	}

	t := DefaultTaxonomy()
	for name, kw := range overrides {
		c, err := ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("taxonomy: %w", err)
		}

		base := t.keywords[c]
		if len(kw.Detect) > 0 {
			base.Detect = lowerAll(kw.Detect)
		}
		if len(kw.Relevant) > 0 {
			base.Relevant = lowerAll(kw.Relevant)
		}
		if len(kw.Query) > 0 {
			base.Query = kw.Query
		}
		if len(kw.Broader) > 0 {
			base.Broader = kw.Broader
		}
		t.keywords[c] = base
	}

	return t, nil
}

// Detect returns the category whose detection keywords occur most often
// in the given texts. Ties go to the category declared first, General is
// returned if no keyword matches.
func (t *Taxonomy) Detect(title, description, content string) Category {
	text := lower(title + " " + description + " " + content)

	best, bestScore := General, 0
	for _, c := range Categories() {
		if score := countMatches(text, t.keywords[c].Detect); score > bestScore {
			best, bestScore = c, score
		}
	}

	return best
}

// Relevant reports whether article's title or description mention at least
// one relevance keyword of the category.
func (t *Taxonomy) Relevant(a store.Article, c Category) bool {
	text := lower(a.Title + " " + a.Description)
	return countMatches(text, t.keywords[c].Relevant) >= 1
}

// PrimaryQuery returns the provider search query for the category.
func (t *Taxonomy) PrimaryQuery(c Category) string {
	return orJoin(t.keywords[c].Query)
}

// BroaderQuery returns a looser provider search query for the category,
// used when the primary query under-delivers.
func (t *Taxonomy) BroaderQuery(c Category) string {
	return orJoin(t.keywords[c].Broader)
}

func orJoin(kws []string) string {
	if len(kws) == 0 {
		return fallbackQuery
	}
	return strings.Join(kws, " OR ")
}

func countMatches(text string, kws []string) (score int) {
	for _, kw := range kws {
		if strings.Contains(text, kw) {
			score++
		}
	}
	return score
}

// lower makes a new caser each time, as casers keep state and are not
// safe for concurrent use.
func lower(s string) string { return cases.Lower(language.Und).String(s) }

func lowerAll(ss []string) []string {
	res := make([]string, len(ss))
	for i, s := range ss {
		res[i] = lower(s)
	}
	return res
}
