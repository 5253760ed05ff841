package news

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Semior001/newsdigest/app/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomy_Detect(t *testing.T) {
	tx := DefaultTaxonomy()

	tests := []struct {
		name                        string
		title, description, content string
		want                        Category
	}{
		{
			name:        "technology",
			title:       "AI startup launches",
			description: "The company ships software",
			want:        Technology,
		},
		{
			name:        "sports",
			title:       "NBA finals: team wins championship",
			description: "The coach praised every player",
			want:        Sports,
		},
		{
			name:        "health",
			title:       "New vaccine trial",
			description: "Hospital reports treatment results for cancer patients",
			want:        Health,
		},
		{
			name:  "no keywords fall back to general",
			title: "Garden tips",
			want:  General,
		},
		{
			name: "empty input",
			want: General,
		},
		{
			name:  "case insensitive",
			title: "NASA ROVER LANDS ON MARS",
			want:  Science,
		},
		{
			// "startup" is both a business and a technology keyword,
			// business is declared first
			name:  "tie goes to the category declared first",
			title: "Startup",
			want:  Business,
		},
		{
			name:    "content counts too",
			title:   "Garden tips",
			content: "senate passed the bill after the election",
			want:    Politics,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tx.Detect(tt.title, tt.description, tt.content))
		})
	}
}

func TestTaxonomy_Detect_Deterministic(t *testing.T) {
	tx := DefaultTaxonomy()
	first := tx.Detect("Apple earnings beat the market", "CEO comments on revenue", "")
	for i := 0; i < 100; i++ {
		require.Equal(t, first, tx.Detect("Apple earnings beat the market", "CEO comments on revenue", ""))
	}
	assert.Equal(t, Business, first)
}

func TestTaxonomy_Relevant(t *testing.T) {
	tx := DefaultTaxonomy()

	assert.True(t, tx.Relevant(store.Article{Title: "A digital future"}, Technology))
	assert.True(t, tx.Relevant(store.Article{Title: "Garden tips", Description: "Tech for tomatoes"}, Technology))
	assert.False(t, tx.Relevant(store.Article{Title: "Garden tips", Content: "software"}, Technology),
		"content must not be considered")
	assert.True(t, tx.Relevant(store.Article{Title: "Breaking story"}, General))
	assert.False(t, tx.Relevant(store.Article{Title: "anything"}, Category("unknown")))
}

func TestTaxonomy_Queries(t *testing.T) {
	tx := DefaultTaxonomy()

	assert.Equal(t, "technology OR tech OR software OR AI OR artificial intelligence OR startup",
		tx.PrimaryQuery(Technology))
	assert.Equal(t, "sports OR athletics OR competition OR game OR match OR tournament",
		tx.BroaderQuery(Sports))
	assert.Equal(t, "news", tx.PrimaryQuery(Category("weather")))
	assert.Equal(t, "news", tx.BroaderQuery(Category("weather")))

	for _, c := range Categories() {
		assert.NotEqual(t, "news", tx.PrimaryQuery(c), c)
		assert.NotEqual(t, "news", tx.BroaderQuery(c), c)
	}
}

func TestLoadTaxonomy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yml")
	err := os.WriteFile(path, []byte(`
technology:
  detect: ["Golang", "Kubernetes"]
  query: ["golang", "kubernetes"]
`), 0o600)
	require.NoError(t, err)

	tx, err := LoadTaxonomy(path)
	require.NoError(t, err)

	assert.Equal(t, Technology, tx.Detect("Golang 1.21 released", "", ""))
	assert.Equal(t, General, tx.Detect("AI", "", ""), "built-in detect keywords are replaced")
	assert.Equal(t, "golang OR kubernetes", tx.PrimaryQuery(Technology))
	assert.Equal(t, DefaultTaxonomy().BroaderQuery(Technology), tx.BroaderQuery(Technology),
		"tables missing in the file are kept")
	assert.Equal(t, DefaultTaxonomy().PrimaryQuery(Sports), tx.PrimaryQuery(Sports))
}

func TestLoadTaxonomy_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTaxonomy(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)

	path := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("weather:\n  detect: [rain]\n"), 0o600))
	_, err = LoadTaxonomy(path)
	assert.ErrorContains(t, err, `unknown category "weather"`)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Technology ")
	require.NoError(t, err)
	assert.Equal(t, Technology, c)

	_, err = ParseCategory("search")
	assert.Error(t, err)
}
