package news

import (
	"fmt"
	"strings"
)

// Category is a news category.
type Category string

// Categories, in declaration order. The order is the tie-break order of
// the classifier.
const (
	General       Category = "general"
	Business      Category = "business"
	Technology    Category = "technology"
	Entertainment Category = "entertainment"
	Health        Category = "health"
	Science       Category = "science"
	Sports        Category = "sports"
	Politics      Category = "politics"
)

// Search is assigned to articles returned by a keyword search.
const Search Category = "search"

// Categories returns all categories in canonical order.
func Categories() []Category {
	return []Category{General, Business, Technology, Entertainment, Health, Science, Sports, Politics}
}

// ParseCategory returns the category with the given name, case-insensitive.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Keywords is a set of keyword tables owned by a single category.
type Keywords struct {
	// Detect keywords are used to classify any text.
	Detect []string `yaml:"detect"`
	// Relevant keywords are narrower, used for lenient fallback matching.
	Relevant []string `yaml:"relevant"`
	// Query and Broader keywords build the provider search strings.
	Query   []string `yaml:"query"`
	Broader []string `yaml:"broader"`
}

var defaultKeywords = map[Category]Keywords{
	General: {
		Relevant: []string{"news", "latest", "breaking", "update", "report", "announcement",
			"world", "national", "international", "headline", "story", "event"},
		Query: []string{"news", "breaking", "latest", "current", "world", "national",
			"international", "headline"},
		Broader: []string{"news", "current", "latest", "breaking", "world", "national",
			"international", "headline", "update", "report"},
	},
	Business: {
		Detect: []string{"business", "economy", "market", "stock", "finance", "investment",
			"company", "corporate", "trade", "economic", "financial", "wall street", "nasdaq",
			"s&p", "earnings", "revenue", "profit", "ceo", "cfo", "startup", "venture capital"},
		Relevant: []string{"business", "economy", "market", "finance", "company", "corporate",
			"trade", "economic", "financial", "investment", "stock", "ceo", "startup"},
		Query:   []string{"business", "economy", "market", "finance", "stock", "investment"},
		Broader: []string{"business", "economy", "market", "finance", "corporate", "trade", "economic"},
	},
	Technology: {
		Detect: []string{"technology", "tech", "software", "ai", "artificial intelligence",
			"machine learning", "blockchain", "cryptocurrency", "bitcoin", "ethereum", "startup",
			"app", "mobile", "internet", "cybersecurity", "data", "cloud", "google", "apple",
			"microsoft", "facebook", "amazon", "tesla", "spacex", "robotics", "automation"},
		Relevant: []string{"technology", "tech", "digital", "software", "computer", "internet",
			"ai", "artificial intelligence", "innovation", "startup", "app", "mobile"},
		Query: []string{"technology", "tech", "software", "AI", "artificial intelligence", "startup"},
		Broader: []string{"technology", "tech", "digital", "innovation", "software", "internet",
			"computer"},
	},
	Entertainment: {
		Detect: []string{"entertainment", "movie", "film", "tv", "television", "show", "actor",
			"actress", "celebrity", "hollywood", "music", "song", "album", "artist", "singer",
			"rapper", "concert", "award", "oscar", "grammy", "netflix", "disney", "marvel",
			"star wars", "game of thrones", "reality tv", "comedy"},
		Relevant: []string{"entertainment", "media", "culture", "arts", "celebrity", "show",
			"performance", "movie", "music", "tv", "film"},
		Query: []string{"entertainment", "movie", "film", "TV", "music", "celebrity", "hollywood"},
		Broader: []string{"entertainment", "media", "culture", "arts", "celebrity", "show",
			"performance"},
	},
	Health: {
		Detect: []string{"health", "medical", "medicine", "doctor", "hospital", "patient",
			"disease", "cancer", "covid", "coronavirus", "vaccine", "treatment", "therapy",
			"surgery", "pharmaceutical", "drug", "mental health", "psychology", "wellness",
			"fitness", "nutrition", "diet", "exercise", "gym", "workout"},
		Relevant: []string{"health", "wellness", "medical", "fitness", "nutrition", "lifestyle",
			"medicine", "doctor", "hospital", "treatment"},
		Query:   []string{"health", "medical", "medicine", "healthcare", "wellness"},
		Broader: []string{"health", "wellness", "medical", "fitness", "nutrition", "lifestyle"},
	},
	Science: {
		Detect: []string{"science", "research", "study", "scientist", "laboratory", "experiment",
			"discovery", "innovation", "physics", "chemistry", "biology", "astronomy", "space",
			"nasa", "mars", "moon", "planet", "galaxy", "universe", "climate", "environment",
			"ecology", "evolution", "genetics", "dna"},
		Relevant: []string{"science", "research", "discovery", "innovation", "study",
			"experiment", "laboratory", "scientist"},
		Query:   []string{"science", "research", "discovery", "innovation", "study"},
		Broader: []string{"science", "research", "discovery", "innovation", "study", "experiment"},
	},
	Sports: {
		Detect: []string{"sports", "football", "basketball", "baseball", "soccer", "tennis",
			"golf", "olympics", "nfl", "nba", "mlb", "nhl", "championship", "tournament", "game",
			"match", "player", "team", "coach", "athlete", "champion", "victory", "defeat",
			"score", "league", "season"},
		Relevant: []string{"sports", "athletics", "competition", "game", "match", "tournament",
			"player", "team", "champion"},
		Query:   []string{"sports", "football", "basketball", "baseball", "soccer", "athletics"},
		Broader: []string{"sports", "athletics", "competition", "game", "match", "tournament"},
	},
	Politics: {
		Detect: []string{"politics", "political", "government", "election", "vote", "democrat",
			"republican", "congress", "senate", "house", "president", "senator",
			"representative", "policy", "law", "legislation", "bill", "act", "administration",
			"federal", "state", "local", "campaign", "poll", "polling", "democracy", "republic"},
		Relevant: []string{"politics", "government", "policy", "law", "democracy", "society",
			"election", "congress", "senate", "president"},
		Query:   []string{"politics", "government", "election", "congress", "senate", "president"},
		Broader: []string{"politics", "government", "policy", "law", "democracy", "society"},
	},
}
