// Package store contains entities and services to process and contain them.
package store

import "context"

// Interface defines methods for the user document store.
type Interface interface {
	GetUser(ctx context.Context, id string) (User, error)
	PutPreferences(ctx context.Context, id string, prefs Preferences) (Preferences, error)
	AddFavorite(ctx context.Context, id string, a Article) error
	RemoveFavorite(ctx context.Context, id, url string) error
	ListUsers(ctx context.Context) ([]User, error)
}

// Article is a normalized news article.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	ImageURL    string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Source      string `json:"source"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	VideoURL    string `json:"videoUrl,omitempty"`
}

// User is a struct that contains the user's data.
type User struct {
	ID          string      `json:"id"`
	Username    string      `json:"username,omitempty"`
	Preferences Preferences `json:"preferences"`
}

// Preferences of a user.
type Preferences struct {
	PreferredTopics []string  `json:"preferred_topics"`
	DefaultView     string    `json:"default_view"`
	ReadingLevel    string    `json:"reading_level,omitempty"`
	Favorites       []Article `json:"favorites"`
}

// DefaultPreferences are returned for users that haven't saved anything yet.
func DefaultPreferences() Preferences {
	return Preferences{
		PreferredTopics: []string{"general"},
		DefaultView:     "card",
		Favorites:       []Article{},
	}
}

// Merge overwrites preferences with non-zero fields of upd.
func (p Preferences) Merge(upd Preferences) Preferences {
	if upd.PreferredTopics != nil {
		p.PreferredTopics = upd.PreferredTopics
	}
	if upd.DefaultView != "" {
		p.DefaultView = upd.DefaultView
	}
	if upd.ReadingLevel != "" {
		p.ReadingLevel = upd.ReadingLevel
	}
	if upd.Favorites != nil {
		p.Favorites = upd.Favorites
	}
	return p
}
