package news

import "github.com/Semior001/newsdigest/app/store"

// RawArticle is an article as returned by the provider. Any field may be
// missing or null.
type RawArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
	VideoURL    string `json:"videoUrl"`
}

// normalize maps a raw provider record to an article of the given category.
func normalize(raw RawArticle, c Category) store.Article {
	return store.Article{
		Title:       raw.Title,
		Description: raw.Description,
		Content:     raw.Content,
		URL:         raw.URL,
		ImageURL:    raw.URLToImage,
		PublishedAt: raw.PublishedAt,
		Source:      raw.Source.Name,
		Author:      raw.Author,
		Category:    string(c),
		VideoURL:    raw.VideoURL,
	}
}
