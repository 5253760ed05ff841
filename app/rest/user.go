package rest

import (
	"net/http"
	"strings"

	"github.com/Semior001/newsdigest/app/news"
	"github.com/Semior001/newsdigest/app/revisor"
	"github.com/Semior001/newsdigest/app/store"
	"github.com/gin-gonic/gin"
)

func (s *Server) getPreferences(c *gin.Context) {
	u, err := s.Store.GetUser(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to get preferences", err)
		return
	}

	c.JSON(http.StatusOK, u.Preferences)
}

func (s *Server) putPreferences(c *gin.Context) {
	var prefs store.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		s.fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	for _, topic := range prefs.PreferredTopics {
		if _, err := news.ParseCategory(topic); err != nil {
			s.fail(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
	}

	if lvl := revisor.ReadingLevel(prefs.ReadingLevel); lvl != "" && !lvl.Valid() {
		s.fail(c, http.StatusBadRequest, "unknown reading level", nil)
		return
	}

	res, err := s.Store.PutPreferences(c.Request.Context(), userID(c), prefs)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to update preferences", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Preferences updated successfully",
		"preferences": res,
	})
}

func (s *Server) getFavorites(c *gin.Context) {
	u, err := s.Store.GetUser(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to get favorites", err)
		return
	}

	favorites := u.Preferences.Favorites
	if favorites == nil {
		favorites = []store.Article{}
	}

	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

func (s *Server) addFavorite(c *gin.Context) {
	var article store.Article
	if err := c.ShouldBindJSON(&article); err != nil {
		s.fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if article.URL == "" {
		s.fail(c, http.StatusBadRequest, "article url is required", nil)
		return
	}

	if err := s.Store.AddFavorite(c.Request.Context(), userID(c), article); err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to add favorite", err)
		return
	}

	c.JSON(http.StatusOK, msgResponse{Message: "Article added to favorites"})
}

// DELETE /api/user/favorites/*url, the url is taken as is, without escaping.
func (s *Server) removeFavorite(c *gin.Context) {
	u := strings.TrimPrefix(c.Param("url"), "/")
	if u == "" {
		s.fail(c, http.StatusBadRequest, "article url is required", nil)
		return
	}

	if err := s.Store.RemoveFavorite(c.Request.Context(), userID(c), u); err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to remove favorite", err)
		return
	}

	c.JSON(http.StatusOK, msgResponse{Message: "Article removed from favorites"})
}
