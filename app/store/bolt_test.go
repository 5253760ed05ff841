package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prepBolt(t *testing.T) *Bolt {
	b, err := NewBolt(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, b.Close()) })
	return b
}

func TestBolt_GetUser_Defaults(t *testing.T) {
	b := prepBolt(t)

	u, err := b.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, User{ID: "u1", Preferences: DefaultPreferences()}, u)
}

func TestBolt_PutPreferences(t *testing.T) {
	b := prepBolt(t)
	ctx := context.Background()

	prefs, err := b.PutPreferences(ctx, "u1", Preferences{PreferredTopics: []string{"science", "sports"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"science", "sports"}, prefs.PreferredTopics)
	assert.Equal(t, "card", prefs.DefaultView, "unset fields keep their defaults")

	prefs, err = b.PutPreferences(ctx, "u1", Preferences{DefaultView: "list", ReadingLevel: "adult"})
	require.NoError(t, err)
	assert.Equal(t, Preferences{
		PreferredTopics: []string{"science", "sports"},
		DefaultView:     "list",
		ReadingLevel:    "adult",
		Favorites:       []Article{},
	}, prefs)

	u, err := b.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, prefs, u.Preferences)
}

func TestBolt_Favorites(t *testing.T) {
	b := prepBolt(t)
	ctx := context.Background()

	a1 := Article{Title: "first", URL: "https://example.com/1"}
	a2 := Article{Title: "second", URL: "https://example.com/2"}

	require.NoError(t, b.AddFavorite(ctx, "u1", a1))
	require.NoError(t, b.AddFavorite(ctx, "u1", a2))
	require.NoError(t, b.AddFavorite(ctx, "u1", Article{Title: "dup", URL: a1.URL}))

	u, err := b.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []Article{a1, a2}, u.Preferences.Favorites)

	require.NoError(t, b.RemoveFavorite(ctx, "u1", a1.URL))
	require.NoError(t, b.RemoveFavorite(ctx, "u1", "https://example.com/missing"))

	u, err = b.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []Article{a2}, u.Preferences.Favorites)

	users, err := b.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
