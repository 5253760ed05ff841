package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/samber/lo"
	bolt "go.etcd.io/bbolt"
)

const usersBktName = "users"

// Bolt is a storage that uses BoltDB as a backend.
type Bolt struct {
	db *bolt.DB
}

// NewBolt creates new Bolt storage.
func NewBolt(dir string) (*Bolt, error) {
	db, err := bolt.Open(path.Join(dir, "users.db"), 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to make boltdb for %s: %w", dir, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{usersBktName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create top-level bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("make buckets: %w", err)
	}

	return &Bolt{db: db}, nil
}

// GetUser returns user from storage, or a user with default preferences
// if nothing was stored for this id yet.
func (b *Bolt) GetUser(_ context.Context, id string) (u User, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		u, err = getUser(tx.Bucket([]byte(usersBktName)), id)
		return err
	})
	if err != nil {
		return User{}, fmt.Errorf("view storage: %w", err)
	}

	return u, nil
}

// PutPreferences merges the given preferences into the stored ones and
// returns the result.
func (b *Bolt) PutPreferences(_ context.Context, id string, prefs Preferences) (Preferences, error) {
	var res Preferences
	err := b.update(id, func(u *User) error {
		u.Preferences = u.Preferences.Merge(prefs)
		res = u.Preferences
		return nil
	})
	if err != nil {
		return Preferences{}, err
	}
	return res, nil
}

// AddFavorite appends article to user's favorites, if it is not there yet.
func (b *Bolt) AddFavorite(_ context.Context, id string, a Article) error {
	return b.update(id, func(u *User) error {
		exists := lo.ContainsBy(u.Preferences.Favorites, func(f Article) bool { return f.URL == a.URL })
		if !exists {
			u.Preferences.Favorites = append(u.Preferences.Favorites, a)
		}
		return nil
	})
}

// RemoveFavorite removes article with the given url from user's favorites.
func (b *Bolt) RemoveFavorite(_ context.Context, id, url string) error {
	return b.update(id, func(u *User) error {
		u.Preferences.Favorites = lo.Reject(u.Preferences.Favorites, func(f Article, _ int) bool {
			return f.URL == url
		})
		return nil
	})
}

// ListUsers returns all users from storage.
func (b *Bolt) ListUsers(context.Context) ([]User, error) {
	var result []User
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(usersBktName))
		err := bkt.ForEach(func(k, v []byte) error {
			var u User
			if err := json.Unmarshal(v, &u); err != nil {
				return fmt.Errorf("unmarshal user %s: %w", k, err)
			}
			result = append(result, u)
			return nil
		})
		if err != nil {
			return fmt.Errorf("foreach: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("view storage: %w", err)
	}
	return result, nil
}

// Close closes the storage.
func (b *Bolt) Close() error { return b.db.Close() }

func (b *Bolt) update(id string, fn func(u *User) error) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(usersBktName))

		u, err := getUser(bkt, id)
		if err != nil {
			return err
		}

		if err = fn(&u); err != nil {
			return err
		}

		bts, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}

		if err := bkt.Put([]byte(id), bts); err != nil {
			return fmt.Errorf("put user to storage: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}

	return nil
}

func getUser(bkt *bolt.Bucket, id string) (User, error) {
	bts := bkt.Get([]byte(id))
	if bts == nil {
		return User{ID: id, Preferences: DefaultPreferences()}, nil
	}

	var u User
	if err := json.Unmarshal(bts, &u); err != nil {
		return User{}, fmt.Errorf("unmarshal user: %w", err)
	}

	if u.Preferences.Favorites == nil {
		u.Preferences.Favorites = []Article{}
	}

	return u, nil
}
