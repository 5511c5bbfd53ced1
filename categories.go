package quill

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/eringen/quill/content"
)

// RemovalReason explains why RemoveByName removed nothing.
type RemovalReason string

const (
	ReasonDefault  RemovalReason = "default"
	ReasonNotFound RemovalReason = "not_found"
)

// Removal reports both phases of a category deletion.
type Removal struct {
	Removed    bool
	Reason     RemovalReason // set when Removed is false
	Name       string        // stored spelling of the removed category
	Categories []string      // list persisted by phase one
	Reassigned int           // posts moved to the default category by phase two
}

// Categories keeps the category set consistent with the posts.
type Categories struct {
	store *Store
	log   *zap.Logger
}

// NewCategories returns the category lifecycle manager over store.
func NewCategories(store *Store) *Categories {
	return &Categories{store: store, log: store.log.Named("categories")}
}

// List returns the category set.
func (c *Categories) List(ctx context.Context) ([]string, error) {
	return c.store.ReadCategories(ctx)
}

// Create adds a new category. A blank name is a validation error and a name
// already present under any casing, the default included, is a conflict.
func (c *Categories) Create(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError(msgCategoryRequired)
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	list, err := c.store.ReadCategories(ctx)
	if err != nil {
		return nil, err
	}
	if existing, ok := findCategory(list, name); ok {
		return nil, conflictError(msgCategoryExists, existing)
	}
	return c.store.WriteCategories(ctx, append(list, name))
}

// AddIfMissing adds the normalized name to the set unless a case-insensitive
// match already exists. It reports whether the set changed.
func (c *Categories) AddIfMissing(ctx context.Context, name string) ([]string, bool, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return c.addIfMissing(ctx, name)
}

// addIfMissing is AddIfMissing for callers already holding the store lock.
func (c *Categories) addIfMissing(ctx context.Context, name string) ([]string, bool, error) {
	name = content.NormalizeCategory(name)
	list, err := c.store.ReadCategories(ctx)
	if err != nil {
		return nil, false, err
	}
	if _, ok := findCategory(list, name); ok {
		return list, false, nil
	}
	list, err = c.store.WriteCategories(ctx, append(list, name))
	if err != nil {
		return nil, false, err
	}
	c.log.Info("category added", zap.String("category", name))
	return list, true, nil
}

// RemoveByName deletes a category in two phases: removeCategory drops it
// from the set and persists the set, then reassignPosts moves its posts to
// the default category. The default category and unknown names are refused
// with Removed false and nothing written.
func (c *Categories) RemoveByName(ctx context.Context, name string) (Removal, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	r, err := c.removeCategory(ctx, name)
	if err != nil || !r.Removed {
		return r, err
	}
	n, err := c.reassignPosts(ctx, r.Name)
	if err != nil {
		return r, err
	}
	r.Reassigned = n
	c.log.Info("category removed",
		zap.String("category", r.Name),
		zap.Int("reassigned", n))
	return r, nil
}

func (c *Categories) removeCategory(ctx context.Context, name string) (Removal, error) {
	name = content.NormalizeCategory(name)
	if content.IsDefaultCategory(name) {
		return Removal{Reason: ReasonDefault, Name: name}, nil
	}
	list, err := c.store.ReadCategories(ctx)
	if err != nil {
		return Removal{}, err
	}
	existing, ok := findCategory(list, name)
	if !ok {
		return Removal{Reason: ReasonNotFound, Name: name, Categories: list}, nil
	}
	kept := make([]string, 0, len(list))
	for _, cat := range list {
		if !content.SameCategory(cat, name) {
			kept = append(kept, cat)
		}
	}
	kept, err = c.store.WriteCategories(ctx, kept)
	if err != nil {
		return Removal{}, err
	}
	return Removal{Removed: true, Name: existing, Categories: kept}, nil
}

// reassignPosts moves every post in category name to the default category.
// Posts are written only when at least one changed.
func (c *Categories) reassignPosts(ctx context.Context, name string) (int, error) {
	posts, err := c.store.ReadPosts(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range posts {
		if content.SameCategory(posts[i].Category, name) {
			posts[i].Category = content.DefaultCategory
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	if _, err := c.store.WritePosts(ctx, posts); err != nil {
		return 0, err
	}
	return n, nil
}

func findCategory(list []string, name string) (string, bool) {
	for _, cat := range list {
		if content.SameCategory(cat, name) {
			return cat, true
		}
	}
	return "", false
}
