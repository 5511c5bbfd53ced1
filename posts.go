package quill

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eringen/quill/content"
)

// Posts creates, updates and deletes posts. Every change is validated before
// anything is written and keeps the post's category in the category set.
type Posts struct {
	store      *Store
	categories *Categories
	now        func() time.Time
	log        *zap.Logger
}

// NewPosts returns the post service over store.
func NewPosts(store *Store, categories *Categories) *Posts {
	return &Posts{
		store:      store,
		categories: categories,
		now:        store.now,
		log:        store.log.Named("posts"),
	}
}

// List returns every post, newest first as stored.
func (s *Posts) List(ctx context.Context) ([]content.Post, error) {
	return s.store.ReadPosts(ctx)
}

// Get returns the post with id.
func (s *Posts) Get(ctx context.Context, id string) (content.Post, error) {
	posts, err := s.store.ReadPosts(ctx)
	if err != nil {
		return content.Post{}, err
	}
	if i := indexOf(posts, id); i >= 0 {
		return posts[i], nil
	}
	return content.Post{}, notFoundError(msgPostNotFound)
}

// Create normalizes raw into a new post with a fresh id and stores it first
// in the list.
func (s *Posts) Create(ctx context.Context, raw map[string]any) (content.Post, error) {
	fields := make(map[string]any, len(raw)+1)
	for k, v := range raw {
		fields[k] = v
	}
	fields["id"] = uuid.NewString()
	post := s.normalize(fields)
	if err := validatePost(post); err != nil {
		return content.Post{}, err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	posts, err := s.store.ReadPosts(ctx)
	if err != nil {
		return content.Post{}, err
	}
	if slugTaken(posts, post.Slug, "") {
		return content.Post{}, conflictError(msgSlugTaken, post.Slug)
	}
	if _, _, err := s.categories.addIfMissing(ctx, post.Category); err != nil {
		return content.Post{}, err
	}
	written, err := s.store.WritePosts(ctx, append([]content.Post{post}, posts...))
	if err != nil {
		return content.Post{}, err
	}
	s.log.Info("post created", zap.String("id", post.ID), zap.String("slug", post.Slug))
	return written[0], nil
}

// Update merges patch over the stored post with id and revalidates the
// result. Only keys present in patch change; the id never does.
func (s *Posts) Update(ctx context.Context, id string, patch map[string]any) (content.Post, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	posts, err := s.store.ReadPosts(ctx)
	if err != nil {
		return content.Post{}, err
	}
	i := indexOf(posts, id)
	if i < 0 {
		return content.Post{}, notFoundError(msgPostNotFound)
	}
	fields, err := toFields(posts[i])
	if err != nil {
		return content.Post{}, unexpected(err, "encode post")
	}
	_, bodyChanged := patch["sections"]
	if _, ok := patch["contentHtml"]; ok {
		bodyChanged = true
	}
	if bodyChanged {
		// Derived values are recomputed from the new body unless the patch
		// sets them.
		delete(fields, "readingTime")
		if posts[i].Cover == firstImageURL(posts[i]) {
			delete(fields, "cover")
		}
	}
	for k, v := range patch {
		fields[k] = v
	}
	fields["id"] = posts[i].ID

	post := s.normalize(fields)
	if err := validatePost(post); err != nil {
		return content.Post{}, err
	}
	if slugTaken(posts, post.Slug, post.ID) {
		return content.Post{}, conflictError(msgSlugTaken, post.Slug)
	}
	if _, _, err := s.categories.addIfMissing(ctx, post.Category); err != nil {
		return content.Post{}, err
	}
	posts[i] = post
	written, err := s.store.WritePosts(ctx, posts)
	if err != nil {
		return content.Post{}, err
	}
	s.log.Info("post updated", zap.String("id", post.ID), zap.String("slug", post.Slug))
	return written[i], nil
}

// Delete removes the post with id.
func (s *Posts) Delete(ctx context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	posts, err := s.store.ReadPosts(ctx)
	if err != nil {
		return err
	}
	i := indexOf(posts, id)
	if i < 0 {
		return notFoundError(msgPostNotFound)
	}
	if _, err := s.store.WritePosts(ctx, append(posts[:i:i], posts[i+1:]...)); err != nil {
		return err
	}
	s.log.Info("post deleted", zap.String("id", id))
	return nil
}

// normalize canonicalizes a raw post and logs the section types it dropped.
func (s *Posts) normalize(fields map[string]any) content.Post {
	if _, unknown := content.NormalizeSectionsReport(fields["sections"]); len(unknown) > 0 {
		s.log.Warn("dropped sections of unknown type",
			zap.Any("id", fields["id"]),
			zap.Strings("types", unknown))
	}
	return content.NormalizePost(fields, s.now())
}

// validatePost checks the fields a client must supply, in a fixed order so
// the reported error is stable.
func validatePost(p content.Post) error {
	switch {
	case p.Title == "":
		return validationError(msgTitleRequired)
	case p.Slug == "":
		return validationError(msgSlugRequired)
	case p.Status != content.StatusDraft && !p.HasContent():
		return validationError(msgContentRequired)
	case p.Status == content.StatusScheduled && p.ScheduledAt == "":
		return validationError(msgScheduleRequired)
	}
	return nil
}

// slugTaken reports whether another post than exceptID uses slug. Slugs
// compare case-sensitively.
func slugTaken(posts []content.Post, slug, exceptID string) bool {
	for _, p := range posts {
		if p.Slug == slug && p.ID != exceptID {
			return true
		}
	}
	return false
}

func indexOf(posts []content.Post, id string) int {
	if id == "" {
		return -1
	}
	for i, p := range posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func firstImageURL(p content.Post) string {
	for _, s := range p.Sections {
		if s.Type == content.SectionImage {
			return s.Text
		}
	}
	return ""
}

// toFields converts a post back to the decoded-JSON shape a patch applies to.
func toFields(p content.Post) (map[string]any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
