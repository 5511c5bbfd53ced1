package quill

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eringen/quill/content"
	"github.com/eringen/quill/docstore"
)

// Document names.
const (
	docPosts      = "posts"
	docCategories = "categories"
	docProfile    = "profile"
)

// legacyIDSpace namespaces the ids derived for stored posts that lack one.
var legacyIDSpace = uuid.MustParse("6f1c8f3e-2b1a-4f4e-9d3a-6a0c5b7e9f21")

// Store is the persistence layer. Every read loads and normalizes the whole
// document from the backend; every write normalizes and replaces it. There is
// no cache.
type Store struct {
	backend docstore.Backend
	now     func() time.Time
	log     *zap.Logger

	// mu serializes read-modify-write sequences within this process. Writers
	// in other processes sharing the backend still race.
	mu sync.Mutex
}

// NewStore returns a Store over backend. A nil now means time.Now and a nil
// log discards.
func NewStore(backend docstore.Backend, now func() time.Time, log *zap.Logger) *Store {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{backend: backend, now: now, log: log}
}

// Bootstrap makes sure all three documents exist, seeding the missing ones.
func (s *Store) Bootstrap(ctx context.Context) error {
	if _, err := s.ReadPosts(ctx); err != nil {
		return err
	}
	if _, err := s.ReadCategories(ctx); err != nil {
		return err
	}
	_, err := s.ReadProfile(ctx)
	return err
}

// ReadPosts returns the stored posts in canonical form. A missing document
// is seeded. A document carrying the legacy seed signature is replaced by the
// current seed set. Non-object entries are skipped and posts violating the
// publication invariants are reported as drafts.
func (s *Store) ReadPosts(ctx context.Context) ([]content.Post, error) {
	data, err := s.backend.Load(ctx, docPosts)
	if errors.Is(err, docstore.ErrNotExist) {
		s.log.Info("seeding posts document")
		return s.WritePosts(ctx, content.SeedPosts(s.now()))
	}
	if err != nil {
		return nil, unexpected(err, "read posts")
	}
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, unexpected(err, "parse posts")
	}
	now := s.now()
	posts := make([]content.Post, 0, len(raw))
	for i, item := range raw {
		if _, ok := item.(map[string]any); !ok {
			continue
		}
		p := content.NormalizePost(item, now).Repair()
		if p.ID == "" {
			p.ID = legacyID(p, i)
		}
		posts = append(posts, p)
	}
	if content.IsLegacySeed(posts) {
		s.log.Info("replacing legacy seed posts", zap.Int("posts", len(posts)))
		return s.WritePosts(ctx, content.SeedPosts(now))
	}
	return posts, nil
}

// legacyID derives a stable id for a stored post that has none, so it can
// still be addressed by the update and delete endpoints.
func legacyID(p content.Post, index int) string {
	key := p.Slug
	if key == "" {
		key = "#" + strconv.Itoa(index) + ":" + p.Title
	}
	return uuid.NewSHA1(legacyIDSpace, []byte(key)).String()
}

// WritePosts normalizes posts, replaces the stored document and returns what
// was written.
func (s *Store) WritePosts(ctx context.Context, posts []content.Post) ([]content.Post, error) {
	now := s.now()
	out := make([]content.Post, len(posts))
	for i, p := range posts {
		out[i] = p.Normalize(now)
	}
	if err := s.save(ctx, docPosts, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadCategories returns the stored category list in canonical form. A
// missing document is derived from the categories the posts use.
func (s *Store) ReadCategories(ctx context.Context) ([]string, error) {
	data, err := s.backend.Load(ctx, docCategories)
	if errors.Is(err, docstore.ErrNotExist) {
		posts, err := s.ReadPosts(ctx)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(posts)+1)
		names = append(names, content.DefaultCategory)
		for _, p := range posts {
			names = append(names, p.Category)
		}
		s.log.Info("deriving categories document from posts")
		return s.WriteCategories(ctx, names)
	}
	if err != nil {
		return nil, unexpected(err, "read categories")
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, unexpected(err, "parse categories")
	}
	return content.NormalizeCategoryList(raw), nil
}

// WriteCategories normalizes names, replaces the stored document and returns
// the list actually persisted, which may differ from names by de-duplication
// or the appended default category.
func (s *Store) WriteCategories(ctx context.Context, names []string) ([]string, error) {
	list := content.NormalizeCategoryList(names)
	if err := s.save(ctx, docCategories, list); err != nil {
		return nil, err
	}
	return list, nil
}

// ReadProfile returns the stored profile in canonical form. A missing
// document is created from the defaults.
func (s *Store) ReadProfile(ctx context.Context) (content.Profile, error) {
	data, err := s.backend.Load(ctx, docProfile)
	if errors.Is(err, docstore.ErrNotExist) {
		return s.WriteProfile(ctx, content.DefaultProfile())
	}
	if err != nil {
		return content.Profile{}, unexpected(err, "read profile")
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return content.Profile{}, unexpected(err, "parse profile")
	}
	return content.NormalizeProfile(raw), nil
}

// WriteProfile normalizes p, replaces the stored document and returns what
// was written.
func (s *Store) WriteProfile(ctx context.Context, p content.Profile) (content.Profile, error) {
	p = p.Normalize()
	if err := s.save(ctx, docProfile, p); err != nil {
		return content.Profile{}, err
	}
	return p, nil
}

// Canonicalize rewrites every document in canonical form. Unlike plain
// reads, the invariant repairs are persisted.
func (s *Store) Canonicalize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts, err := s.ReadPosts(ctx)
	if err != nil {
		return err
	}
	if _, err := s.WritePosts(ctx, posts); err != nil {
		return err
	}
	cats, err := s.ReadCategories(ctx)
	if err != nil {
		return err
	}
	for _, p := range posts {
		cats = append(cats, p.Category)
	}
	if _, err := s.WriteCategories(ctx, cats); err != nil {
		return err
	}
	profile, err := s.ReadProfile(ctx)
	if err != nil {
		return err
	}
	_, err = s.WriteProfile(ctx, profile)
	return err
}

func (s *Store) save(ctx context.Context, name string, v any) error {
	data, err := encodeDocument(v)
	if err != nil {
		return unexpected(err, "encode "+name)
	}
	return unexpected(s.backend.Save(ctx, name, data), "write "+name)
}

// encodeDocument renders v as JSON indented by two spaces, with a trailing
// newline and without HTML escaping.
func encodeDocument(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
