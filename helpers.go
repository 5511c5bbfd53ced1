package quill

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/eringen/quill/content"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostURL is the public address of a post.
func PostURL(base string, p content.Post) string {
	if p.SEO != nil && p.SEO.CanonicalURL != "" {
		return p.SEO.CanonicalURL
	}
	return BuildURL(base, "blog", p.Slug)
}

// LivePosts returns the posts readers can see at now, in stored order.
func LivePosts(posts []content.Post, now time.Time) []content.Post {
	var out []content.Post
	for _, p := range posts {
		if p.Live(now) {
			out = append(out, p)
		}
	}
	return out
}

// BlogPostingJSONLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJSONLD(p content.Post, cfg Config) string {
	postURL := PostURL(cfg.SiteURL, p)
	data := map[string]any{
		"@context":       "https://schema.org",
		"@type":          "BlogPosting",
		"headline":       p.Title,
		"description":    p.Summary,
		"datePublished":  p.PublishedAt,
		"url":            postURL,
		"articleSection": p.Category,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if cfg.SiteName != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.SiteName,
		}
	}
	if p.Cover != "" {
		data["image"] = p.Cover
	}
	keywords := p.Tags
	if p.SEO != nil && len(p.SEO.Keywords) > 0 {
		keywords = p.SEO.Keywords
	}
	if len(keywords) > 0 {
		data["keywords"] = strings.Join(keywords, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	// json.Marshal already escapes <, > and &, so the result is safe inside
	// a script element.
	return string(b)
}
