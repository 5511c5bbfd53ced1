// Package content holds the blog's document shapes and the pure functions that
// coerce arbitrary decoded JSON into them. Nothing in this package performs I/O.
package content

import (
	"encoding/json"
	"time"
)

// DefaultCategory is the category every post falls back to. It always exists
// and can never be deleted.
const DefaultCategory = "General"

// DefaultSummary replaces a blank post summary.
const DefaultSummary = "Sin resumen."

// Status is the publication state of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
)

// SectionType tags a Section.
type SectionType string

const (
	SectionHeading   SectionType = "heading"
	SectionParagraph SectionType = "paragraph"
	SectionList      SectionType = "list"
	SectionCode      SectionType = "code"
	SectionQuote     SectionType = "quote"
	SectionCallout   SectionType = "callout"
	SectionImage     SectionType = "image"
)

// Known reports whether t is one of the supported section types.
func (t SectionType) Known() bool {
	switch t {
	case SectionHeading, SectionParagraph, SectionList, SectionCode, SectionQuote, SectionCallout, SectionImage:
		return true
	}
	return false
}

// Section is one typed content block of a post body. List sections carry
// Items; every other type carries Text (the image URL for images).
type Section struct {
	Type     SectionType
	Text     string
	Items    []string
	Language string // code only
	Alt      string // image only
	Caption  string // image only
}

type sectionWire struct {
	Type     SectionType `json:"type"`
	Content  any         `json:"content"`
	Language string      `json:"language,omitempty"`
	Alt      string      `json:"alt,omitempty"`
	Caption  string      `json:"caption,omitempty"`
}

// MarshalJSON writes content as a string, or as a list for list sections.
func (s Section) MarshalJSON() ([]byte, error) {
	w := sectionWire{Type: s.Type, Content: s.Text, Language: s.Language, Alt: s.Alt, Caption: s.Caption}
	if s.Type == SectionList {
		items := s.Items
		if items == nil {
			items = []string{}
		}
		w.Content = items
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts any object shape and coerces it like DecodeSection.
func (s *Section) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = DecodeSection(raw)
	return nil
}

// SEO carries optional search/social metadata for a post.
type SEO struct {
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	OGImage      string   `json:"ogImage,omitempty"`
	CanonicalURL string   `json:"canonicalUrl,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
}

// Empty reports whether no SEO field carries a value.
func (s SEO) Empty() bool {
	return s.Title == "" && s.Description == "" && s.OGImage == "" && s.CanonicalURL == "" && len(s.Keywords) == 0
}

// Post is a blog entry as persisted and served.
type Post struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Category    string    `json:"category"`
	Status      Status    `json:"status"`
	ScheduledAt string    `json:"scheduledAt,omitempty"`
	PublishedAt string    `json:"publishedAt"`
	SEO         *SEO      `json:"seo,omitempty"`
	Tags        []string  `json:"tags"`
	Sections    []Section `json:"sections"`
	ContentHTML string    `json:"contentHtml,omitempty"`
	Featured    bool      `json:"featured"`
	Cover       string    `json:"cover,omitempty"`
	Series      string    `json:"series,omitempty"`
	ReadingTime string    `json:"readingTime,omitempty"`
}

// HasContent reports whether the post has a body to show.
func (p Post) HasContent() bool {
	return len(p.Sections) > 0 || p.ContentHTML != ""
}

// Live reports whether the post is visible to readers at now: published, or
// scheduled for a moment that has already passed.
func (p Post) Live(now time.Time) bool {
	switch p.Status {
	case StatusPublished:
		return true
	case StatusScheduled:
		t, err := time.Parse(time.RFC3339Nano, p.ScheduledAt)
		return err == nil && !t.After(now)
	}
	return false
}

// SocialKeys is the fixed set of accepted profile social links, in output order.
var SocialKeys = []string{"github", "linkedin", "twitter", "instagram"}

// Profile is the singleton author document.
type Profile struct {
	Title        string            `json:"title"`
	Name         string            `json:"name"`
	Role         string            `json:"role"`
	Description  string            `json:"description"`
	Tagline      string            `json:"tagline,omitempty"`
	Location     string            `json:"location,omitempty"`
	ProfileImage string            `json:"profileImage,omitempty"`
	Email        string            `json:"email,omitempty"`
	Now          string            `json:"now,omitempty"`
	Social       map[string]string `json:"social"`
	Stack        []string          `json:"stack"`
}
