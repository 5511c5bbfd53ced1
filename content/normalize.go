package content

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000Z"
	wordsPerMinute  = 200
)

// scheduleLayouts are tried in order when parsing a user-supplied timestamp.
// Layouts without a zone are read as UTC.
var scheduleLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	dateLayout,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
}

var reTag = regexp.MustCompile(`<[^>]*>`)

// NormalizeCategory trims v; a blank value becomes DefaultCategory.
func NormalizeCategory(v any) string {
	if s := strings.TrimSpace(str(v)); s != "" {
		return s
	}
	return DefaultCategory
}

// CategoryKey is the comparison key for category names.
func CategoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameCategory compares two category names case-insensitively.
func SameCategory(a, b string) bool {
	return CategoryKey(a) == CategoryKey(b)
}

// IsDefaultCategory reports whether name resolves to DefaultCategory.
func IsDefaultCategory(name string) bool {
	return SameCategory(NormalizeCategory(name), DefaultCategory)
}

// NormalizePostStatus matches v case-insensitively against the known
// statuses. Anything else is published.
func NormalizePostStatus(v any) Status {
	var s string
	switch t := v.(type) {
	case Status:
		s = string(t)
	default:
		s = str(v)
	}
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusDraft, StatusScheduled, StatusPublished:
		return st
	}
	return StatusPublished
}

// NormalizeScheduledAt parses v as a date or timestamp and returns it as a
// UTC ISO-8601 string with millisecond precision. Unparsable input yields "".
func NormalizeScheduledAt(v any) string {
	s := strings.TrimSpace(str(v))
	if s == "" {
		return ""
	}
	for _, layout := range scheduleLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC().Format(timestampLayout)
		}
	}
	return ""
}

// NormalizeSEO trims every field and keeps the non-empty ones. Keywords may
// be a list or a comma-separated string. It returns nil when nothing is left.
func NormalizeSEO(v any) *SEO {
	var in SEO
	switch t := v.(type) {
	case *SEO:
		if t == nil {
			return nil
		}
		in = *t
	case SEO:
		in = t
	default:
		d := decodeSEO(v)
		if d == nil {
			return nil
		}
		in = *d
	}
	out := SEO{
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		OGImage:      strings.TrimSpace(in.OGImage),
		CanonicalURL: strings.TrimSpace(in.CanonicalURL),
	}
	if kw := trimmedNonEmpty(in.Keywords); len(kw) > 0 {
		out.Keywords = kw
	}
	if out.Empty() {
		return nil
	}
	return &out
}

// NormalizeTags accepts a list or a comma-separated string and returns the
// trimmed, non-empty entries.
func NormalizeTags(v any) []string {
	return trimmedNonEmpty(splitList(v))
}

// NormalizeSections applies the per-type rules to every entry and drops the
// ones left without content, non-objects and unknown types.
func NormalizeSections(v any) []Section {
	out, _ := NormalizeSectionsReport(v)
	return out
}

// NormalizeSectionsReport is NormalizeSections that also returns the unknown
// type names it dropped, in input order.
func NormalizeSectionsReport(v any) ([]Section, []string) {
	var in []Section
	switch t := v.(type) {
	case []Section:
		in = t
	default:
		in = decodeSections(v)
	}
	out := make([]Section, 0, len(in))
	var unknown []string
	for _, s := range in {
		s.Type = SectionType(strings.ToLower(strings.TrimSpace(string(s.Type))))
		if !s.Type.Known() {
			if s.Type != "" {
				unknown = append(unknown, string(s.Type))
			}
			continue
		}
		if ns, ok := normalizeSection(s); ok {
			out = append(out, ns)
		}
	}
	return out, unknown
}

func normalizeSection(s Section) (Section, bool) {
	switch s.Type {
	case SectionList:
		items := trimmedNonEmpty(s.Items)
		if len(items) == 0 {
			return Section{}, false
		}
		return Section{Type: SectionList, Items: items}, true
	case SectionCode:
		// Code keeps its indentation; only emptiness is judged on the trimmed text.
		if strings.TrimSpace(s.Text) == "" {
			return Section{}, false
		}
		return Section{Type: SectionCode, Text: s.Text, Language: strings.TrimSpace(s.Language)}, true
	case SectionImage:
		src := strings.TrimSpace(s.Text)
		if src == "" {
			return Section{}, false
		}
		return Section{
			Type:    SectionImage,
			Text:    src,
			Alt:     strings.TrimSpace(s.Alt),
			Caption: strings.TrimSpace(s.Caption),
		}, true
	default:
		text := strings.TrimSpace(s.Text)
		if text == "" {
			return Section{}, false
		}
		return Section{Type: s.Type, Text: text}, true
	}
}

// NormalizeCategoryList trims and de-duplicates category names by their
// case-insensitive key, keeping the first spelling seen, and appends
// DefaultCategory when no variant of it is present.
func NormalizeCategoryList(v any) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, name := range stringList(v) {
		name = strings.TrimSpace(name)
		key := CategoryKey(name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	if _, ok := seen[CategoryKey(DefaultCategory)]; !ok {
		out = append(out, DefaultCategory)
	}
	return out
}

// NormalizePost decodes and normalizes a raw post object.
func NormalizePost(v any, now time.Time) Post {
	return DecodePost(v).Normalize(now)
}

// Normalize returns the canonical form of p. now supplies the publication
// date when none is given. Normalize is idempotent.
func (p Post) Normalize(now time.Time) Post {
	out := Post{
		ID:          strings.TrimSpace(p.ID),
		Slug:        strings.TrimSpace(p.Slug),
		Title:       strings.TrimSpace(p.Title),
		Summary:     strings.TrimSpace(p.Summary),
		Category:    NormalizeCategory(p.Category),
		Status:      NormalizePostStatus(p.Status),
		SEO:         NormalizeSEO(p.SEO),
		Tags:        NormalizeTags(p.Tags),
		Sections:    NormalizeSections(p.Sections),
		ContentHTML: strings.TrimSpace(p.ContentHTML),
		Featured:    p.Featured,
		Cover:       strings.TrimSpace(p.Cover),
		Series:      strings.TrimSpace(p.Series),
		ReadingTime: strings.TrimSpace(p.ReadingTime),
	}
	if out.Summary == "" {
		out.Summary = DefaultSummary
	}
	if out.Status == StatusScheduled {
		out.ScheduledAt = NormalizeScheduledAt(p.ScheduledAt)
	}
	switch {
	case out.ScheduledAt != "":
		out.PublishedAt = out.ScheduledAt[:len(dateLayout)]
	case strings.TrimSpace(p.PublishedAt) != "":
		out.PublishedAt = strings.TrimSpace(p.PublishedAt)
	default:
		out.PublishedAt = now.UTC().Format(dateLayout)
	}
	if out.Cover == "" {
		out.Cover = firstImage(out.Sections)
	}
	if out.ReadingTime == "" && out.HasContent() {
		out.ReadingTime = EstimateReadingTime(out)
	}
	return out
}

// Repair demotes posts that break the publication invariants to draft:
// scheduled without a timestamp, or not a draft and without content.
func (p Post) Repair() Post {
	if p.Status == StatusScheduled && p.ScheduledAt == "" {
		p.Status = StatusDraft
	}
	if p.Status != StatusDraft && !p.HasContent() {
		p.Status = StatusDraft
		p.ScheduledAt = ""
	}
	return p
}

// EstimateReadingTime returns "N min" for the post body at 200 words per
// minute, never less than one minute.
func EstimateReadingTime(p Post) string {
	words := len(strings.Fields(reTag.ReplaceAllString(p.ContentHTML, " ")))
	for _, s := range p.Sections {
		switch s.Type {
		case SectionImage:
			words += len(strings.Fields(s.Caption))
		case SectionList:
			for _, item := range s.Items {
				words += len(strings.Fields(item))
			}
		default:
			words += len(strings.Fields(s.Text))
		}
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min", minutes)
}

func firstImage(sections []Section) string {
	for _, s := range sections {
		if s.Type == SectionImage {
			return s.Text
		}
	}
	return ""
}

func trimmedNonEmpty(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
