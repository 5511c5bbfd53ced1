package content

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The Decode functions coerce arbitrary decoded JSON (maps, slices, strings,
// numbers) into typed values without applying any canonical rule. They never
// fail: anything of the wrong shape decodes to the zero value.

// DecodePost coerces a decoded JSON object into a Post.
func DecodePost(v any) Post {
	m, _ := v.(map[string]any)
	return Post{
		ID:          str(m["id"]),
		Slug:        str(m["slug"]),
		Title:       str(m["title"]),
		Summary:     str(m["summary"]),
		Category:    str(m["category"]),
		Status:      Status(str(m["status"])),
		ScheduledAt: str(m["scheduledAt"]),
		PublishedAt: str(m["publishedAt"]),
		SEO:         decodeSEO(m["seo"]),
		Tags:        splitList(m["tags"]),
		Sections:    decodeSections(m["sections"]),
		ContentHTML: str(m["contentHtml"]),
		Featured:    truthy(m["featured"]),
		Cover:       str(m["cover"]),
		Series:      str(m["series"]),
		ReadingTime: str(m["readingTime"]),
	}
}

// DecodeSection coerces one decoded JSON value into a Section. Non-objects
// decode to a Section with an empty type, which normalization drops.
func DecodeSection(v any) Section {
	m, ok := v.(map[string]any)
	if !ok {
		return Section{}
	}
	s := Section{
		Type:     SectionType(strings.ToLower(strings.TrimSpace(str(m["type"])))),
		Language: str(m["language"]),
		Alt:      str(m["alt"]),
		Caption:  str(m["caption"]),
	}
	if s.Type == SectionList {
		switch c := m["content"].(type) {
		case []any, []string:
			s.Items = stringList(c)
		case string:
			s.Items = []string{c}
		}
		return s
	}
	s.Text = str(m["content"])
	return s
}

func decodeSections(v any) []Section {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Section, 0, len(list))
	for _, item := range list {
		out = append(out, DecodeSection(item))
	}
	return out
}

func decodeSEO(v any) *SEO {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return &SEO{
		Title:        str(m["title"]),
		Description:  str(m["description"]),
		OGImage:      str(m["ogImage"]),
		CanonicalURL: str(m["canonicalUrl"]),
		Keywords:     splitList(m["keywords"]),
	}
}

// DecodeProfile coerces a decoded JSON object into a Profile.
func DecodeProfile(v any) Profile {
	m, _ := v.(map[string]any)
	p := Profile{
		Title:        str(m["title"]),
		Name:         str(m["name"]),
		Role:         str(m["role"]),
		Description:  str(m["description"]),
		Tagline:      str(m["tagline"]),
		Location:     str(m["location"]),
		ProfileImage: str(m["profileImage"]),
		Email:        str(m["email"]),
		Now:          str(m["now"]),
		Social:       map[string]string{},
		Stack:        splitList(m["stack"]),
	}
	if social, ok := m["social"].(map[string]any); ok {
		for k, val := range social {
			p.Social[k] = str(val)
		}
	}
	return p
}

// str renders scalars as strings; containers and nil become "".
func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "on":
			return true
		}
	}
	return false
}

// stringList keeps the string form of every scalar element of a list.
func stringList(v any) []string {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, str(item))
		}
		return out
	}
	return nil
}

// splitList accepts a list or a comma-separated string.
func splitList(v any) []string {
	if s, ok := v.(string); ok {
		return strings.Split(s, ",")
	}
	return stringList(v)
}
