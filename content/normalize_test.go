package content

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 9, 15, 30, 0, 0, time.UTC)

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"  Viajes ", "Viajes"},
		{"", DefaultCategory},
		{"   ", DefaultCategory},
		{nil, DefaultCategory},
		{[]any{"x"}, DefaultCategory},
		{42.0, "42"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCategory(tt.in), "NormalizeCategory(%#v)", tt.in)
	}
}

func TestNormalizePostStatus(t *testing.T) {
	tests := []struct {
		in   any
		want Status
	}{
		{"draft", StatusDraft},
		{" Scheduled ", StatusScheduled},
		{"PUBLISHED", StatusPublished},
		{"archived", StatusPublished},
		{"", StatusPublished},
		{nil, StatusPublished},
		{true, StatusPublished},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePostStatus(tt.in), "NormalizePostStatus(%#v)", tt.in)
	}
}

func TestNormalizeScheduledAt(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"2025-01-01T00:00:00Z", "2025-01-01T00:00:00.000Z"},
		{"2025-01-01T02:00:00+02:00", "2025-01-01T00:00:00.000Z"},
		{"2025-06-15T10:30", "2025-06-15T10:30:00.000Z"},
		{"2025-06-15", "2025-06-15T00:00:00.000Z"},
		{1735689600000.0, ""},
		{"next tuesday", ""},
		{"", ""},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeScheduledAt(tt.in), "NormalizeScheduledAt(%#v)", tt.in)
	}
}

func TestNormalizeScheduledAtIdempotent(t *testing.T) {
	once := NormalizeScheduledAt("2025-02-03T04:05:06.789+01:00")
	require.NotEmpty(t, once)
	assert.Equal(t, once, NormalizeScheduledAt(once))
}

func TestNormalizeSEO(t *testing.T) {
	got := NormalizeSEO(decodeJSON(t, `{"title":"  T ","description":"","ogImage":" /o.png ","keywords":" go, web ,, "}`))
	require.NotNil(t, got)
	assert.Equal(t, SEO{Title: "T", OGImage: "/o.png", Keywords: []string{"go", "web"}}, *got)

	got = NormalizeSEO(decodeJSON(t, `{"keywords":["a"," ",""],"canonicalUrl":"https://x.dev/p"}`))
	require.NotNil(t, got)
	assert.Equal(t, []string{"a"}, got.Keywords)
	assert.Equal(t, "https://x.dev/p", got.CanonicalURL)

	assert.Nil(t, NormalizeSEO(decodeJSON(t, `{"title":" ","keywords":""}`)))
	assert.Nil(t, NormalizeSEO("not an object"))
	assert.Nil(t, NormalizeSEO((*SEO)(nil)))
}

func TestNormalizeSections(t *testing.T) {
	got := NormalizeSections(decodeJSON(t, `[{"type":"list","content":["a","  ","b"]}]`))
	assert.Equal(t, []Section{{Type: SectionList, Items: []string{"a", "b"}}}, got)

	got = NormalizeSections(decodeJSON(t, `[{"type":"bogus","content":"x"}]`))
	assert.Equal(t, []Section{}, got)
}

func TestNormalizeSectionsPerType(t *testing.T) {
	raw := decodeJSON(t, `[
		{"type":"heading","content":"  Title  "},
		{"type":"paragraph","content":"   "},
		"not an object",
		{"type":"code","content":"  x := 1\n","language":" go "},
		{"type":"code","content":"  \n "},
		{"type":"image","content":" /uploads/a.png ","alt":" A ","caption":""},
		{"type":"image","content":"","alt":"lost"},
		{"type":"Quote","content":"q"},
		{"type":"callout","content":"c"},
		{"type":"list","content":[" ",""]},
		{"type":"list","content":"single"},
		{"content":"no type"}
	]`)
	got, unknown := NormalizeSectionsReport(raw)
	want := []Section{
		{Type: SectionHeading, Text: "Title"},
		{Type: SectionCode, Text: "  x := 1\n", Language: "go"},
		{Type: SectionImage, Text: "/uploads/a.png", Alt: "A"},
		{Type: SectionQuote, Text: "q"},
		{Type: SectionCallout, Text: "c"},
		{Type: SectionList, Items: []string{"single"}},
	}
	assert.Equal(t, want, got)
	assert.Empty(t, unknown)
}

func TestNormalizeSectionsReportsUnknownTypes(t *testing.T) {
	got, unknown := NormalizeSectionsReport(decodeJSON(t, `[{"type":"video","content":"v"},{"type":"paragraph","content":"p"},{"type":"embed","content":"e"}]`))
	assert.Equal(t, []Section{{Type: SectionParagraph, Text: "p"}}, got)
	assert.Equal(t, []string{"video", "embed"}, unknown)
}

func TestNormalizeSectionsNonList(t *testing.T) {
	assert.Equal(t, []Section{}, NormalizeSections(nil))
	assert.Equal(t, []Section{}, NormalizeSections(map[string]any{"type": "paragraph"}))
}

func TestSectionJSONShape(t *testing.T) {
	b, err := json.Marshal([]Section{
		{Type: SectionList, Items: []string{"a"}},
		{Type: SectionCode, Text: "x", Language: "go"},
		{Type: SectionImage, Text: "/i.png", Caption: "c"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"type":"list","content":["a"]},
		{"type":"code","content":"x","language":"go"},
		{"type":"image","content":"/i.png","caption":"c"}
	]`, string(b))
}

func TestNormalizeCategoryList(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"appends default", []any{"Viajes"}, []string{"Viajes", DefaultCategory}},
		{"first spelling wins", []any{"Go", "GO", " go ", "Rust"}, []string{"Go", "Rust", DefaultCategory}},
		{"default variant kept", []any{"general", "Go"}, []string{"general", "Go"}},
		{"drops blanks", []any{"", "  ", nil, "A"}, []string{"A", DefaultCategory}},
		{"typed list", []string{"B", "b"}, []string{"B", DefaultCategory}},
		{"not a list", "Viajes", []string{DefaultCategory}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCategoryList(tt.in))
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"go", "web"}, NormalizeTags(" go, ,web "))
	assert.Equal(t, []string{"a", "b"}, NormalizeTags([]any{" a", "", "b "}))
	assert.Equal(t, []string{}, NormalizeTags(nil))
}

func TestNormalizePostDefaults(t *testing.T) {
	p := NormalizePost(decodeJSON(t, `{"slug":" hola ","title":" Hola ","sections":[{"type":"paragraph","content":"uno dos tres"}]}`), fixedNow)
	assert.Equal(t, "hola", p.Slug)
	assert.Equal(t, "Hola", p.Title)
	assert.Equal(t, DefaultSummary, p.Summary)
	assert.Equal(t, DefaultCategory, p.Category)
	assert.Equal(t, StatusPublished, p.Status)
	assert.Equal(t, "2024-03-09", p.PublishedAt)
	assert.Equal(t, "1 min", p.ReadingTime)
	assert.Empty(t, p.ScheduledAt)
	assert.Nil(t, p.SEO)
	assert.Equal(t, []string{}, p.Tags)
	assert.False(t, p.Featured)
}

func TestNormalizePostScheduled(t *testing.T) {
	p := NormalizePost(map[string]any{
		"status":      "scheduled",
		"scheduledAt": "2025-01-01T00:00:00Z",
		"publishedAt": "1999-01-01",
	}, fixedNow)
	assert.Equal(t, StatusScheduled, p.Status)
	assert.Equal(t, "2025-01-01T00:00:00.000Z", p.ScheduledAt)
	assert.Equal(t, "2025-01-01", p.PublishedAt)

	p = NormalizePost(map[string]any{"status": "scheduled", "scheduledAt": "garbage"}, fixedNow)
	assert.Empty(t, p.ScheduledAt)

	p = NormalizePost(map[string]any{"status": "draft", "scheduledAt": "2025-01-01"}, fixedNow)
	assert.Empty(t, p.ScheduledAt, "scheduledAt only belongs to scheduled posts")
}

func TestNormalizePostFallbacks(t *testing.T) {
	p := NormalizePost(decodeJSON(t, `{
		"featured":"true",
		"cover":"  ",
		"sections":[{"type":"paragraph","content":"x"},{"type":"image","content":"/uploads/c.jpg"}]
	}`), fixedNow)
	assert.True(t, p.Featured)
	assert.Equal(t, "/uploads/c.jpg", p.Cover)

	p = NormalizePost(map[string]any{"cover": " /mine.png ", "readingTime": " 12 min "}, fixedNow)
	assert.Equal(t, "/mine.png", p.Cover)
	assert.Equal(t, "12 min", p.ReadingTime)
}

func TestNormalizePostIdempotent(t *testing.T) {
	raw := decodeJSON(t, `{
		"id":"p1","slug":"s","title":"T","summary":"","category":"  ",
		"status":"Scheduled","scheduledAt":"2030-05-05T05:05:05+05:00",
		"seo":{"title":" x ","keywords":"a,b"},
		"tags":"t1, t2","contentHtml":"  <p>hi</p> ",
		"sections":[{"type":"list","content":["a"," "]},{"type":"bogus"}]
	}`)
	once := NormalizePost(raw, fixedNow)
	b, err := json.Marshal(once)
	require.NoError(t, err)
	twice := NormalizePost(decodeJSON(t, string(b)), fixedNow.Add(48*time.Hour))
	assert.Equal(t, once, twice)
}

func TestEstimateReadingTime(t *testing.T) {
	words := make([]any, 0, 450)
	for range 450 {
		words = append(words, "palabra")
	}
	p := Post{Sections: []Section{{Type: SectionList, Items: []string{"a b"}}}, ContentHTML: "<p>uno <b>dos</b></p>"}
	assert.Equal(t, "1 min", EstimateReadingTime(p))

	long := Post{Sections: []Section{{Type: SectionList, Items: NormalizeTags(words)}}}
	assert.Equal(t, "3 min", EstimateReadingTime(long))
}

func TestRepair(t *testing.T) {
	body := []Section{{Type: SectionParagraph, Text: "x"}}
	tests := []struct {
		name string
		in   Post
		want Status
	}{
		{"scheduled without date", Post{Status: StatusScheduled, Sections: body}, StatusDraft},
		{"published without content", Post{Status: StatusPublished}, StatusDraft},
		{"scheduled without content", Post{Status: StatusScheduled, ScheduledAt: "2025-01-01T00:00:00.000Z"}, StatusDraft},
		{"valid published", Post{Status: StatusPublished, ContentHTML: "<p>x</p>"}, StatusPublished},
		{"valid scheduled", Post{Status: StatusScheduled, ScheduledAt: "2025-01-01T00:00:00.000Z", Sections: body}, StatusScheduled},
		{"empty draft", Post{Status: StatusDraft}, StatusDraft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Repair().Status)
		})
	}
}

func TestLive(t *testing.T) {
	assert.True(t, Post{Status: StatusPublished}.Live(fixedNow))
	assert.False(t, Post{Status: StatusDraft}.Live(fixedNow))
	assert.True(t, Post{Status: StatusScheduled, ScheduledAt: "2024-03-09T15:00:00.000Z"}.Live(fixedNow))
	assert.False(t, Post{Status: StatusScheduled, ScheduledAt: "2024-03-09T16:00:00.000Z"}.Live(fixedNow))
}

func TestSeedPostsAreCanonical(t *testing.T) {
	seed := SeedPosts(fixedNow)
	require.NotEmpty(t, seed)
	slugs := make(map[string]bool)
	for _, p := range seed {
		assert.Equal(t, p, p.Normalize(fixedNow))
		assert.Equal(t, p, p.Repair())
		assert.False(t, slugs[p.Slug], "duplicate seed slug %q", p.Slug)
		slugs[p.Slug] = true
	}
	assert.False(t, IsLegacySeed(seed))
}

func TestIsLegacySeed(t *testing.T) {
	assert.False(t, IsLegacySeed(nil))
	assert.True(t, IsLegacySeed([]Post{{Title: "Welcome to your new blog"}, {Title: "Writing your first post"}}))
	assert.False(t, IsLegacySeed([]Post{{Title: "Mine"}, {Title: "Welcome to your new blog"}}),
		"a user post next to a legacy title is not the legacy set")
	assert.False(t, IsLegacySeed([]Post{{Title: "welcome to your new blog"}}))
}
