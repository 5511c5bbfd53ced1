package render

import (
	"context"
	"strings"
	"testing"

	"github.com/eringen/quill/content"
)

func TestText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"**not bold** & `not code`", "**not bold** &amp; `not code`"},
		{`say "hi"`, "say &#34;hi&#34;"},
		{"one\ntwo", "one<br/>two"},
		{"one\r\ntwo", "one<br/>two"},
	}
	for _, tt := range tests {
		if got := Text(tt.input); got != tt.expected {
			t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/uploads/a.png", "/uploads/a.png"},
		{"https://x.dev/?a=1&b=2", "https://x.dev/?a=1&amp;b=2"},
		{"mailto:me@x.dev", "mailto:me@x.dev"},
		{"javascript:alert(1)", ""},
		{"data:image/png;base64,AAAA", ""},
		{"relative/path", "relative/path"},
		{"#top", "#top"},
		{"//evil.example/a.png", ""},
		{" JavaScript:alert(1)", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestPostRendersEverySection(t *testing.T) {
	p := content.Post{
		Title:       "Hola <mundo>",
		Summary:     "Resumen",
		Category:    "Guías",
		Status:      content.StatusPublished,
		PublishedAt: "2025-01-01",
		ReadingTime: "1 min",
		Tags:        []string{"go"},
		Sections: []content.Section{
			{Type: content.SectionHeading, Text: "Intro"},
			{Type: content.SectionParagraph, Text: "Un **texto**\nsegunda"},
			{Type: content.SectionList, Items: []string{"uno", "dos"}},
			{Type: content.SectionCode, Text: "if a < b {}", Language: "go"},
			{Type: content.SectionQuote, Text: "cita"},
			{Type: content.SectionCallout, Text: "aviso"},
			{Type: content.SectionImage, Text: "/uploads/a.png", Alt: "A", Caption: "pie"},
		},
		Cover: "/uploads/a.png",
	}
	got, err := HTML(context.Background(), Post(p))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"<h1>Hola &lt;mundo&gt;</h1>",
		"<h2>Intro</h2>",
		"<p>Un **texto**<br/>segunda</p>",
		"<ul><li>uno</li><li>dos</li></ul>",
		`<code class="language-go">if a &lt; b {}</code>`,
		"<blockquote>cita</blockquote>",
		`<aside class="callout">aviso</aside>`,
		`src="/uploads/a.png" alt="A"`,
		"<figcaption>pie</figcaption>",
		`<time datetime="2025-01-01">`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered post missing %q\n%s", want, got)
		}
	}
	if strings.Contains(got, "post-cover") {
		t.Errorf("cover equal to the first image should not render twice")
	}
}

func TestBodySanitizesLegacyHTML(t *testing.T) {
	p := content.Post{ContentHTML: `<p onclick="x()">hola</p><script>alert(1)</script><a href="javascript:x">l</a>`}
	got, err := HTML(context.Background(), Body(p))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(got, "<p>hola</p>") {
		t.Errorf("expected paragraph to survive, got %q", got)
	}
	for _, bad := range []string{"<script", "onclick", "javascript:"} {
		if strings.Contains(got, bad) {
			t.Errorf("sanitized body still contains %q: %q", bad, got)
		}
	}
}
