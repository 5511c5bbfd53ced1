// Package render turns a post into HTML for previews and feeds.
package render

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"

	"github.com/eringen/quill/content"
)

var policy = bluemonday.UGCPolicy()

// Sanitize strips scripts, event handlers and unsafe URLs from user HTML.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}

// Post returns a component rendering p as a standalone article.
func Post(p content.Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writePost(&buf, p)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Body returns a component rendering only the post body: the sections
// followed by the sanitized legacy HTML.
func Body(p content.Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writeBody(&buf, p)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// HTML renders c to a string.
func HTML(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writePost(buf *bytes.Buffer, p content.Post) {
	esc := templ.EscapeString[string]
	buf.WriteString(`<article class="post" data-status="` + esc(string(p.Status)) + `">`)
	buf.WriteString("<header><h1>" + esc(p.Title) + "</h1>")
	buf.WriteString(`<p class="post-summary">` + esc(p.Summary) + "</p>")
	buf.WriteString(`<p class="post-meta"><time datetime="` + esc(p.PublishedAt) + `">` + esc(p.PublishedAt) + "</time>")
	buf.WriteString(` <span class="post-category">` + esc(p.Category) + "</span>")
	if p.ReadingTime != "" {
		buf.WriteString(` <span class="post-reading-time">` + esc(p.ReadingTime) + "</span>")
	}
	if p.Series != "" {
		buf.WriteString(` <span class="post-series">` + esc(p.Series) + "</span>")
	}
	buf.WriteString("</p>")
	if len(p.Tags) > 0 {
		buf.WriteString(`<ul class="post-tags">`)
		for _, tag := range p.Tags {
			buf.WriteString("<li>" + esc(tag) + "</li>")
		}
		buf.WriteString("</ul>")
	}
	buf.WriteString("</header>")
	if src := SafeURL(p.Cover); src != "" && p.Cover != firstImage(p) {
		buf.WriteString(`<img class="post-cover" src="` + src + `" alt="" fetchpriority="high" decoding="async"/>`)
	}
	writeBody(buf, p)
	buf.WriteString("</article>")
}

func writeBody(buf *bytes.Buffer, p content.Post) {
	images := 0
	for _, s := range p.Sections {
		writeSection(buf, s, &images)
	}
	if p.ContentHTML != "" {
		buf.WriteString(`<div class="post-legacy">` + Sanitize(p.ContentHTML) + "</div>")
	}
}

func writeSection(buf *bytes.Buffer, s content.Section, images *int) {
	switch s.Type {
	case content.SectionHeading:
		buf.WriteString("<h2>" + Text(s.Text) + "</h2>")
	case content.SectionParagraph:
		buf.WriteString("<p>" + Text(s.Text) + "</p>")
	case content.SectionQuote:
		buf.WriteString("<blockquote>" + Text(s.Text) + "</blockquote>")
	case content.SectionCallout:
		buf.WriteString(`<aside class="callout">` + Text(s.Text) + "</aside>")
	case content.SectionList:
		buf.WriteString("<ul>")
		for _, item := range s.Items {
			buf.WriteString("<li>" + Text(item) + "</li>")
		}
		buf.WriteString("</ul>")
	case content.SectionCode:
		code := templ.EscapeString(s.Text)
		if s.Language == "" {
			buf.WriteString(`<pre class="code-block"><code>` + code + "</code></pre>")
			return
		}
		lang := templ.EscapeString(s.Language)
		buf.WriteString(`<div class="code-block-wrapper"><span class="code-lang code-lang-` + lang + `">` + lang + "</span>")
		buf.WriteString(`<pre class="code-block"><code class="language-` + lang + `">` + code + "</code></pre></div>")
	case content.SectionImage:
		src := SafeURL(s.Text)
		if src == "" {
			return
		}
		*images++
		load := `loading="lazy"`
		if *images == 1 {
			load = `fetchpriority="high"`
		}
		buf.WriteString("<figure>")
		buf.WriteString(`<img ` + load + ` src="` + src + `" alt="` + templ.EscapeString(s.Alt) + `" decoding="async"/>`)
		if s.Caption != "" {
			buf.WriteString("<figcaption>" + Text(s.Caption) + "</figcaption>")
		}
		buf.WriteString("</figure>")
	}
}

func firstImage(p content.Post) string {
	for _, s := range p.Sections {
		if s.Type == content.SectionImage {
			return s.Text
		}
	}
	return ""
}
