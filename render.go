package quill

import (
	"context"
	"html"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/quill/content"
	"github.com/eringen/quill/render"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// previewPage wraps the rendered post in a minimal standalone document.
func previewPage(p content.Post, cfg Config, lang string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := p.Title
		description := p.Summary
		if p.SEO != nil {
			if p.SEO.Title != "" {
				title = p.SEO.Title
			}
			if p.SEO.Description != "" {
				description = p.SEO.Description
			}
		}
		head := `<!doctype html><html lang="` + html.EscapeString(lang) + `"><head><meta charset="utf-8">` +
			`<meta name="viewport" content="width=device-width, initial-scale=1">` +
			`<meta name="robots" content="noindex">` +
			`<title>` + html.EscapeString(title) + ` · ` + html.EscapeString(cfg.SiteName) + `</title>` +
			`<meta name="description" content="` + html.EscapeString(description) + `">` +
			`<script type="application/ld+json">` + BlogPostingJSONLD(p, cfg) + `</script>` +
			`</head><body>`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if err := render.Post(p).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}
