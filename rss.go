package quill

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/quill/content"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        rssGUID  `xml:"guid"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// pubDate formats a post date for RSS. Scheduled posts carry the exact
// release time; others only a day.
func pubDate(p content.Post) string {
	if t, err := time.Parse(time.RFC3339Nano, p.ScheduledAt); err == nil {
		return t.UTC().Format(time.RFC1123Z)
	}
	if t, err := time.Parse("2006-01-02", p.PublishedAt); err == nil {
		return t.Format(time.RFC1123Z)
	}
	return ""
}

func (a *App) renderRSS(c echo.Context, posts []content.Post) error {
	base := a.Config.SiteURL
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		cats := append([]string{p.Category}, p.Tags...)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        PostURL(base, p),
			Description: p.Summary,
			Categories:  cats,
			PubDate:     pubDate(p),
			GUID:        rssGUID{Value: p.ID},
		})
	}
	description := a.Config.SiteDescription
	if description == "" {
		if profile, err := a.Store.ReadProfile(c.Request().Context()); err == nil {
			description = profile.Description
		}
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.SiteName,
			Link:        BuildURL(base),
			Description: description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
