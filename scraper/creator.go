package scraper

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// CreatorFor fetches the publication page and extracts the speaker name, if
// any. Speeches and interviews carry it in the author-details block; other
// pages fall back to readability's byline heuristic. Best-effort: any
// failure yields an empty creator, never an error.
func (s *Scraper) CreatorFor(ctx context.Context, pageURL string) string {
	body, err := s.get(ctx, pageURL)
	if err != nil {
		s.log.WithField("url", pageURL).WithError(err).Debug("creator page fetch failed")
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err == nil {
		name := strings.TrimSpace(doc.Find("div.author-details div.name").First().Text())
		if name != "" {
			return name
		}
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.Byline)
}
