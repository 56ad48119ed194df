package scraper

import (
	"context"
	"fmt"

	"ecbpress/types"

	"github.com/mmcdole/gofeed"
)

// fetchFeed reads the press RSS feed and maps items onto the same RawReport
// stream the HTML listing produces. The raw published text is kept as-is;
// the normalizer owns date interpretation.
func (s *Scraper) fetchFeed(ctx context.Context) ([]types.RawReport, error) {
	parser := gofeed.NewParser()
	if s.cfg.UserAgent != "" {
		parser.UserAgent = s.cfg.UserAgent
	}

	feed, err := parser.ParseURLWithContext(s.cfg.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	count := len(feed.Items)
	if s.cfg.MaxReports > 0 && count > s.cfg.MaxReports {
		count = s.cfg.MaxReports
	}

	reports := make([]types.RawReport, 0, count)
	for _, item := range feed.Items[:count] {
		if item.Title == "" || item.Link == "" {
			continue
		}

		creator := ""
		if item.Author != nil {
			creator = item.Author.Name
		}

		reports = append(reports, types.RawReport{
			Title:        item.Title,
			DateText:     item.Published,
			CreatorText:  creator,
			SourceURL:    item.Link,
			CategoryText: s.categories.Resolve(item.Title, item.Link),
		})
	}

	s.log.WithField("count", len(reports)).Debug("fetched feed entries")
	return reports, nil
}
