// Package scraper discovers publications on the ECB website and turns each
// listing entry into a RawReport for the normalization engine.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"ecbpress/category"
	"ecbpress/config"
	"ecbpress/types"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

const siteBase = "https://www.ecb.europa.eu"

// Scraper fetches the publications listing and resolves each entry's
// category through the injected taxonomy mapper.
type Scraper struct {
	cfg        config.SourceConfig
	client     *http.Client
	categories *category.Mapper
	log        *logrus.Entry
}

// New creates a Scraper. A nil mapper falls back to the default taxonomy.
func New(cfg config.SourceConfig, mapper *category.Mapper, log *logrus.Entry) *Scraper {
	if mapper == nil {
		mapper = category.Default()
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Scraper{
		cfg:        cfg,
		client:     &http.Client{Timeout: cfg.Timeout},
		categories: mapper,
		log:        log,
	}
}

// Fetch discovers publications from the configured source. The HTML mode
// walks the publications-by-date listing; the RSS mode reads the press feed.
func (s *Scraper) Fetch(ctx context.Context) ([]types.RawReport, error) {
	switch s.cfg.Mode {
	case config.ModeRSS:
		return s.fetchFeed(ctx)
	case config.ModeHTML, "":
		body, err := s.get(ctx, s.cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("fetch listing: %w", err)
		}
		return s.ParseListing(body)
	default:
		return nil, fmt.Errorf("unknown source mode %q", s.cfg.Mode)
	}
}

// ParseListing extracts publications from the listing HTML. Entries live as
// dt/dd pairs inside div.dl-wrapper: the dt carries the date text, the dd the
// publication links. Links nested in accordion blocks are navigation chrome
// and are skipped.
func (s *Scraper) ParseListing(html []byte) ([]types.RawReport, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	wrapper := doc.Find("div.dl-wrapper")
	if wrapper.Length() == 0 {
		return nil, fmt.Errorf("no dl-wrapper found in listing page")
	}

	var reports []types.RawReport
	wrapper.Find("dl").EachWithBreak(func(_ int, dl *goquery.Selection) bool {
		dts := dl.Find("dt")
		dds := dl.Find("dd")

		dts.EachWithBreak(func(i int, dt *goquery.Selection) bool {
			dateText := strings.TrimSpace(dt.Text())
			dd := dds.Eq(i)
			if dd.Length() == 0 {
				return true
			}

			dd.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
				if s.cfg.MaxReports > 0 && len(reports) >= s.cfg.MaxReports {
					return false
				}
				if a.Closest("div.accordion").Length() > 0 {
					return true
				}

				title := strings.TrimSpace(a.Text())
				href, _ := a.Attr("href")
				if title == "" || href == "" {
					return true
				}
				url := absoluteURL(href)

				reports = append(reports, types.RawReport{
					// Pipes collide with downstream field separators.
					Title:        strings.ReplaceAll(title, "|", "-"),
					DateText:     dateText,
					SourceURL:    url,
					CategoryText: s.categories.Resolve(title, url),
				})
				return true
			})
			return s.cfg.MaxReports <= 0 || len(reports) < s.cfg.MaxReports
		})
		return s.cfg.MaxReports <= 0 || len(reports) < s.cfg.MaxReports
	})

	s.log.WithField("count", len(reports)).Debug("parsed listing entries")
	return reports, nil
}

func absoluteURL(href string) string {
	if strings.HasPrefix(href, "/") {
		return siteBase + href
	}
	return href
}
