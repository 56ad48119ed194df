// Package normalize turns raw website listing fields into typed publication
// values. Parsing is pure: the only failure mode is a date text that cannot
// be resolved to a calendar date.
package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone rules must resolve even in scratch containers

	"ecbpress/types"

	"github.com/araddon/dateparse"
)

// ErrMalformedDate marks a publication date text that could not be parsed.
// Callers skip the offending report; it is never fatal to the run.
var ErrMalformedDate = errors.New("malformed publication date")

// defaultHour is the time-of-day assumed when the listing gives a bare date.
const defaultHour = 9

var referenceZone = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic(fmt.Sprintf("load reference zone: %v", err))
	}
	return loc
}()

// ReferenceZone returns the fixed civil zone used to default missing
// times-of-day and to stamp ingestion instants.
func ReferenceZone() *time.Location {
	return referenceZone
}

// Listing layouts seen on the site: "24 July 2025" style dates, ISO dates,
// and the occasional date with a clock. Tried in order before falling back
// to flexible parsing.
var dateOnlyLayouts = []string{
	"2 January 2006",
	"January 2, 2006",
	"2006-01-02",
}

var dateTimeLayouts = []string{
	"2 January 2006 15:04",
	"2 January 2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Normalize converts a RawReport into a Report. The title and creator are
// carried verbatim (filename sanitization happens downstream, so the record
// keeps display fidelity); the category arrives already resolved by the
// taxonomy collaborator. A date text that cannot be parsed yields
// ErrMalformedDate.
func Normalize(raw types.RawReport) (types.Report, error) {
	published, err := parsePublicationDate(raw.DateText)
	if err != nil {
		return types.Report{}, err
	}
	return types.Report{
		Title:       raw.Title,
		PublishedAt: published,
		Creator:     raw.CreatorText,
		SourceURL:   raw.SourceURL,
		Category:    raw.CategoryText,
	}, nil
}

// parsePublicationDate resolves a listing date text to an instant in the
// reference zone. Bare dates default to 09:00:00 with the zone's seasonal
// offset computed from the date itself.
func parsePublicationDate(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, fmt.Errorf("%w: empty date text", ErrMalformedDate)
	}

	for _, layout := range dateOnlyLayouts {
		if t, err := time.ParseInLocation(layout, text, referenceZone); err == nil {
			return atDefaultTime(t), nil
		}
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, text, referenceZone); err == nil {
			return t, nil
		}
	}

	t, err := dateparse.ParseIn(text, referenceZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, text)
	}
	// A midnight clock with no colon in the text means the parser saw a bare
	// date. A nonzero clock is a real time of day even without a colon
	// (epoch timestamps); an explicit "00:00" still carries the colon.
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && !strings.Contains(text, ":") {
		t = atDefaultTime(t)
	}
	return t, nil
}

func atDefaultTime(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), defaultHour, 0, 0, 0, referenceZone)
}
