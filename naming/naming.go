// Package naming derives collision-safe filenames and assembles the
// fixed-shape metadata record for each publication.
package naming

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"ecbpress/types"
)

const (
	// maxBaseLength caps the filename before the extension.
	maxBaseLength = 250

	// placeholderTitle stands in when sanitization leaves nothing of the
	// title.
	placeholderTitle = "untitled"

	// Extension is appended to every derived filename; the downloaded
	// artifact is always a PDF.
	Extension = ".pdf"
)

// Fixed metadata fields, byte-identical across all records.
const (
	datasetName  = "Central Bank EUR"
	datasetCode  = "CB_EUR_ECB"
	publisher    = "European Central Bank"
	ingestSource = "CB_EUR_ECB_LDR"
	language     = "English"
)

// reservedRun matches a single reserved filename character together with any
// surrounding whitespace, or a bare whitespace run. Each match collapses to
// one underscore.
var reservedRun = regexp.MustCompile(`\s*[;:'"{}^%~#|<>\\\[\]]\s*|\s+`)

// SanitizeTitle replaces reserved filename characters and whitespace runs
// with underscores and trims leading/trailing underscores. Letters, digits,
// and punctuation outside the reserved set pass through untouched. The
// operation is idempotent.
func SanitizeTitle(title string) string {
	s := reservedRun.ReplaceAllString(title, "_")
	return strings.Trim(s, "_")
}

// Builder assembles final filenames and metadata records. The assembly
// instant is injected so the builder never reads the system clock; callers
// supply wall-clock now in the reference zone once per run.
type Builder struct {
	now time.Time
}

// NewBuilder creates a Builder that stamps created_at from the given
// instant.
func NewBuilder(now time.Time) *Builder {
	return &Builder{now: now}
}

// Build derives the final filename for a normalized report and assembles its
// metadata record. The registry is mutated: the report's date+title key is
// claimed, and any later distinct report on the same key receives an
// "_At{N}" suffix.
func (b *Builder) Build(rep types.Report, reg *Registry) (string, types.MetadataRecord) {
	datePart := rep.PublishedAt.Format("2006-01-02")

	title := SanitizeTitle(rep.Title)
	if title == "" {
		title = placeholderTitle
	}
	// Truncate before the registry lookup: collisions are keyed on the name
	// that actually reaches disk, so long titles that differ only past the
	// cap still collide and pick up a suffix.
	title = truncateTitle(title, maxBaseLength-len(datePart)-1)

	suffix := ""
	if n := reg.Claim(datePart, title); n > 0 {
		suffix = fmt.Sprintf("_At%d", n)
	}

	filename := baseName(datePart, title, suffix) + Extension

	record := types.MetadataRecord{
		DatasetName:      datasetName,
		DatasetCode:      datasetCode,
		SourceURI:        rep.SourceURL,
		CreatedAt:        b.now.Format(time.RFC3339),
		Creator:          rep.Creator,
		Publisher:        publisher,
		PublicationDate:  rep.PublishedAt.Format(time.RFC3339),
		PublicationTitle: rep.Title,
		IngestSource:     ingestSource,
		CustomAttributes: types.CustomAttributes{
			Category: rep.Category,
			Language: language,
		},
		RawAttributes: map[string]string{},
	}

	return filename, record
}

// baseName joins the date, title, and collision suffix, shortening only the
// title portion when the suffix pushes the base past maxBaseLength.
func baseName(datePart, title, suffix string) string {
	title = truncateTitle(title, maxBaseLength-len(datePart)-1-len(suffix))
	return datePart + "_" + title + suffix
}

// truncateTitle caps the title at budget bytes. Truncation never splits a
// rune and trailing underscores left by the cut are trimmed.
func truncateTitle(title string, budget int) string {
	if len(title) <= budget {
		return title
	}
	cut := budget
	for cut > 0 && !utf8.RuneStart(title[cut]) {
		cut--
	}
	return strings.TrimRight(title[:cut], "_")
}
