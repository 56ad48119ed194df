package naming

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"ecbpress/types"
)

var edt = time.FixedZone("EDT", -4*60*60)

func testReport(title, url string) types.Report {
	return types.Report{
		Title:       title,
		PublishedAt: time.Date(2025, 7, 24, 9, 0, 0, 0, edt),
		SourceURL:   url,
		Category:    "Press release",
	}
}

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"plain words", "Monetary policy statement", "Monetary_policy_statement"},
		{"reserved characters", `Q&A: "Rates" {2025}`, "Q&A__Rates__2025"},
		{"kept punctuation", "Growth (euro area), 2.4%-ish!", "Growth_(euro_area),_2.4_-ish!"},
		{"surrounding whitespace", "  spaced  out  ", "spaced_out"},
		{"backslash and brackets", `a\b[c]d`, "a_b_c_d"},
		{"reserved only", `;:'"#`, ""},
		{"empty", "", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := SanitizeTitle(c.title)
			if got != c.want {
				t.Fatalf("SanitizeTitle(%q) = %q; want %q", c.title, got, c.want)
			}
			if again := SanitizeTitle(got); again != got {
				t.Fatalf("SanitizeTitle not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestBuildFilename(t *testing.T) {
	b := NewBuilder(time.Date(2025, 7, 25, 10, 30, 0, 0, edt))
	reg := NewRegistry()

	filename, _ := b.Build(testReport("Monetary policy statement", "https://www.ecb.europa.eu/press/pr/a.pdf"), reg)
	if filename != "2025-07-24_Monetary_policy_statement.pdf" {
		t.Fatalf("filename = %q; want %q", filename, "2025-07-24_Monetary_policy_statement.pdf")
	}
}

func TestBuildCollisionSuffixes(t *testing.T) {
	b := NewBuilder(time.Date(2025, 7, 25, 10, 30, 0, 0, edt))
	reg := NewRegistry()

	urls := []string{
		"https://www.ecb.europa.eu/press/pr/a.pdf",
		"https://www.ecb.europa.eu/press/pr/b.pdf",
		"https://www.ecb.europa.eu/press/pr/c.pdf",
	}
	want := []string{
		"2025-07-24_Monetary_policy_statement.pdf",
		"2025-07-24_Monetary_policy_statement_At1.pdf",
		"2025-07-24_Monetary_policy_statement_At2.pdf",
	}

	var records []types.MetadataRecord
	for i, url := range urls {
		filename, record := b.Build(testReport("Monetary policy statement", url), reg)
		if filename != want[i] {
			t.Fatalf("report %d filename = %q; want %q", i, filename, want[i])
		}
		records = append(records, record)
	}

	// Records differ only in source_uri.
	for i := 1; i < len(records); i++ {
		if records[i].SourceURI == records[0].SourceURI {
			t.Errorf("record %d source_uri not distinct", i)
		}
		r0, ri := records[0], records[i]
		r0.SourceURI, ri.SourceURI = "", ""
		j0, _ := json.Marshal(r0)
		ji, _ := json.Marshal(ri)
		if string(j0) != string(ji) {
			t.Errorf("record %d differs beyond source_uri:\n%s\n%s", i, j0, ji)
		}
	}

	if reg.Len() != 1 {
		t.Errorf("registry keys = %d; want 1", reg.Len())
	}
}

func TestBuildDistinctTitlesNoSuffix(t *testing.T) {
	b := NewBuilder(time.Now().In(edt))
	reg := NewRegistry()

	f1, _ := b.Build(testReport("Statement one", "https://example.com/1.pdf"), reg)
	f2, _ := b.Build(testReport("Statement two", "https://example.com/2.pdf"), reg)
	if strings.Contains(f1, "_At") || strings.Contains(f2, "_At") {
		t.Fatalf("distinct titles must not get collision suffixes: %q, %q", f1, f2)
	}
}

func TestBuildDegenerateTitle(t *testing.T) {
	b := NewBuilder(time.Now().In(edt))
	reg := NewRegistry()

	filename, _ := b.Build(testReport(`;:'"#`, "https://example.com/x.pdf"), reg)
	if filename != "2025-07-24_untitled.pdf" {
		t.Fatalf("filename = %q; want %q", filename, "2025-07-24_untitled.pdf")
	}
}

func TestBuildLengthInvariant(t *testing.T) {
	b := NewBuilder(time.Now().In(edt))
	reg := NewRegistry()

	long := strings.Repeat("a", 300) + "   " + strings.Repeat("b", 100)
	for i := 0; i < 3; i++ {
		url := "https://example.com/" + strings.Repeat("x", i+1) + ".pdf"
		filename, _ := b.Build(testReport(long, url), reg)
		base := strings.TrimSuffix(filename, Extension)
		if len(base) > 250 {
			t.Fatalf("report %d base length = %d; want <= 250", i, len(base))
		}
		if !strings.HasPrefix(base, "2025-07-24_") {
			t.Fatalf("truncation must never touch the date part: %q", base)
		}
		if strings.HasSuffix(base, "_") {
			t.Fatalf("truncation left a trailing underscore: %q", base)
		}
	}
}

func TestBuildTruncationTrimsTrailingUnderscores(t *testing.T) {
	b := NewBuilder(time.Now().In(edt))
	reg := NewRegistry()

	// Underscores right at the cut point must be trimmed, not kept.
	title := strings.Repeat("a", 238) + " " + strings.Repeat("b", 50)
	filename, _ := b.Build(testReport(title, "https://example.com/t.pdf"), reg)
	base := strings.TrimSuffix(filename, Extension)
	if len(base) > 250 {
		t.Fatalf("base length = %d; want <= 250", len(base))
	}
	if strings.HasSuffix(base, "_") {
		t.Fatalf("trailing underscore survived truncation: %q", base)
	}
}

func TestBuildLongTitlesCollideAfterTruncation(t *testing.T) {
	b := NewBuilder(time.Now().In(edt))
	reg := NewRegistry()

	// Titles that differ only past the length cap truncate to the same base
	// name, so the second must pick up a suffix rather than silently
	// overwriting the first on disk.
	t1 := strings.Repeat("a", 260)
	t2 := strings.Repeat("a", 259) + "b"

	f1, _ := b.Build(testReport(t1, "https://example.com/1.pdf"), reg)
	f2, _ := b.Build(testReport(t2, "https://example.com/2.pdf"), reg)

	if f1 != "2025-07-24_"+strings.Repeat("a", 239)+Extension {
		t.Fatalf("first filename = %q", f1)
	}
	if f2 != "2025-07-24_"+strings.Repeat("a", 235)+"_At1"+Extension {
		t.Fatalf("second filename = %q; want _At1 suffix", f2)
	}
	if f1 == f2 {
		t.Fatalf("distinct reports produced the same filename %q", f1)
	}
}

func TestBuildRecordFields(t *testing.T) {
	now := time.Date(2025, 7, 25, 10, 30, 0, 0, edt)
	b := NewBuilder(now)
	reg := NewRegistry()

	rep := testReport("Monetary policy statement", "https://www.ecb.europa.eu/press/pr/a.pdf")
	_, record := b.Build(rep, reg)

	if record.DatasetName != "Central Bank EUR" {
		t.Errorf("dataset_name = %q", record.DatasetName)
	}
	if record.DatasetCode != "CB_EUR_ECB" {
		t.Errorf("dataset_code = %q", record.DatasetCode)
	}
	if record.Publisher != "European Central Bank" {
		t.Errorf("publisher = %q", record.Publisher)
	}
	if record.IngestSource != "CB_EUR_ECB_LDR" {
		t.Errorf("ingest_source = %q", record.IngestSource)
	}
	if record.SourceURI != rep.SourceURL {
		t.Errorf("source_uri = %q; want %q", record.SourceURI, rep.SourceURL)
	}
	if record.Creator != "" {
		t.Errorf("creator = %q; want empty string", record.Creator)
	}
	if record.PublicationDate != "2025-07-24T09:00:00-04:00" {
		t.Errorf("publication_date = %q", record.PublicationDate)
	}
	if record.PublicationTitle != "Monetary policy statement" {
		t.Errorf("publication_title = %q; want display-fidelity title", record.PublicationTitle)
	}
	if record.CreatedAt != now.Format(time.RFC3339) {
		t.Errorf("created_at = %q; want injected instant %q", record.CreatedAt, now.Format(time.RFC3339))
	}

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	if !strings.Contains(string(data), `"custom_attributes":{"category":"Press release","language":"English"}`) {
		t.Errorf("custom_attributes malformed: %s", data)
	}
	if !strings.Contains(string(data), `"raw_attributes":{}`) {
		t.Errorf("raw_attributes must serialize as an empty object: %s", data)
	}
}

func TestRegistryClaim(t *testing.T) {
	reg := NewRegistry()

	if n := reg.Claim("2025-07-24", "a"); n != 0 {
		t.Fatalf("first claim = %d; want 0", n)
	}
	if n := reg.Claim("2025-07-24", "a"); n != 1 {
		t.Fatalf("second claim = %d; want 1", n)
	}
	if n := reg.Claim("2025-07-24", "a"); n != 2 {
		t.Fatalf("third claim = %d; want 2", n)
	}
	// Same title on another date is a separate key.
	if n := reg.Claim("2025-07-25", "a"); n != 0 {
		t.Fatalf("new date claim = %d; want 0", n)
	}
	if reg.Len() != 2 {
		t.Fatalf("Len = %d; want 2", reg.Len())
	}
}
