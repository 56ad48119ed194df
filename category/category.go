// Package category resolves raw website text into publication taxonomy
// values. The mapping is injected data, not embedded logic: deployments can
// override the rule table from configuration without touching the engine.
package category

import "strings"

// Rule maps a lowercase substring probe against the title or URL to a
// resolved category. Exactly one of TitleContains/URLContains should be set.
type Rule struct {
	TitleContains string `yaml:"title_contains,omitempty"`
	URLContains   string `yaml:"url_contains,omitempty"`
	Category      string `yaml:"category"`
}

// Mapper applies an ordered rule table; the first matching rule wins.
type Mapper struct {
	rules    []Rule
	fallback string
}

// New builds a Mapper from an explicit rule table. Empty inputs fall back to
// the default ECB taxonomy.
func New(rules []Rule, fallback string) *Mapper {
	if len(rules) == 0 {
		return Default()
	}
	if fallback == "" {
		fallback = "Report"
	}
	return &Mapper{rules: rules, fallback: fallback}
}

// Default returns the built-in ECB publication taxonomy.
func Default() *Mapper {
	return &Mapper{
		fallback: "Report",
		rules: []Rule{
			{TitleContains: "monetary policy", Category: "Monetary policy statement"},
			{URLContains: "/mopo/", Category: "Monetary policy statement"},
			{TitleContains: "economic bulletin", Category: "Economic Bulletin"},
			{TitleContains: "financial stability", Category: "Financial Stability Review"},
			{URLContains: "speech", Category: "Speech"},
			{URLContains: "/key/", Category: "Speech"},
			{URLContains: "interview", Category: "Interview"},
			{URLContains: "blog", Category: "Blog"},
			{TitleContains: "statistics", Category: "Statistical release"},
			{URLContains: "/stats/", Category: "Statistical release"},
			{URLContains: "press", Category: "Press release"},
			{URLContains: "/pr/", Category: "Press release"},
		},
	}
}

// Resolve maps a publication's title and URL to its category. Matching is
// case-insensitive; unmatched publications get the fallback category.
func (m *Mapper) Resolve(title, url string) string {
	t := strings.ToLower(title)
	u := strings.ToLower(url)
	for _, r := range m.rules {
		if r.TitleContains != "" && strings.Contains(t, r.TitleContains) {
			return r.Category
		}
		if r.URLContains != "" && strings.Contains(u, r.URLContains) {
			return r.Category
		}
	}
	return m.fallback
}
