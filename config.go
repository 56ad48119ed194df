package main

// Default source settings
const (
	DefaultSourcePreset = "press"
)

// SourcePresets maps friendly names to publication listing URLs
var SourcePresets = map[string]string{
	"press": "https://www.ecb.europa.eu/press/pubbydate/html/index.en.html?name_of_publication=Press%20release",
	"all":   "https://www.ecb.europa.eu/press/pubbydate/html/index.en.html",
	"rss":   "https://www.ecb.europa.eu/rss/press.html",
}

// ResolveSourceURL resolves a source identifier to a URL
// If the input is a preset name, returns the corresponding URL
// Otherwise, returns the input as-is (assuming it's a direct URL)
func ResolveSourceURL(sourceInput string) string {
	if url, exists := SourcePresets[sourceInput]; exists {
		return url
	}
	return sourceInput
}
