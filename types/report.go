package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// RawReport is a single publication as discovered on the website, before any
// normalization. Fields carry the raw listing text verbatim.
type RawReport struct {
	Title        string `json:"title"`
	DateText     string `json:"publication_date_text"`
	CreatorText  string `json:"creator_text,omitempty"`
	SourceURL    string `json:"source_url"`
	CategoryText string `json:"category_text"`
}

// Report is the normalized form of a RawReport. PublishedAt always carries a
// concrete time-of-day and UTC offset, never a bare date.
type Report struct {
	Title       string
	PublishedAt time.Time
	Creator     string // empty when the source names no speaker
	SourceURL   string
	Category    string
}

// CustomAttributes holds the per-publication extension fields of a
// MetadataRecord.
type CustomAttributes struct {
	Category string `json:"category"`
	Language string `json:"language"`
}

// MetadataRecord is the JSON sidecar emitted next to each downloaded PDF.
// Field names, nesting, and declaration order are part of the downstream
// ingestion contract; RawAttributes must serialize as an empty object, never
// null or omitted.
type MetadataRecord struct {
	DatasetName      string            `json:"dataset_name"`
	DatasetCode      string            `json:"dataset_code"`
	SourceURI        string            `json:"source_uri"`
	CreatedAt        string            `json:"created_at"`
	Creator          string            `json:"creator"`
	Publisher        string            `json:"publisher"`
	PublicationDate  string            `json:"publication_date"`
	PublicationTitle string            `json:"publication_title"`
	IngestSource     string            `json:"ingest_source"`
	CustomAttributes CustomAttributes  `json:"custom_attributes"`
	RawAttributes    map[string]string `json:"raw_attributes"`
}

// GenerateID creates a short, stable ID by hashing the provided string input
func GenerateID(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}
