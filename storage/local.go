// Package storage persists downloaded publications: a local downloads
// directory writer plus an optional S3 uploader for deployments that mirror
// artifacts to a bucket.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ecbpress/types"
)

// Local writes PDFs and their JSON metadata sidecars into one directory.
type Local struct {
	dir string
}

// NewLocal ensures dir exists and returns a writer for it.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Dir returns the output directory path.
func (l *Local) Dir() string {
	return l.dir
}

// WritePDF stores the artifact under its derived filename.
func (l *Local) WritePDF(filename string, data []byte) error {
	path, err := l.path(filename)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WriteMetadata stores the record as an indented JSON sidecar sharing the
// PDF's base name, and returns the sidecar filename.
func (l *Local) WriteMetadata(pdfFilename string, record types.MetadataRecord) (string, error) {
	name := MetadataFilename(pdfFilename)
	path, err := l.path(name)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return name, nil
}

// path resolves a filename inside the output directory. Filenames carrying
// path separators would escape into subdirectories, so they are rejected.
func (l *Local) path(filename string) (string, error) {
	if strings.ContainsAny(filename, `/\`) {
		return "", fmt.Errorf("filename %q contains a path separator", filename)
	}
	return filepath.Join(l.dir, filename), nil
}

// MetadataFilename maps a PDF filename to its sidecar name.
func MetadataFilename(pdfFilename string) string {
	return strings.TrimSuffix(pdfFilename, filepath.Ext(pdfFilename)) + ".json"
}
