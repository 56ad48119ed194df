// Package download retrieves publication PDFs. HTML-to-PDF conversion of
// non-PDF pages requires a headless browser and is out of scope; such
// publications are reported as ErrNotPDF and skipped.
package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ecbpress/config"

	"github.com/eapache/go-resiliency/retrier"
)

// ErrNotPDF marks a publication whose source URL does not point at a direct
// PDF artifact.
var ErrNotPDF = errors.New("publication is not a direct PDF")

const (
	downloadAttempts = 3
	downloadBackoff  = 2 * time.Second
)

var pdfMagic = []byte("%PDF")

// Downloader fetches PDF artifacts with bounded retries.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// New creates a Downloader from the download and source settings.
func New(dl config.DownloadConfig, userAgent string) *Downloader {
	return &Downloader{
		client:    &http.Client{Timeout: dl.Timeout},
		userAgent: userAgent,
	}
}

// Fetch downloads the PDF at rawURL. URLs without a .pdf path and responses
// that are not PDF payloads yield ErrNotPDF.
func (d *Downloader) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if !strings.HasSuffix(strings.ToLower(u.Path), ".pdf") {
		return nil, ErrNotPDF
	}

	r := retrier.New(retrier.ExponentialBackoff(downloadAttempts, downloadBackoff), nil)

	var body []byte
	err = r.RunCtx(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}
		if d.userAgent != "" {
			req.Header.Set("User-Agent", d.userAgent)
		}

		resp, err := d.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("GET %s: unexpected status %d", rawURL, resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !bytes.HasPrefix(body, pdfMagic) {
		return nil, fmt.Errorf("%w: response is not a PDF payload", ErrNotPDF)
	}
	return body, nil
}
