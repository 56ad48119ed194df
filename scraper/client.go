package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eapache/go-resiliency/retrier"
)

const (
	fetchAttempts = 3
	fetchBackoff  = 2 * time.Second
)

// get performs a GET with the configured user agent, retrying transient
// failures with exponential backoff.
func (s *Scraper) get(ctx context.Context, url string) ([]byte, error) {
	r := retrier.New(retrier.ExponentialBackoff(fetchAttempts, fetchBackoff), nil)

	var body []byte
	err := r.RunCtx(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if s.cfg.UserAgent != "" {
			req.Header.Set("User-Agent", s.cfg.UserAgent)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
