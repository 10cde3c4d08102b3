package camerafy

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// FetchResult holds a downloaded image.
type FetchResult struct {
	Data     []byte
	MIMEType string
}

// Fetch downloads the image at url for inspection.
// Returns nil (not an error) on recoverable failures: non-200 status,
// non-image content type, empty body.
func (cfg *Config) Fetch(ctx context.Context, url string) (*FetchResult, error) {
	c := cfg.withDefaults()

	ctx, cancel := context.WithTimeout(ctx, c.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req) //nolint:gosec // G107: URL is supplied by the CLI user
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	ct := resp.Header.Get("Content-Type")
	// Strip MIME parameters: "image/jpeg; charset=utf-8" → "image/jpeg"
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if !strings.HasPrefix(ct, "image/") {
		return nil, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.MaxUploadBytes))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	return &FetchResult{Data: data, MIMEType: ct}, nil
}
