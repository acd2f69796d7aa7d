package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type GetOptions struct {
	MaxSize int
	Timeout time.Duration
	Cache   bool

	// CacheTTL is the freshness lifetime used when the origin sends
	// no Cache-Control max-age.
	CacheTTL time.Duration
}

// A thing capable of downloading a file, optionally with caching.
// Implementations must be safe for concurrent use; a single instance
// is shared across all requests in the process.
type Downloader interface {
	Get(ctx context.Context, url string, headers map[string]string, options GetOptions) ([]byte, error)
}

// Gets a file. Doesn't cache. Provided as convenience for
// implementing custom Downloaders.
func HTTPGet(ctx context.Context, url string, headers map[string]string, options GetOptions) ([]byte, error) {
	result, err := fetch(ctx, url, headers, options)
	if err != nil {
		return nil, err
	}
	return result.Body, nil
}

type fetchResult struct {
	Body        []byte
	ETag        string
	MaxAge      time.Duration
	NotModified bool
}

// fetch performs a GET, honoring a conditional If-None-Match header
// if the caller set one. A 304 response yields NotModified with no
// body.
func fetch(ctx context.Context, url string, headers map[string]string, options GetOptions) (*fetchResult, error) {
	client := &http.Client{
		Timeout: options.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, v := range headers {
		req.Header.Add(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return &fetchResult{
			NotModified: true,
			ETag:        resp.Header.Get("ETag"),
			MaxAge:      maxAge(resp.Header.Get("Cache-Control")),
		}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var reader io.Reader = resp.Body
	if options.MaxSize > 0 {
		reader = io.LimitReader(resp.Body, int64(options.MaxSize))
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return &fetchResult{
		Body:   body,
		ETag:   resp.Header.Get("ETag"),
		MaxAge: maxAge(resp.Header.Get("Cache-Control")),
	}, nil
}

// maxAge extracts the max-age freshness lifetime from a Cache-Control
// header. Returns 0 if absent, malformed, or overridden by
// no-store/no-cache.
func maxAge(cacheControl string) time.Duration {
	age := time.Duration(0)
	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(strings.ToLower(directive))
		if directive == "no-store" || directive == "no-cache" {
			return 0
		}
		if value, found := strings.CutPrefix(directive, "max-age="); found {
			secs, err := strconv.ParseInt(value, 10, 64)
			if err != nil || secs < 0 {
				continue
			}
			age = time.Duration(secs) * time.Second
		}
	}
	return age
}
