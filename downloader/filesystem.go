package downloader

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Filesystem caches downloads in a JSON file so the cache survives
// restarts. Same revalidation behavior as Memory.
type Filesystem struct {
	Path    string
	Records map[string]fsRecord

	mutex sync.Mutex
}

type fsRecord struct {
	Body      string `json:"body"`
	ETag      string `json:"etag,omitempty"`
	ExpiresAt string `json:"expires_at"`
}

func NewFilesystem(path string) (*Filesystem, error) {
	fs := &Filesystem{
		Path:    path,
		Records: map[string]fsRecord{},
	}

	err := fs.load()
	if err != nil {
		return nil, err
	}

	return fs, nil
}

func (f *Filesystem) Get(
	ctx context.Context,
	url string,
	headers map[string]string,
	options GetOptions,
) ([]byte, error) {
	if !options.Cache {
		return HTTPGet(ctx, url, headers, options)
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	record, cached := f.Records[url]
	if cached {
		expiresAt, err := time.Parse(time.RFC3339, record.ExpiresAt)
		if err == nil && expiresAt.After(time.Now()) {
			body, err := base64.StdEncoding.DecodeString(record.Body)
			if err != nil {
				return nil, fmt.Errorf("decoding: %w", err)
			}
			return body, nil
		}
	}

	conditional := map[string]string{}
	for k, v := range headers {
		conditional[k] = v
	}
	if cached && record.ETag != "" {
		conditional["If-None-Match"] = record.ETag
	}

	result, err := fetch(ctx, url, conditional, options)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}

	if result.NotModified && cached {
		record.ExpiresAt = time.Now().UTC().Add(ttl(result, options)).Format(time.RFC3339)
		if result.ETag != "" {
			record.ETag = result.ETag
		}
		f.Records[url] = record
		if err := f.save(); err != nil {
			return nil, fmt.Errorf("saving: %w", err)
		}
		return base64.StdEncoding.DecodeString(record.Body)
	}

	f.Records[url] = fsRecord{
		Body:      base64.StdEncoding.EncodeToString(result.Body),
		ETag:      result.ETag,
		ExpiresAt: time.Now().UTC().Add(ttl(result, options)).Format(time.RFC3339),
	}
	if err := f.save(); err != nil {
		return nil, fmt.Errorf("saving: %w", err)
	}

	return result.Body, nil
}

func ttl(result *fetchResult, options GetOptions) time.Duration {
	if result.MaxAge > 0 {
		return result.MaxAge
	}
	return options.CacheTTL
}

func (f *Filesystem) load() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	_, err := os.Stat(f.Path)
	if os.IsNotExist(err) {
		return nil
	}

	buf, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("reading: %w", err)
	}

	err = json.Unmarshal(buf, &f.Records)
	if err != nil {
		return fmt.Errorf("unmarshalling: %w", err)
	}

	return nil
}

func (f *Filesystem) save() error {
	buf, err := json.Marshal(f.Records)
	if err != nil {
		return fmt.Errorf("marshalling: %w", err)
	}

	err = os.WriteFile(f.Path, buf, 0644)
	if err != nil {
		return fmt.Errorf("writing: %w", err)
	}

	return nil
}
