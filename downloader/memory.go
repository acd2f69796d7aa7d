package downloader

import (
	"context"
	"sync"
	"time"
)

// Caches downloaded files in memory, with ETag revalidation once an
// entry goes stale.
type Memory struct {
	mutex sync.Mutex
	cache map[string]memoryCacheEntry

	TimeNow func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		cache:   make(map[string]memoryCacheEntry),
		TimeNow: time.Now,
	}
}

type memoryCacheEntry struct {
	data       []byte
	etag       string
	expiration time.Time
}

func (d *Memory) Get(
	ctx context.Context,
	url string,
	headers map[string]string,
	options GetOptions,
) ([]byte, error) {
	if !options.Cache {
		return HTTPGet(ctx, url, headers, options)
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	entry, cached := d.cache[url]
	if cached && entry.expiration.After(d.TimeNow()) {
		return entry.data, nil
	}

	// Stale or missing. Revalidate with If-None-Match when the
	// origin gave us an ETag.
	conditional := map[string]string{}
	for k, v := range headers {
		conditional[k] = v
	}
	if cached && entry.etag != "" {
		conditional["If-None-Match"] = entry.etag
	}

	result, err := fetch(ctx, url, conditional, options)
	if err != nil {
		return nil, err
	}

	if result.NotModified && cached {
		entry.expiration = d.TimeNow().Add(ttl(result, options))
		if result.ETag != "" {
			entry.etag = result.ETag
		}
		d.cache[url] = entry
		return entry.data, nil
	}

	d.cache[url] = memoryCacheEntry{
		data:       result.Body,
		etag:       result.ETag,
		expiration: d.TimeNow().Add(ttl(result, options)),
	}

	return result.Body, nil
}
