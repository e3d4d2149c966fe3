package texture

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// DefaultFetchTimeout bounds every individual fetch attempt. A hung
// transport releases its flight instead of pinning it forever.
const DefaultFetchTimeout = 15 * time.Second

// Fetcher resolves an asset key to raw encoded image bytes.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, key string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, key string) ([]byte, error) {
	return f(ctx, key)
}

// HTTPFetcher resolves keys against a base URL.
type HTTPFetcher struct {
	base   string
	client *http.Client
}

func NewHTTPFetcher(base string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPFetcher{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	u, err := url.JoinPath(f.base, key)
	if err != nil {
		return nil, fmt.Errorf("texture: bad key %q: %w", key, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("texture: fetch %s: status %d", key, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// DirFetcher resolves keys under a local asset directory.
type DirFetcher struct {
	dir string
}

func NewDirFetcher(dir string) *DirFetcher {
	return &DirFetcher{dir: dir}
}

func (f *DirFetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(f.dir, filepath.Clean("/"+key))
	return os.ReadFile(path)
}
