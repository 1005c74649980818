package asset

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
)

// Source opens resource paths.
type Source interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// FSSource reads resources from a file system such as an embed.FS or os.DirFS.
type FSSource struct {
	FS fs.FS
}

// Open implements Source.
func (s FSSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.FS.Open(path)
}

// HTTPSource fetches resources relative to BaseURL.
type HTTPSource struct {
	BaseURL string
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

// Open implements Source. Non-2xx responses are errors.
func (s HTTPSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	u, err := url.JoinPath(strings.TrimSuffix(s.BaseURL, "/"), path)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", u, resp.Status)
	}
	return resp.Body, nil
}
