package dataset

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

// DefaultFetchTimeout bounds a single dataset download.
const DefaultFetchTimeout = 30 * time.Second

// Source retrieves a raw dataset document. The ref is the document's public
// URL; file-backed sources map it onto a local path instead.
type Source interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// HTTPSource fetches dataset documents over HTTP GET.
type HTTPSource struct {
	client *http.Client
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithClient replaces the underlying HTTP client.
func WithClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		s.client = c
	}
}

// NewHTTPSource creates an HTTPSource with the default timeout.
func NewHTTPSource(opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		client: &http.Client{Timeout: DefaultFetchTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch downloads ref and returns the response body.
func (s *HTTPSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, ref)
	}

	return io.ReadAll(resp.Body)
}

// FileSource reads dataset documents from a local checkout of the NSI dist
// directory, keyed by the final path element of the ref.
type FileSource struct {
	dir string
}

// NewFileSource creates a FileSource rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Fetch reads the file named by the last segment of ref from the source
// directory.
func (s *FileSource) Fetch(_ context.Context, ref string) ([]byte, error) {
	name := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		name = filepath.Base(u.Path)
	}
	return os.ReadFile(filepath.Join(s.dir, name))
}
