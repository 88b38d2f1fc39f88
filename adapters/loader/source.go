// Package loader fetches the precomputed dashboard resources. Each Load is a
// single read with no retry; every failure collapses into one LoadFailure.
package loader

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
)

// Source reads the raw bytes of a named resource
type Source interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
	String() string
}

// HTTPSource reads resources below a base URL, e.g.
// http://localhost:8080/dashboard_data
type HTTPSource struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPSource creates a source rooted at baseURL. A nil client uses one
// without a timeout; the caller's context bounds the request.
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// Fetch issues one GET for <base>/<ref>
func (s *HTTPSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+url.PathEscape(ref), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

func (s *HTTPSource) String() string { return s.baseURL }

// DirSource reads resources from a file system, typically a local
// dashboard_data directory
type DirSource struct {
	fsys fs.FS
	name string
}

// NewDirSource serves resources from dir
func NewDirSource(dir string) *DirSource {
	return &DirSource{fsys: os.DirFS(dir), name: dir}
}

// NewFSSource serves resources from fsys
func NewFSSource(fsys fs.FS, name string) *DirSource {
	return &DirSource{fsys: fsys, name: name}
}

// Fetch reads ref. Refs must be plain relative paths without ".." elements.
func (s *DirSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := path.Clean(ref)
	if !fs.ValidPath(clean) || clean == "." {
		return nil, fmt.Errorf("invalid resource path %q", ref)
	}
	return fs.ReadFile(s.fsys, clean)
}

func (s *DirSource) String() string { return s.name }
