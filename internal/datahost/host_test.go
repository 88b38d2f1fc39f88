package datahost

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"salesdash/adapters/loader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"category_stats.json": {Data: []byte(`[{"category": "A|B", "product_count": 3}]`)},
		"notes.txt":           {Data: []byte(`secret`)},
		"nested/x.json":       {Data: []byte(`[]`)},
	}
}

func TestServesJSON(t *testing.T) {
	srv := httptest.NewServer(NewFS(testFS()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/category_stats.json")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `[{"category": "A|B", "product_count": 3}]`, string(body))
}

func TestRejectsEverythingElse(t *testing.T) {
	srv := httptest.NewServer(NewFS(testFS()))
	defer srv.Close()

	for _, p := range []string{"/notes.txt", "/missing.json", "/nested/x.json", "/..%2Fetc.json"} {
		resp, err := http.Get(srv.URL + p)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, p)
	}

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/category_stats.json", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestIndexListsResources(t *testing.T) {
	rec := httptest.NewRecorder()
	NewFS(testFS()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "category_stats.json", rec.Body.String())
}

func TestLoaderAgainstHost(t *testing.T) {
	srv := httptest.NewServer(NewFS(testFS()))
	defer srv.Close()

	l := loader.New(loader.NewHTTPSource(srv.URL, nil))
	ds, err := l.Load(context.Background(), "category_stats.json")
	require.NoError(t, err)
	assert.Len(t, ds.Rows(), 1)

	_, err = l.Load(context.Background(), "notes.txt")
	assert.Error(t, err)
}

func TestConditionalGet(t *testing.T) {
	h := NewFS(testFS())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/category_stats.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/category_stats.json", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/category_stats.json", nil)
	req.Header.Set("If-None-Match", `"stale"`)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
