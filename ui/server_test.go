package ui

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/adapters/excel"
	"salesdash/adapters/loader"
	"salesdash/domain/dataset"
	"salesdash/internal/datahost"
	"salesdash/internal/dispatch"
	"salesdash/internal/registry"
	"salesdash/internal/testkit"
	"salesdash/ui/middleware"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T, fsys fstest.MapFS, withHost bool) http.Handler {
	t.Helper()
	opts := Options{
		Dispatcher: dispatch.New(registry.MustDefault()),
		Loader:     loader.New(loader.NewFSSource(fsys, "fixtures")),
	}
	if withHost {
		opts.DataHost = datahost.NewFS(fsys)
	}
	s := NewServer(opts)
	require.NoError(t, s.Initialize())
	return s.Handler()
}

func fixtures(t *testing.T) fstest.MapFS {
	t.Helper()
	files, err := testkit.DefaultDashboard()
	require.NoError(t, err)
	return files.FS()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPagesRenderLoadingPanels(t *testing.T) {
	h := newTestServer(t, fixtures(t), false)

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `hx-get="/fragments/category-performance"`)
	assert.Contains(t, body, `hx-get="/fragments/top-products"`)
	assert.Contains(t, body, "Top Rated Products")
	assert.Contains(t, body, "Loading chart...")
	assert.Contains(t, body, "</html>")

	rec = get(t, h, "/business-insights")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hx-get="/fragments/hypotheses"`)

	rec = get(t, h, "/static/css/dashboard.css")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFragments(t *testing.T) {
	h := newTestServer(t, fixtures(t), false)

	tests := map[string][]string{
		"/fragments/summary":              {"Total Products", "1,351", "Average Discount"},
		"/fragments/qa":                   {`hx-get="/qa/q1"`, "Ratings by category"},
		"/fragments/top-products":         {"<table", "★", "Reviews"},
		"/fragments/category-performance": {"<iframe", "srcdoc=", "Avg Rating"},
		"/fragments/q8":                   {"Correlation (price vs rating)", "weak positive"},
		"/fragments/insight6":             {"Pearson correlation", "Correlation coefficient"},
		"/qa/q1":                          {"<strong>", `hx-get="/fragments/q1"`},
	}
	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			rec := get(t, h, path)
			require.Equal(t, http.StatusOK, rec.Code)
			for _, s := range want {
				assert.Contains(t, rec.Body.String(), s)
			}
		})
	}
}

func TestHypothesesFragmentRendersEveryCard(t *testing.T) {
	h := newTestServer(t, fixtures(t), false)

	body := get(t, h, "/fragments/hypotheses").Body.String()
	assert.Equal(t, 7, strings.Count(body, `<article class="card"`))
	assert.Contains(t, body, "Significant (p = ")
	assert.Contains(t, body, "Price tier means")
}

func TestEmptyFragmentsHaveNoMarkup(t *testing.T) {
	h := newTestServer(t, fixtures(t), false)
	for _, path := range []string{"/fragments/nope", "/qa/nope"} {
		rec := get(t, h, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Empty(t, rec.Body.String(), path)
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"), path)
	}

	// nothing to load at all
	h = newTestServer(t, fstest.MapFS{}, false)
	for _, path := range []string{"/fragments/top-products", "/fragments/summary", "/fragments/qa", "/fragments/hypotheses"} {
		rec := get(t, h, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Empty(t, rec.Body.String(), path)
	}
}

func TestInsightJSON(t *testing.T) {
	h := newTestServer(t, fixtures(t), false)

	rec := get(t, h, "/api/insights/nope")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())

	rec = get(t, h, "/api/insights/top-products")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"ranked-table"`)

	rec = get(t, h, "/api/insights")
	assert.Contains(t, rec.Body.String(), `"count":20`)
}

func TestExport(t *testing.T) {
	h := newTestServer(t, fixtures(t), false)

	rec := get(t, h, "/export/top-products.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "top-products.xlsx")

	data, err := excel.Read(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, []string{"Product", "Category", "Rating", "Reviews", "Price"}, data.Headers)
	assert.Len(t, data.Rows, 15)

	rec = get(t, h, "/export/hypotheses.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/export/top-products").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/export/nope.xlsx").Code)
}

func TestHealthAndDataHost(t *testing.T) {
	fsys := fixtures(t)

	rec := get(t, newTestServer(t, fsys, false), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.JSONEq(t, `{"status":"ok","insights":20}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, get(t, newTestServer(t, fsys, false), "/dashboard_data/summary_stats.json").Code)

	rec = get(t, newTestServer(t, fsys, true), "/dashboard_data/summary_stats.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `"total_products": 1351`)
}

func TestQATitle(t *testing.T) {
	long := strings.Repeat("é", 45)
	assert.Equal(t, strings.Repeat("é", 40)+"…", qaTitle(datasetQA("", long)))
	assert.Equal(t, "Short", qaTitle(datasetQA("Short", long)))
	assert.Equal(t, "Why?", qaTitle(datasetQA("", "Why?")))
}

func datasetQA(title, question string) dataset.QAItem {
	return dataset.QAItem{ID: "q1", CardTitle: title, Question: question}
}
