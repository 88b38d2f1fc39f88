// Package datahost serves the precomputed JSON resources the dashboard
// reads, standing in for the static hosting the upstream pipeline writes to.
package datahost

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"salesdash/domain/core"
	"salesdash/internal"
)

// Host is a read-only JSON file server
type Host struct {
	router *chi.Mux
	fsys   fs.FS
	logger *internal.Logger
}

// New serves the resources in dir
func New(dir string) *Host {
	return NewFS(os.DirFS(dir))
}

// NewFS serves the resources in fsys
func NewFS(fsys fs.FS) *Host {
	h := &Host{
		router: chi.NewRouter(),
		fsys:   fsys,
		logger: internal.DefaultLogger.For("DataHost"),
	}
	h.setupMiddleware()
	h.setupRoutes()
	return h
}

func (h *Host) setupMiddleware() {
	h.router.Use(middleware.Logger)
	h.router.Use(middleware.Recoverer)
	h.router.Use(middleware.Compress(5, "application/json"))
}

func (h *Host) setupRoutes() {
	h.router.Get("/", h.handleIndex)
	h.router.Get("/{name}", h.handleResource)
}

// ServeHTTP implements http.Handler
func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// handleIndex lists the available resources
func (h *Host) handleIndex(w http.ResponseWriter, r *http.Request) {
	names, err := fs.Glob(h.fsys, "*.json")
	if err != nil {
		http.Error(w, "listing failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(strings.Join(names, "\n")))
}

// handleResource serves one *.json file; everything else is 404. Bodies
// carry a content-hash ETag and revalidate with If-None-Match.
func (h *Host) handleResource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if path.Ext(name) != ".json" || !fs.ValidPath(name) {
		http.NotFound(w, r)
		return
	}

	body, err := fs.ReadFile(h.fsys, name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			h.logger.Warn("read %s failed: %v", name, err)
		}
		http.NotFound(w, r)
		return
	}

	etag := core.NewHash(body).ETag()
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
