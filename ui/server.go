package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"salesdash/adapters/loader"
	"salesdash/internal"
	"salesdash/internal/dispatch"
	"salesdash/ui/middleware"
)

//go:embed templates/*.html templates/fragments/*.html static
var embeddedFiles embed.FS

// Options wires a Server to its collaborators
type Options struct {
	Dispatcher *dispatch.Dispatcher
	Loader     loader.DatasetLoader
	// DataHost, when set, is mounted under /dashboard_data
	DataHost http.Handler
}

// Server represents the web server for the sales dashboard
type Server struct {
	router     *gin.Engine
	templates  *template.Template
	dispatcher *dispatch.Dispatcher
	loader     loader.DatasetLoader
	dataHost   http.Handler
	logger     *internal.Logger
}

// NewServer creates a new web server instance
func NewServer(opts Options) *Server {
	return &Server{
		router:     gin.Default(),
		dispatcher: opts.Dispatcher,
		loader:     opts.Loader,
		dataHost:   opts.DataHost,
		logger:     internal.DefaultLogger.For("Server"),
	}
}

// Initialize parses the embedded templates and registers middleware and
// routes
func (s *Server) Initialize() error {
	if s.dispatcher == nil || s.loader == nil {
		return fmt.Errorf("server needs a dispatcher and a loader")
	}

	templatesFS, err := fs.Sub(embeddedFiles, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	pages, err := fs.Glob(templatesFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to glob page templates: %w", err)
	}
	partials, err := fs.Glob(templatesFS, "fragments/*.html")
	if err != nil {
		return fmt.Errorf("failed to glob fragment templates: %w", err)
	}

	s.templates = template.New("").Funcs(funcMap())
	files := append(pages, partials...)
	for _, file := range files {
		content, err := fs.ReadFile(templatesFS, file)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", file, err)
		}
		if _, err := s.templates.New(file).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", file, err)
		}
	}
	s.logger.Debug("parsed %d templates", len(files))

	if err := s.setupMiddleware(); err != nil {
		return err
	}
	s.setupRoutes()
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	// Pages
	s.router.GET("/", s.handleIndex)
	s.router.GET("/business-insights", s.handleBusinessInsights)

	// HTMX fragments, one view mount per request
	s.router.GET("/fragments/:id", middleware.NoStore(), s.handleFragment)
	s.router.GET("/qa/:id", middleware.NoStore(), s.handleQADetail)

	// API endpoints
	s.router.GET("/api/insights", s.handleListInsights)
	s.router.GET("/api/insights/:id", s.handleInsightJSON)
	s.router.GET("/export/:file", middleware.NoStore(), s.handleExport)
	s.router.GET("/healthz", s.handleHealth)

	if s.dataHost != nil {
		host := gin.WrapH(http.StripPrefix("/dashboard_data", s.dataHost))
		s.router.GET("/dashboard_data/*path", host)
		s.router.HEAD("/dashboard_data/*path", host)
	}
}

// Handler exposes the router for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting sales dashboard on http://%s", addr)
	return s.router.Run(addr)
}
