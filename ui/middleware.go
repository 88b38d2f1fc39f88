package ui

import (
	"fmt"
	"io/fs"
	"net/http"

	"salesdash/ui/middleware"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() error {
	s.router.Use(middleware.RequestID())

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}
	s.logger.Debug("Serving static files from embedded FS at /static")
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}
