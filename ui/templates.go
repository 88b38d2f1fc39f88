package ui

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"salesdash/internal/dispatch"
	"salesdash/ui/middleware"
	"salesdash/ui/templates/fragments"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		// align looks up the alignment of column i
		"align": func(headers []dispatch.Header, i int) string {
			if i < 0 || i >= len(headers) || headers[i].Align == "" {
				return "left"
			}
			return headers[i].Align
		},
		"upper": strings.ToUpper,
	}
}

// renderTemplate executes a template with the given data. Output is
// buffered so a failing template never leaves a half-written response.
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("Template error for %s (request %s): %v", templateName, middleware.GetRequestID(c), err)
		s.logger.Debug("Template data type: %T", data)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed"})
		return
	}

	if !fragments.IsFragment(templateName) && !strings.Contains(buf.String(), "</html>") {
		s.logger.Warn("Rendered template %s appears truncated - missing </html> tag", templateName)
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Warn("Error writing template response: %v", err)
	}
}

// renderEmpty answers a fragment request that has nothing to show: no
// markup at all, so the panel's loading placeholder is cleared
func (s *Server) renderEmpty(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
}
