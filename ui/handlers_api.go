package ui

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"salesdash/adapters/excel"
	"salesdash/ui/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleListInsights returns every registered descriptor
func (s *Server) handleListInsights(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"insights": s.dispatcher.Registry().Descriptors(),
		"count":    s.dispatcher.Registry().Len(),
	})
}

// handleInsightJSON returns the render for one id. Anything that resolves
// empty is the empty object.
func (s *Server) handleInsightJSON(c *gin.Context) {
	v := s.mountRender(c.Request.Context(), c.Param("id"))
	render, _ := resolveView(s, v)
	c.JSON(http.StatusOK, render)
}

// handleExport streams /export/<id>.xlsx
func (s *Server) handleExport(c *gin.Context) {
	file := c.Param("file")
	id := strings.TrimSuffix(file, ".xlsx")
	if id == file || id == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "exports are served as <id>.xlsx"})
		return
	}

	render, ok := resolveView(s, s.mountRender(c.Request.Context(), id))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data for " + id})
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteRender(render, &buf); err != nil {
		s.logger.Error("export %s failed (request %s): %v", id, middleware.GetRequestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+excel.Filename(id)+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"insights": s.dispatcher.Registry().Len(),
	})
}
