package export

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/devplan-ai/devplan-backend/internal/projects"
)

var contentTypes = map[Format]string{
	FormatJSON:     "application/json",
	FormatMarkdown: "text/markdown; charset=utf-8",
	FormatPDF:      "application/pdf",
}

type Handler struct {
	repo     *projects.Repo
	exporter *Exporter
}

// Register wires export routes onto the projects group.
func Register(rg *gin.RouterGroup, repo *projects.Repo, exporter *Exporter) {
	h := &Handler{repo: repo, exporter: exporter}

	rg.GET("/:public_id/export", h.export)
	rg.GET("/:public_id/preview", h.preview)
}

// export renders a stored project in the requested format. With
// download=true the response carries an attachment disposition.
func (h *Handler) export(c *gin.Context) {
	format, err := ParseFormat(c.DefaultQuery("format", "json"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	p, err := h.repo.Get(c.Request.Context(), c.Param("public_id"))
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	path, err := h.exporter.Export(p, format)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.Header("Content-Type", contentTypes[format])
	if c.Query("download") == "true" {
		c.Header("Content-Disposition",
			fmt.Sprintf(`attachment; filename=%q`, filepath.Base(path)))
	}
	c.File(path)
}

// preview returns the plan rendered as HTML for in-browser display.
func (h *Handler) preview(c *gin.Context) {
	p, err := h.repo.Get(c.Request.Context(), c.Param("public_id"))
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	html, err := h.exporter.PreviewHTML(p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
