// Package web serves the small set of HTML pages: landing, about and the
// generator form. The pages are static shells; the generator form talks to
// the JSON API from the browser.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData is passed to every template.
type PageData struct {
	AppName    string
	AppVersion string
	Page       string
}

type Handler struct {
	appName    string
	appVersion string
	templates  map[string]*template.Template
}

func NewHandler(appName, appVersion string) (*Handler, error) {
	pages := []string{"index", "about", "generator"}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, err
		}
		templates[page] = t
	}

	return &Handler{
		appName:    appName,
		appVersion: appVersion,
		templates:  templates,
	}, nil
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.page("index"))
	r.GET("/about", h.page("about"))
	r.GET("/generator", h.page("generator"))
}

func (h *Handler) page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Status(http.StatusOK)
		c.Header("Content-Type", "text/html; charset=utf-8")
		err := h.templates[name].ExecuteTemplate(c.Writer, "layout", PageData{
			AppName:    h.appName,
			AppVersion: h.appVersion,
			Page:       name,
		})
		if err != nil {
			c.String(http.StatusInternalServerError, "template error: %v", err)
		}
	}
}
