package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestPages(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h, err := NewHandler("DevPlan AI Generator", "1.0.0")
	if err != nil {
		t.Fatalf("templates failed to parse: %v", err)
	}

	r := gin.New()
	h.Register(r)

	for _, path := range []string{"/", "/about", "/generator"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rr.Code)
			continue
		}
		body := rr.Body.String()
		if !strings.Contains(body, "DevPlan AI Generator") {
			t.Errorf("%s: missing app name", path)
		}
		if !strings.Contains(body, "</html>") {
			t.Errorf("%s: layout not rendered", path)
		}
	}
}

func TestGeneratorPageHasForm(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h, err := NewHandler("DevPlan AI Generator", "1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	r := gin.New()
	h.Register(r)

	req := httptest.NewRequest(http.MethodGet, "/generator", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	body := rr.Body.String()
	for _, want := range []string{"plan-form", "project_description", "/api/openai/generate-plan"} {
		if !strings.Contains(body, want) {
			t.Errorf("generator page missing %q", want)
		}
	}
}
