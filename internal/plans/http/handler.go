// Package http exposes the plan generation endpoints.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devplan-ai/devplan-backend/internal/plans/domain"
	"github.com/devplan-ai/devplan-backend/internal/plans/service"
)

type Handler struct {
	plans *service.PlanService
}

// Register wires the generation endpoints under /api/openai.
func Register(rg *gin.RouterGroup, plans *service.PlanService) {
	h := &Handler{plans: plans}

	rg.POST("/generate-plan", h.generatePlan)
	rg.POST("/schema", h.schema)
	rg.POST("/test", h.testConnection)
	rg.GET("/model", h.modelInfo)
}

func (h *Handler) generatePlan(c *gin.Context) {
	var req domain.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid JSON body"})
		return
	}

	res, err := h.plans.GeneratePlan(c.Request.Context(), &req)
	if err != nil {
		writeGenerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"plan":   res.Plan,
		"schema": res.Schema,
	})
}

func (h *Handler) schema(c *gin.Context) {
	var req domain.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid JSON body"})
		return
	}

	sch, err := h.plans.Schema(c.Request.Context(), &req)
	if err != nil {
		writeGenerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "schema": sch})
}

func (h *Handler) testConnection(c *gin.Context) {
	res, err := h.plans.TestConnection(c.Request.Context())
	if err != nil {
		writeGenerationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "test": res})
}

func (h *Handler) modelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "model": h.plans.ModelInfo()})
}

// writeGenerationError translates pipeline errors into the API error
// contract: 400 for validation, 503 when no key is configured, 502 for
// upstream failures.
func writeGenerationError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"ok":     false,
			"error":  "validation failed",
			"code":   "VALIDATION_ERROR",
			"errors": verr.Problems,
		})
		return
	}

	code := domain.ErrorCode(err)
	status := http.StatusBadGateway
	if errors.Is(err, domain.ErrNotConfigured) {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"ok":    false,
		"error": err.Error(),
		"code":  code,
	})
}
