package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devplan-ai/devplan-backend/config"
	"github.com/devplan-ai/devplan-backend/internal/plans/openai"
)

// FreshnessFunc reports the newest stored price per cloud provider. It
// decouples the handler from the pricing store; nil disables the field.
type FreshnessFunc func(ctx context.Context) (map[string]time.Time, error)

type StatusHandler struct {
	cfg    *config.Config
	client *openai.Client
	prices FreshnessFunc
}

func NewStatusHandler(cfg *config.Config, client *openai.Client, prices FreshnessFunc) *StatusHandler {
	return &StatusHandler{cfg: cfg, client: client, prices: prices}
}

func (h *StatusHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/status", h.Status)
	r.GET("/config", h.ConfigInfo)
}

// Status reports runtime state: model configuration, completion metrics
// and cloud price freshness.
func (h *StatusHandler) Status(c *gin.Context) {
	m := openai.GetMetrics()

	out := gin.H{
		"service":     h.cfg.App.Name,
		"version":     h.cfg.App.Version,
		"environment": h.cfg.App.Environment,
		"timestamp":   time.Now().UTC(),
		"model":       h.client.ModelInfo(),
		"completions": gin.H{
			"calls":          m.Calls(),
			"errors":         m.Errors(),
			"avg_latency_ms": m.AverageLatency(),
		},
		"cache_enabled": h.cfg.CacheEnabled(),
	}

	if h.prices != nil {
		if fresh, err := h.prices(c.Request.Context()); err == nil {
			out["price_freshness"] = fresh
		}
	}

	c.JSON(http.StatusOK, out)
}

// ConfigInfo exposes the non-secret configuration. The API key itself is
// never returned, only whether one is set.
func (h *StatusHandler) ConfigInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app": gin.H{
			"name":        h.cfg.App.Name,
			"version":     h.cfg.App.Version,
			"environment": h.cfg.App.Environment,
			"log_level":   h.cfg.App.LogLevel,
		},
		"openai": gin.H{
			"model":              h.cfg.OpenAI.Model,
			"api_key_configured": h.cfg.OpenAIConfigured(),
		},
		"cache": gin.H{
			"enabled": h.cfg.CacheEnabled(),
			"ttl":     h.cfg.Redis.CacheTTL.String(),
		},
		"export": gin.H{
			"dir":     h.cfg.Export.Dir,
			"max_age": h.cfg.Export.MaxAge.String(),
		},
	})
}
