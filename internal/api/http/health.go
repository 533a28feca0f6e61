package http

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type HealthResponse struct {
	Status           string    `json:"status"`
	Timestamp        time.Time `json:"timestamp"`
	Service          string    `json:"service"`
	Version          string    `json:"version"`
	Environment      string    `json:"environment"`
	DB               string    `json:"db,omitempty"`
	Redis            string    `json:"redis,omitempty"`
	OpenAIConfigured bool      `json:"openai_configured"`
	ExportDirReady   bool      `json:"export_dir_ready"`
}

type HealthHandler struct {
	serviceName string
	version     string
	environment string
	db          *pgxpool.Pool
	redis       *redis.Client
	openAIReady bool
	exportDir   string
}

func NewHealthHandler(serviceName, version, environment string, db *pgxpool.Pool, rdb *redis.Client, openAIReady bool, exportDir string) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		environment: environment,
		db:          db,
		redis:       rdb,
		openAIReady: openAIReady,
		exportDir:   exportDir,
	}
}

// HealthCheck reports overall service readiness. A missing API key is not
// an outage: the service answers "needs_configuration" and keeps serving
// everything but generation.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := "disabled"
	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.db.Ping(pingCtx); err != nil {
			dbStatus = "down"
		} else {
			dbStatus = "up"
		}
	}

	redisStatus := "disabled"
	if h.redis != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.redis.Ping(pingCtx).Err(); err != nil {
			redisStatus = "down"
		} else {
			redisStatus = "up"
		}
	}

	status := "ready"
	if !h.openAIReady {
		status = "needs_configuration"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:           status,
		Timestamp:        time.Now().UTC(),
		Service:          h.serviceName,
		Version:          h.version,
		Environment:      h.environment,
		DB:               dbStatus,
		Redis:            redisStatus,
		OpenAIConfigured: h.openAIReady,
		ExportDirReady:   dirWritable(h.exportDir),
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}

func dirWritable(dir string) bool {
	if dir == "" {
		return false
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
