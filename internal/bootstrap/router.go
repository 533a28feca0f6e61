package bootstrap

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/devplan-ai/devplan-backend/config"
	httpapi "github.com/devplan-ai/devplan-backend/internal/api/http"
	"github.com/devplan-ai/devplan-backend/internal/api/http/middleware"
	"github.com/devplan-ai/devplan-backend/internal/export"
	"github.com/devplan-ai/devplan-backend/internal/plans/cache"
	planshttp "github.com/devplan-ai/devplan-backend/internal/plans/http"
	"github.com/devplan-ai/devplan-backend/internal/plans/openai"
	"github.com/devplan-ai/devplan-backend/internal/plans/service"
	"github.com/devplan-ai/devplan-backend/internal/pricing"
	"github.com/devplan-ai/devplan-backend/internal/projects"
	"github.com/devplan-ai/devplan-backend/internal/schema"
	"github.com/devplan-ai/devplan-backend/internal/web"
)

// SetGinMode switches gin to release mode for production deployments; the
// development and testing environments keep the verbose default.
func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

type RouterDeps struct {
	Cfg      *config.Config
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Exporter *export.Exporter
	Prices   *pricing.Store
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.Default()
	r.Use(cors.Default())
	r.Use(middleware.RequestIDMiddleware())

	client := openai.NewClient(
		dep.Cfg.OpenAI.BaseURL,
		dep.Cfg.OpenAI.APIKey,
		dep.Cfg.OpenAI.Organization,
		dep.Cfg.OpenAI.Model,
	)

	var store service.PlanStore
	if dep.Redis != nil && dep.Cfg.CacheEnabled() {
		store = cache.NewPlanCache(dep.Redis, dep.Cfg.Redis.CacheTTL)
	}

	var priceSource schema.PriceSource
	if dep.Prices != nil {
		priceSource = dep.Prices
	}

	plans := service.NewPlanService(client, store, schema.NewGenerator(priceSource))

	pages, err := web.NewHandler(dep.Cfg.App.Name, dep.Cfg.App.Version)
	if err != nil {
		return nil, fmt.Errorf("web templates: %w", err)
	}
	pages.Register(r)

	healthHandler := httpapi.NewHealthHandler(
		dep.Cfg.App.Name,
		dep.Cfg.App.Version,
		dep.Cfg.App.Environment,
		dep.DB,
		dep.Redis,
		dep.Cfg.OpenAIConfigured(),
		dep.Cfg.Export.Dir,
	)
	healthHandler.RegisterRoutes(r)

	var freshness httpapi.FreshnessFunc
	if dep.Prices != nil {
		freshness = dep.Prices.Freshest
	}
	statusHandler := httpapi.NewStatusHandler(dep.Cfg, client, freshness)
	statusHandler.RegisterRoutes(r)

	planshttp.Register(r.Group("/api/openai"), plans)

	projectRepo := projects.NewRepo(dep.DB)
	projectsGroup := r.Group("/api/v1/projects")
	projects.Register(projectsGroup, projectRepo)
	export.Register(projectsGroup, projectRepo, dep.Exporter)

	return r, nil
}
