// Package service orchestrates plan generation: sanitize, validate, cache
// lookup, completion call, schema build, cache fill.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/devplan-ai/devplan-backend/internal/plans/cache"
	"github.com/devplan-ai/devplan-backend/internal/plans/domain"
	"github.com/devplan-ai/devplan-backend/internal/plans/openai"
	"github.com/devplan-ai/devplan-backend/internal/plans/validate"
	"github.com/devplan-ai/devplan-backend/internal/schema"
)

// Completer is the completion backend. Satisfied by *openai.Client.
type Completer interface {
	GeneratePlan(ctx context.Context, req *domain.PlanRequest) (*domain.GeneratedPlan, error)
	TestConnection(ctx context.Context) (*domain.ConnectionTest, error)
	ModelInfo() domain.ModelInfo
}

// PlanStore is the optional plan cache. Satisfied by *cache.PlanCache.
type PlanStore interface {
	Get(ctx context.Context, req *domain.PlanRequest) (*domain.GeneratedPlan, error)
	Put(ctx context.Context, req *domain.PlanRequest, plan *domain.GeneratedPlan) error
}

// ValidationError carries every problem found in a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid plan request: " + strings.Join(e.Problems, "; ")
}

// PlanService ties the generation pipeline together. A nil store disables
// caching.
type PlanService struct {
	completer Completer
	store     PlanStore
	schemas   *schema.Generator
}

func NewPlanService(completer Completer, store PlanStore, schemas *schema.Generator) *PlanService {
	return &PlanService{completer: completer, store: store, schemas: schemas}
}

// PlanResult bundles the generated plan text with the derived schema.
type PlanResult struct {
	Plan   *domain.GeneratedPlan  `json:"generated_plan"`
	Schema *schema.DetailedSchema `json:"detailed_schema"`
}

// GeneratePlan runs the full pipeline for one request. The request is
// sanitized in place before validation.
func (s *PlanService) GeneratePlan(ctx context.Context, req *domain.PlanRequest) (*PlanResult, error) {
	logger := openai.NewLogger(ctx)

	sanitizeRequest(req)

	if problems := validate.PlanRequest(req); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	warnUnknownTech(logger, req)

	if s.store != nil {
		if plan, err := s.store.Get(ctx, req); err == nil {
			logger.LogInfof("generate_plan", "cache hit model=%s", plan.Model)
			return s.result(ctx, req, plan), nil
		} else if !errors.Is(err, cache.ErrMiss) {
			// Cache trouble must not block generation.
			logger.LogWarn("generate_plan", "cache lookup failed: "+err.Error())
		}
	}

	plan, err := s.completer.GeneratePlan(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.Put(ctx, req, plan); err != nil {
			logger.LogWarn("generate_plan", "cache fill failed: "+err.Error())
		}
	}

	return s.result(ctx, req, plan), nil
}

func (s *PlanService) result(ctx context.Context, req *domain.PlanRequest, plan *domain.GeneratedPlan) *PlanResult {
	return &PlanResult{
		Plan:   plan,
		Schema: s.schemas.Generate(ctx, req),
	}
}

// Schema builds only the detailed schema, without a completion call.
func (s *PlanService) Schema(ctx context.Context, req *domain.PlanRequest) (*schema.DetailedSchema, error) {
	sanitizeRequest(req)
	if problems := validate.PlanRequest(req); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return s.schemas.Generate(ctx, req), nil
}

// TestConnection proxies a minimal completion round trip.
func (s *PlanService) TestConnection(ctx context.Context) (*domain.ConnectionTest, error) {
	return s.completer.TestConnection(ctx)
}

// ModelInfo returns the completion backend configuration.
func (s *PlanService) ModelInfo() domain.ModelInfo {
	return s.completer.ModelInfo()
}

func sanitizeRequest(req *domain.PlanRequest) {
	req.Description = validate.Sanitize(req.Description)
	req.ProjectType = strings.ToLower(strings.TrimSpace(req.ProjectType))
	req.Scale = strings.ToLower(strings.TrimSpace(req.Scale))
	req.Timeline = validate.Sanitize(req.Timeline)
	req.Budget = validate.Sanitize(req.Budget)
	for i, f := range req.Features {
		req.Features[i] = validate.Sanitize(f)
	}
}

func warnUnknownTech(logger *openai.Logger, req *domain.PlanRequest) {
	for _, pref := range []string{req.FrontendPreference, req.BackendPreference, req.DatabasePreference} {
		if pref != "" && !validate.KnownTechnology(pref) {
			logger.LogWarn("generate_plan", "unknown technology preference: "+pref)
		}
	}
}
