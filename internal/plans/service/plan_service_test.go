package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/devplan-ai/devplan-backend/internal/plans/cache"
	"github.com/devplan-ai/devplan-backend/internal/plans/domain"
	"github.com/devplan-ai/devplan-backend/internal/schema"
)

type fakeCompleter struct {
	plan  *domain.GeneratedPlan
	err   error
	calls int
}

func (f *fakeCompleter) GeneratePlan(ctx context.Context, req *domain.PlanRequest) (*domain.GeneratedPlan, error) {
	f.calls++
	return f.plan, f.err
}

func (f *fakeCompleter) TestConnection(ctx context.Context) (*domain.ConnectionTest, error) {
	return &domain.ConnectionTest{Status: "success"}, f.err
}

func (f *fakeCompleter) ModelInfo() domain.ModelInfo {
	return domain.ModelInfo{Model: "fake", Status: "configured"}
}

type fakeStore struct {
	plans map[string]*domain.GeneratedPlan
	puts  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{plans: map[string]*domain.GeneratedPlan{}}
}

func (f *fakeStore) Get(ctx context.Context, req *domain.PlanRequest) (*domain.GeneratedPlan, error) {
	if p, ok := f.plans[cache.Key(req)]; ok {
		cp := *p
		cp.Cached = true
		return &cp, nil
	}
	return nil, cache.ErrMiss
}

func (f *fakeStore) Put(ctx context.Context, req *domain.PlanRequest, plan *domain.GeneratedPlan) error {
	f.puts++
	f.plans[cache.Key(req)] = plan
	return nil
}

func validRequest() *domain.PlanRequest {
	return &domain.PlanRequest{
		Description: "an online marketplace for secondhand books",
		ProjectType: "ecommerce",
		Scale:       "small",
	}
}

func generated() *domain.GeneratedPlan {
	return &domain.GeneratedPlan{
		Text:        "the plan",
		Model:       "fake",
		TokensUsed:  100,
		GeneratedAt: time.Now().UTC(),
	}
}

func TestGeneratePlan_Pipeline(t *testing.T) {
	completer := &fakeCompleter{plan: generated()}
	store := newFakeStore()
	svc := NewPlanService(completer, store, schema.NewGenerator(nil))

	res, err := svc.GeneratePlan(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Plan.Text != "the plan" {
		t.Errorf("unexpected plan text: %s", res.Plan.Text)
	}
	if res.Schema == nil || res.Schema.ProjectType != "ecommerce" {
		t.Error("expected schema alongside the plan")
	}
	if store.puts != 1 {
		t.Errorf("expected one cache fill, got %d", store.puts)
	}
}

func TestGeneratePlan_CacheHit(t *testing.T) {
	completer := &fakeCompleter{plan: generated()}
	store := newFakeStore()
	svc := NewPlanService(completer, store, schema.NewGenerator(nil))

	if _, err := svc.GeneratePlan(context.Background(), validRequest()); err != nil {
		t.Fatalf("first generation: %v", err)
	}

	res, err := svc.GeneratePlan(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("second generation: %v", err)
	}

	if completer.calls != 1 {
		t.Errorf("expected a single upstream call, got %d", completer.calls)
	}
	if !res.Plan.Cached {
		t.Error("second result must be marked cached")
	}
}

func TestGeneratePlan_ValidationError(t *testing.T) {
	completer := &fakeCompleter{plan: generated()}
	svc := NewPlanService(completer, nil, schema.NewGenerator(nil))

	_, err := svc.GeneratePlan(context.Background(), &domain.PlanRequest{Description: "short"})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Problems) == 0 {
		t.Error("expected problems listed")
	}
	if completer.calls != 0 {
		t.Error("invalid requests must not reach the completer")
	}
}

func TestGeneratePlan_SanitizesBeforeValidation(t *testing.T) {
	completer := &fakeCompleter{plan: generated()}
	svc := NewPlanService(completer, nil, schema.NewGenerator(nil))

	req := &domain.PlanRequest{
		Description: `a web shop for rare plants <script>alert("x")</script> with delivery`,
		ProjectType: " Ecommerce ",
	}
	if _, err := svc.GeneratePlan(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(req.Description, "<script") {
		t.Error("description should be sanitized in place")
	}
	if req.ProjectType != "ecommerce" {
		t.Errorf("project type should be normalized, got %q", req.ProjectType)
	}
}

func TestGeneratePlan_UpstreamError(t *testing.T) {
	completer := &fakeCompleter{err: domain.ErrRateLimit}
	store := newFakeStore()
	svc := NewPlanService(completer, store, schema.NewGenerator(nil))

	_, err := svc.GeneratePlan(context.Background(), validRequest())
	if !errors.Is(err, domain.ErrRateLimit) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if store.puts != 0 {
		t.Error("failed generations must not be cached")
	}
}

func TestSchema_NoCompletionCall(t *testing.T) {
	completer := &fakeCompleter{plan: generated()}
	svc := NewPlanService(completer, nil, schema.NewGenerator(nil))

	s, err := svc.Schema(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s == nil || len(s.ProjectPhases) != 5 {
		t.Error("expected a full schema")
	}
	if completer.calls != 0 {
		t.Error("schema building must not call the completer")
	}
}
