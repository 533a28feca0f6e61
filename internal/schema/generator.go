package schema

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/devplan-ai/devplan-backend/internal/plans/domain"
)

// PriceSource supplies a live monthly infrastructure cost for a compute
// class, typically backed by the cloud pricing store. Implementations
// return an error when no fresh price is available.
type PriceSource interface {
	MonthlyComputeCost(ctx context.Context, vcpu int, memoryGB float64) (float64, error)
}

// Generator builds detailed schemas. A nil PriceSource falls back to the
// static infrastructure cost table.
type Generator struct {
	prices PriceSource
}

func NewGenerator(prices PriceSource) *Generator {
	return &Generator{prices: prices}
}

// AnalyzeComplexity scores the request and buckets it.
func AnalyzeComplexity(req *domain.PlanRequest) Complexity {
	score := 0

	switch req.Scale {
	case "large":
		score += 3
	case "medium":
		score += 2
	default:
		score += 1
	}

	switch req.ProjectType {
	case "saas", "enterprise":
		score += 2
	case "ecommerce", "dashboard":
		score += 1
	}

	lower := strings.ToLower(req.Description + " " + strings.Join(req.Features, " "))
	for _, term := range []string{"payment", "security", "performance", "scalability"} {
		if strings.Contains(lower, term) {
			score++
			break
		}
	}
	for _, term := range []string{"real-time", "real time", "microservice", "multi-tenant"} {
		if strings.Contains(lower, term) {
			score += 2
			break
		}
	}

	switch {
	case score <= 2:
		return ComplexitySimple
	case score <= 4:
		return ComplexityModerate
	case score <= 6:
		return ComplexityComplex
	default:
		return ComplexityEnterprise
	}
}

// TechRecommendations picks one technology per category, preferring the
// user's choice and falling back to a complexity-driven default.
func TechRecommendations(req *domain.PlanRequest, complexity Complexity) []TechnologyRecommendation {
	recs := make([]TechnologyRecommendation, 0, 3)

	recs = append(recs, pickTech(CategoryFrontend, req.FrontendPreference, func() (techEntry, string) {
		if complexity == ComplexitySimple || complexity == ComplexityModerate {
			return techDatabase[CategoryFrontend]["vue"], "easy to learn and fast to build with"
		}
		return techDatabase[CategoryFrontend]["react"], "rich ecosystem with support for complex projects"
	}))

	recs = append(recs, pickTech(CategoryBackend, req.BackendPreference, func() (techEntry, string) {
		if complexity == ComplexityEnterprise {
			return techDatabase[CategoryBackend]["java"], "performance and robustness for enterprise applications"
		}
		return techDatabase[CategoryBackend]["nodejs"], "fast development with a unified JavaScript ecosystem"
	}))

	recs = append(recs, pickTech(CategoryDatabase, req.DatabasePreference, func() (techEntry, string) {
		return techDatabase[CategoryDatabase]["postgresql"], "robust, well-understood relational database"
	}))

	return recs
}

func pickTech(cat TechCategory, preference string, fallback func() (techEntry, string)) TechnologyRecommendation {
	key := strings.ToLower(strings.TrimSpace(preference))
	if entry, ok := techDatabase[cat][key]; ok {
		return TechnologyRecommendation{
			Name:            entry.Name,
			Category:        cat,
			Version:         entry.Version,
			Reason:          fmt.Sprintf("user preference - %s", strings.Join(entry.BestFor, ", ")),
			Alternatives:    categoryKeys(cat),
			LearningCurve:   entry.LearningCurve,
			PopularityScore: entry.PopularityScore,
			MaintenanceCost: entry.MaintenanceCost,
		}
	}
	if preference != "" {
		log.Printf("[warn] operation=tech_recommendation message=unknown %s preference %q", cat, preference)
	}

	entry, reason := fallback()
	return TechnologyRecommendation{
		Name:            entry.Name,
		Category:        cat,
		Version:         entry.Version,
		Reason:          reason,
		Alternatives:    categoryKeys(cat),
		LearningCurve:   entry.LearningCurve,
		PopularityScore: entry.PopularityScore,
		MaintenanceCost: entry.MaintenanceCost,
	}
}

// ArchitectureComponents lays out the system boxes for the project type.
func ArchitectureComponents(req *domain.PlanRequest, recs []TechnologyRecommendation) []ArchitectureComponent {
	tmpl := templateFor(req.ProjectType)
	components := make([]ArchitectureComponent, 0, 6)

	techByCategory := map[TechCategory]string{}
	for _, r := range recs {
		techByCategory[r.Category] = r.Name
	}

	if tmpl.hasComponent("web_frontend") {
		frontend := techByCategory[CategoryFrontend]
		if frontend == "" {
			frontend = "React"
		}
		components = append(components, ArchitectureComponent{
			Name:         "Frontend Application",
			Type:         "web_application",
			Description:  "Interactive, responsive user interface",
			Technologies: []string{frontend},
			Connections:  []string{"api_backend"},
			Scalability:  "CDN + Edge Caching",
			Complexity:   6,
		})
	}

	if tmpl.hasComponent("api_backend") {
		backend := techByCategory[CategoryBackend]
		if backend == "" {
			backend = "Node.js"
		}
		components = append(components, ArchitectureComponent{
			Name:         "API Backend",
			Type:         "rest_api",
			Description:  "REST API for business logic and data access",
			Technologies: []string{backend},
			Connections:  []string{"database", "cache"},
			Scalability:  "Horizontal scaling + Load Balancer",
			Complexity:   8,
		})
	}

	if tmpl.hasComponent("database") {
		db := techByCategory[CategoryDatabase]
		if db == "" {
			db = "PostgreSQL"
		}
		components = append(components, ArchitectureComponent{
			Name:         "Primary Database",
			Type:         "database",
			Description:  "Primary data store",
			Technologies: []string{db},
			Connections:  []string{"api_backend"},
			Scalability:  "Read replicas + Partitioning",
			Complexity:   7,
		})
	}

	// Cache layer joins automatically for medium and large scale.
	if req.Scale == "medium" || req.Scale == "large" {
		components = append(components, ArchitectureComponent{
			Name:         "Cache Layer",
			Type:         "cache",
			Description:  "In-memory cache to cut read latency",
			Technologies: []string{"Redis"},
			Connections:  []string{"api_backend"},
			Scalability:  "Redis Cluster",
			Complexity:   4,
		})
	}

	switch req.ProjectType {
	case "ecommerce":
		components = append(components, ArchitectureComponent{
			Name:         "Payment Gateway",
			Type:         "external_service",
			Description:  "Secure payment processing integration",
			Technologies: []string{"Stripe", "PayPal API"},
			Connections:  []string{"api_backend"},
			Scalability:  "Managed external service",
			Complexity:   6,
		})
	case "mobile":
		components = append(components, ArchitectureComponent{
			Name:         "Push Notification Service",
			Type:         "notification_service",
			Description:  "Mobile push notification delivery",
			Technologies: []string{"FCM", "APNs"},
			Connections:  []string{"api_backend"},
			Scalability:  "Managed external service",
			Complexity:   5,
		})
	}

	return components
}

// Generate builds the complete detailed schema for a request.
func (g *Generator) Generate(ctx context.Context, req *domain.PlanRequest) *DetailedSchema {
	complexity := AnalyzeComplexity(req)
	recs := TechRecommendations(req, complexity)
	components := ArchitectureComponents(req, recs)
	phases, totalWeeks := EstimateTimeline(req.ProjectType, complexity)
	costs := g.EstimateCosts(ctx, req.ProjectType, complexity, totalWeeks)

	summary := make(map[string]string, len(recs))
	for _, r := range recs {
		summary[string(r.Category)] = r.Name
	}

	projectType := req.ProjectType
	if projectType == "" {
		projectType = "custom"
	}

	return &DetailedSchema{
		ProjectName:            fmt.Sprintf("%s Project", titleCase(projectType)),
		ProjectType:            projectType,
		Description:            req.Description,
		Complexity:             complexity,
		ArchitectureComponents: components,
		SystemArchitecture:     describeArchitecture(components),
		DataFlow:               dataFlowDescription,
		TechRecommendations:    recs,
		TechStackSummary:       summary,
		ProjectPhases:          phases,
		TotalDurationWeeks:     totalWeeks,
		TimeEstimation: TimeEstimation{
			TaskName:       "Complete project",
			EstimatedHours: int(float64(totalWeeks) * hoursPerWeek * avgTeamSize),
			MinHours:       totalWeeks * hoursPerWeek * 2,
			MaxHours:       totalWeeks * hoursPerWeek * 3,
			CriticalPath:   true,
			RequiredSkills: []string{"Full-stack development", "DevOps", "UI/UX"},
		},
		CostEstimation:  costs,
		GeneratedAt:     time.Now().UTC(),
		ConfidenceScore: 0.85,
		Recommendations: recommendations(complexity),
		Risks:           risks(req.ProjectType, complexity),
		SuccessFactors:  successFactors(),
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func describeArchitecture(components []ArchitectureComponent) string {
	var b strings.Builder
	b.WriteString("Recommended system architecture:\n\n")
	for _, c := range components {
		fmt.Fprintf(&b, "- **%s** (%s)\n", c.Name, c.Type)
		fmt.Fprintf(&b, "  - %s\n", c.Description)
		fmt.Fprintf(&b, "  - Technologies: %s\n", strings.Join(c.Technologies, ", "))
		fmt.Fprintf(&b, "  - Scalability: %s\n\n", c.Scalability)
	}
	return b.String()
}

const dataFlowDescription = `Primary data flow:

1. **User** -> Frontend interface
2. **Frontend** -> API Backend (REST)
3. **API Backend** -> Cache layer (when present)
4. **API Backend** -> Database
5. **External services** <-> API Backend (auth, payment, ...)

Data is secured in transit (HTTPS/TLS) and at rest (database encryption).`

func recommendations(complexity Complexity) []string {
	recs := []string{
		"Start with an MVP to validate the concept",
		"Keep the architecture modular to ease maintenance",
		"Set up monitoring from day one",
		"Plan a backup and recovery strategy",
		"Document the API and keep the documentation current",
	}
	if complexity == ComplexityComplex || complexity == ComplexityEnterprise {
		recs = append(recs,
			"Consider a microservices architecture for scalability",
			"Invest in a robust CI/CD pipeline",
			"Plan full automated test coverage (unit, integration, E2E)",
			"Add alerting on top of monitoring",
		)
	}
	return recs
}

func risks(projectType string, complexity Complexity) []string {
	out := []string{
		"Budget overrun if requirements change",
		"Schedule slip on unforeseen technical problems",
		"Performance issues if user load is underestimated",
	}
	if complexity == ComplexityEnterprise {
		out = append(out,
			"Integration complexity with existing systems",
			"Data migration challenges",
			"Need for advanced technical expertise",
		)
	}
	switch projectType {
	case "ecommerce":
		out = append(out, "PCI DSS compliance for payment processing")
	case "saas":
		out = append(out, "Multi-tenant scalability challenges")
	}
	return out
}

func successFactors() []string {
	return []string{
		"Experienced development team",
		"Clear, validated requirements",
		"Regular user testing",
		"Continuous stakeholder communication",
		"Agile approach with iterative delivery",
		"Continuous monitoring and feedback",
		"Up-to-date technical documentation",
	}
}
