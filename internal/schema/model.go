// Package schema produces the deterministic part of a development plan:
// complexity analysis, technology recommendations, architecture layout,
// phase timeline and cost estimates. It complements the free-text plan
// returned by the completion API.
package schema

import "time"

// Complexity buckets a project by how much engineering it needs.
type Complexity string

const (
	ComplexitySimple     Complexity = "simple"
	ComplexityModerate   Complexity = "moderate"
	ComplexityComplex    Complexity = "complex"
	ComplexityEnterprise Complexity = "enterprise"
)

// TechCategory groups technologies by concern.
type TechCategory string

const (
	CategoryFrontend TechCategory = "frontend"
	CategoryBackend  TechCategory = "backend"
	CategoryDatabase TechCategory = "database"
)

// TechnologyRecommendation is one stack suggestion with its rationale.
type TechnologyRecommendation struct {
	Name            string       `json:"name"`
	Category        TechCategory `json:"category"`
	Version         string       `json:"version"`
	Reason          string       `json:"reason"`
	Alternatives    []string     `json:"alternatives"`
	LearningCurve   string       `json:"learning_curve"`   // easy, moderate, difficult
	PopularityScore int          `json:"popularity_score"` // 1-10
	MaintenanceCost string       `json:"maintenance_cost"` // low, medium, high
}

// ArchitectureComponent is one box in the recommended system layout.
type ArchitectureComponent struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"` // web_application, rest_api, database, cache, ...
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Connections  []string `json:"connections"`
	Scalability  string   `json:"scalability"`
	Complexity   int      `json:"estimated_complexity"` // 1-10
}

// TimeEstimation bounds the effort for the whole project.
type TimeEstimation struct {
	TaskName       string   `json:"task_name"`
	EstimatedHours int      `json:"estimated_hours"`
	MinHours       int      `json:"min_hours"`
	MaxHours       int      `json:"max_hours"`
	CriticalPath   bool     `json:"critical_path"`
	RequiredSkills []string `json:"required_skills"`
}

// CostEstimation summarizes money over the first year and beyond.
type CostEstimation struct {
	DevelopmentCost           float64            `json:"development_cost"`
	InfrastructureCostMonthly float64            `json:"infrastructure_cost_monthly"`
	MaintenanceCostMonthly    float64            `json:"maintenance_cost_monthly"`
	ThirdPartyServices        map[string]float64 `json:"third_party_services"`
	TotalFirstYear            float64            `json:"total_first_year"`
	OngoingYearly             float64            `json:"ongoing_yearly"`
	// PricingSource records where the infra figure came from:
	// "static" for the built-in table, "live" for the cloud pricing store.
	PricingSource string `json:"pricing_source"`
}

// ProjectPhase is one stage of the delivery schedule.
type ProjectPhase struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	DurationWeeks int      `json:"duration_weeks"`
	Tasks         []string `json:"tasks"`
	Deliverables  []string `json:"deliverables"`
	Dependencies  []string `json:"dependencies"`
	TeamSize      int      `json:"team_size"`
}

// DetailedSchema is the complete generated technical schema.
type DetailedSchema struct {
	ProjectName string     `json:"project_name"`
	ProjectType string     `json:"project_type"`
	Description string     `json:"description"`
	Complexity  Complexity `json:"complexity"`

	ArchitectureComponents []ArchitectureComponent `json:"architecture_components"`
	SystemArchitecture     string                  `json:"system_architecture"`
	DataFlow               string                  `json:"data_flow"`

	TechRecommendations []TechnologyRecommendation `json:"tech_recommendations"`
	TechStackSummary    map[string]string          `json:"tech_stack_summary"`

	ProjectPhases      []ProjectPhase `json:"project_phases"`
	TotalDurationWeeks int            `json:"total_duration_weeks"`

	TimeEstimation TimeEstimation `json:"time_estimation"`
	CostEstimation CostEstimation `json:"cost_estimation"`

	GeneratedAt     time.Time `json:"generated_at"`
	ConfidenceScore float64   `json:"confidence_score"`
	Recommendations []string  `json:"recommendations"`
	Risks           []string  `json:"risks"`
	SuccessFactors  []string  `json:"success_factors"`
}
