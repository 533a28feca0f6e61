package schema

type projectTemplate struct {
	Name                 string
	BaseComponents       []string
	RequiredFeatures     []string
	ComplexityMultiplier float64
	EstimatedWeeks       int
}

// projectTemplates hold the baseline shape for each known project type.
// Unknown types fall back to the "api" template.
var projectTemplates = map[string]projectTemplate{
	"ecommerce": {
		Name:                 "E-commerce Platform",
		BaseComponents:       []string{"web_frontend", "api_backend", "database", "payment_gateway", "cdn"},
		RequiredFeatures:     []string{"user_auth", "product_catalog", "cart", "checkout", "admin_panel"},
		ComplexityMultiplier: 1.3,
		EstimatedWeeks:       16,
	},
	"saas": {
		Name:                 "SaaS Application",
		BaseComponents:       []string{"web_frontend", "api_backend", "database", "auth_service", "billing"},
		RequiredFeatures:     []string{"multi_tenant", "subscription", "analytics", "api_access"},
		ComplexityMultiplier: 1.5,
		EstimatedWeeks:       20,
	},
	"mobile": {
		Name:                 "Mobile Application",
		BaseComponents:       []string{"mobile_app", "api_backend", "database", "push_notifications"},
		RequiredFeatures:     []string{"offline_sync", "real_time", "user_auth"},
		ComplexityMultiplier: 1.2,
		EstimatedWeeks:       14,
	},
	"api": {
		Name:                 "REST API",
		BaseComponents:       []string{"api_backend", "database", "documentation", "monitoring"},
		RequiredFeatures:     []string{"versioning", "rate_limiting", "auth", "caching"},
		ComplexityMultiplier: 0.8,
		EstimatedWeeks:       8,
	},
	"dashboard": {
		Name:                 "Analytics Dashboard",
		BaseComponents:       []string{"web_frontend", "api_backend", "database", "analytics_engine"},
		RequiredFeatures:     []string{"real_time_data", "charts", "export", "user_management"},
		ComplexityMultiplier: 1.1,
		EstimatedWeeks:       12,
	},
}

func templateFor(projectType string) projectTemplate {
	if t, ok := projectTemplates[projectType]; ok {
		return t
	}
	return projectTemplates["api"]
}

func (t projectTemplate) hasComponent(name string) bool {
	for _, c := range t.BaseComponents {
		if c == name {
			return true
		}
	}
	return false
}
