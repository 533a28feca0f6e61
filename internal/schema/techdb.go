package schema

type techEntry struct {
	Name            string
	Version         string
	LearningCurve   string
	PopularityScore int
	MaintenanceCost string
	BestFor         []string
}

// techDatabase is the curated catalogue recommendations are drawn from.
var techDatabase = map[TechCategory]map[string]techEntry{
	CategoryFrontend: {
		"react": {
			Name:            "React",
			Version:         "18.x",
			LearningCurve:   "moderate",
			PopularityScore: 9,
			MaintenanceCost: "medium",
			BestFor:         []string{"spa", "interactive_ui", "large_teams"},
		},
		"vue": {
			Name:            "Vue.js",
			Version:         "3.x",
			LearningCurve:   "easy",
			PopularityScore: 8,
			MaintenanceCost: "low",
			BestFor:         []string{"rapid_prototyping", "small_teams", "progressive_enhancement"},
		},
		"nextjs": {
			Name:            "Next.js",
			Version:         "14.x",
			LearningCurve:   "moderate",
			PopularityScore: 9,
			MaintenanceCost: "medium",
			BestFor:         []string{"seo_important", "ssr", "full_stack"},
		},
	},
	CategoryBackend: {
		"nodejs": {
			Name:            "Node.js",
			Version:         "20.x LTS",
			LearningCurve:   "easy",
			PopularityScore: 9,
			MaintenanceCost: "medium",
			BestFor:         []string{"api_development", "real_time", "microservices"},
		},
		"python": {
			Name:            "Python",
			Version:         "3.12",
			LearningCurve:   "easy",
			PopularityScore: 10,
			MaintenanceCost: "low",
			BestFor:         []string{"data_processing", "ai_ml", "rapid_development"},
		},
		"java": {
			Name:            "Java",
			Version:         "21 LTS",
			LearningCurve:   "moderate",
			PopularityScore: 8,
			MaintenanceCost: "high",
			BestFor:         []string{"enterprise", "high_performance", "large_teams"},
		},
	},
	CategoryDatabase: {
		"postgresql": {
			Name:            "PostgreSQL",
			Version:         "16.x",
			LearningCurve:   "moderate",
			PopularityScore: 9,
			MaintenanceCost: "medium",
			BestFor:         []string{"relational_data", "complex_queries", "acid_compliance"},
		},
		"mongodb": {
			Name:            "MongoDB",
			Version:         "7.x",
			LearningCurve:   "easy",
			PopularityScore: 8,
			MaintenanceCost: "medium",
			BestFor:         []string{"document_storage", "rapid_prototyping", "flexible_schema"},
		},
		"redis": {
			Name:            "Redis",
			Version:         "7.x",
			LearningCurve:   "easy",
			PopularityScore: 9,
			MaintenanceCost: "low",
			BestFor:         []string{"caching", "session_storage", "real_time"},
		},
	},
}

func categoryKeys(cat TechCategory) []string {
	entries := techDatabase[cat]
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	return keys
}
