package schema

const hoursPerWeek = 40

var complexityMultiplier = map[Complexity]float64{
	ComplexitySimple:     0.7,
	ComplexityModerate:   1.0,
	ComplexityComplex:    1.3,
	ComplexityEnterprise: 1.6,
}

// EstimateTimeline derives the delivery phases and total duration from the
// project template and complexity bucket.
func EstimateTimeline(projectType string, complexity Complexity) ([]ProjectPhase, int) {
	tmpl := templateFor(projectType)
	totalWeeks := int(float64(tmpl.EstimatedWeeks) * complexityMultiplier[complexity])
	if totalWeeks < 1 {
		totalWeeks = 1
	}

	phases := []ProjectPhase{
		{
			Name:          "Planning & Setup",
			Description:   "Requirements analysis, environment setup, detailed architecture",
			DurationWeeks: maxInt(1, totalWeeks/8),
			Tasks: []string{
				"Requirements analysis",
				"Detailed system architecture",
				"Development environment setup",
				"CI/CD configuration",
				"Database setup",
			},
			Deliverables: []string{
				"Architecture document",
				"Development environment",
				"Configured repository",
			},
			Dependencies: []string{},
			TeamSize:     2,
		},
		{
			Name:          "Backend Development",
			Description:   "API, database and business logic development",
			DurationWeeks: maxInt(2, totalWeeks/3),
			Tasks: []string{
				"Data models",
				"API endpoints",
				"Authentication",
				"Business logic",
				"Unit tests",
			},
			Deliverables: []string{
				"Working API",
				"API documentation",
				"Backend tests",
			},
			Dependencies: []string{"Planning & Setup"},
			TeamSize:     2,
		},
		{
			Name:          "Frontend Development",
			Description:   "User interface and API integration",
			DurationWeeks: maxInt(2, totalWeeks/3),
			Tasks: []string{
				"User interface",
				"API integration",
				"State management",
				"Responsive design",
				"Frontend tests",
			},
			Deliverables: []string{
				"Complete user interface",
				"Responsive application",
				"Frontend tests",
			},
			Dependencies: []string{"Backend Development"},
			TeamSize:     2,
		},
		{
			Name:          "Integration & Testing",
			Description:   "Integration tests, optimization, deployment preparation",
			DurationWeeks: maxInt(1, totalWeeks/6),
			Tasks: []string{
				"Integration tests",
				"E2E tests",
				"Performance optimization",
				"Security review",
				"Deployment preparation",
			},
			Deliverables: []string{
				"Tested application",
				"Security report",
				"Deployment guide",
			},
			Dependencies: []string{"Frontend Development"},
			TeamSize:     3,
		},
		{
			Name:          "Deployment & Launch",
			Description:   "Production deployment, monitoring, documentation",
			DurationWeeks: maxInt(1, totalWeeks/10),
			Tasks: []string{
				"Production deployment",
				"Monitoring configuration",
				"User documentation",
				"Team handover",
				"Go-live",
			},
			Deliverables: []string{
				"Application in production",
				"Active monitoring",
				"Complete documentation",
			},
			Dependencies: []string{"Integration & Testing"},
			TeamSize:     2,
		},
	}

	return phases, totalWeeks
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
