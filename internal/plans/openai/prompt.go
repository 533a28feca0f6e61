package openai

import (
	"fmt"
	"strings"

	"github.com/devplan-ai/devplan-backend/internal/plans/domain"
)

const systemPrompt = "You are an expert in project management and software development. " +
	"You produce structured, detailed development plans."

// BuildPlanPrompt assembles the user prompt from the submitted fields.
// Only non-empty fields contribute a requirement line.
func BuildPlanPrompt(req *domain.PlanRequest) string {
	var b strings.Builder

	b.WriteString("Generate a complete development plan for the following project:\n\n")
	b.WriteString("## Project Description\n")
	b.WriteString(req.Description)
	b.WriteString("\n\n## Requirements\n")

	var stack []string
	for _, pref := range []string{req.FrontendPreference, req.BackendPreference, req.DatabasePreference} {
		if pref != "" {
			stack = append(stack, pref)
		}
	}
	if len(stack) > 0 {
		fmt.Fprintf(&b, "\n**Technology stack:** %s", strings.Join(stack, ", "))
	}
	if req.Timeline != "" {
		fmt.Fprintf(&b, "\n**Timeline:** %s", req.Timeline)
	}
	if req.TeamSize > 0 {
		fmt.Fprintf(&b, "\n**Team size:** %d developers", req.TeamSize)
	}
	if req.Budget != "" {
		fmt.Fprintf(&b, "\n**Budget:** %s", req.Budget)
	}
	if len(req.Features) > 0 {
		fmt.Fprintf(&b, "\n**Key features:** %s", strings.Join(req.Features, ", "))
	}

	b.WriteString(`

## Expected Response Format

Produce a structured plan with the following sections:

### 1. Project Analysis
- Main objectives
- Identified challenges
- Opportunities

### 2. Technical Architecture
- Recommended technology stack
- System architecture
- Database choices

### 3. Development Schedule
- Project phases
- Key milestones
- Detailed timeline

### 4. Team Organization
- Roles and responsibilities
- Required skills
- Collaboration structure

### 5. Deployment Strategy
- Environments
- CI/CD
- Monitoring

### 6. Risk Management
- Identified risks
- Mitigation plans
- Contingencies

### 7. Budget Estimate
- Development costs
- Infrastructure
- Maintenance

Be precise, practical and actionable in your recommendations.
`)

	return b.String()
}
