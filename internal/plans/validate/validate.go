// Package validate checks generator form submissions before anything is
// sent upstream. A request that fails validation never reaches the
// completion API.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/devplan-ai/devplan-backend/internal/plans/domain"
)

const (
	minDescriptionLen = 10
	maxDescriptionLen = 5000
	maxTeamSize       = 50
	minFeatureLen     = 3
	maxFeatureLen     = 200
)

var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script[^>]*>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)onload\s*=`),
	regexp.MustCompile(`(?i)onerror\s*=`),
	regexp.MustCompile(`(?i)<iframe[^>]*>`),
}

var timelinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\s*(week|weeks|month|months)$`),
	regexp.MustCompile(`^\d+\s*-\s*\d+\s*(week|weeks|month|months)$`),
	regexp.MustCompile(`^(urgent|normal|flexible)$`),
}

var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+k?\$?$`),
	regexp.MustCompile(`^\d+\s*-\s*\d+k?\$?$`),
	regexp.MustCompile(`^(small|medium|large|unlimited)$`),
	regexp.MustCompile(`^\d+\s*(euros?|dollars?|\$|€)$`),
}

var knownTechnologies = map[string][]string{
	"frontend": {"react", "vue", "angular", "svelte", "vanilla js", "next.js", "nuxt.js"},
	"backend":  {"node.js", "python", "java", "c#", "php", "ruby", "go", "rust"},
	"database": {"mysql", "postgresql", "mongodb", "redis", "sqlite", "firebase"},
	"cloud":    {"aws", "azure", "gcp", "heroku", "vercel", "netlify"},
}

// PlanRequest validates a full generation request. It returns every problem
// found, not just the first one.
func PlanRequest(req *domain.PlanRequest) []string {
	var errs []string

	errs = append(errs, description(req.Description)...)

	if req.Timeline != "" {
		errs = append(errs, timeline(req.Timeline)...)
	}
	if req.TeamSize != 0 {
		errs = append(errs, teamSize(req.TeamSize)...)
	}
	if req.Budget != "" {
		errs = append(errs, budget(req.Budget)...)
	}
	if len(req.Features) > 0 {
		errs = append(errs, features(req.Features)...)
	}

	return errs
}

func description(desc string) []string {
	var errs []string
	trimmed := strings.TrimSpace(desc)

	if len(trimmed) < minDescriptionLen {
		errs = append(errs, fmt.Sprintf("project description must contain at least %d characters", minDescriptionLen))
	}
	if len(trimmed) > maxDescriptionLen {
		errs = append(errs, fmt.Sprintf("project description cannot exceed %d characters", maxDescriptionLen))
	}

	for _, p := range dangerousPatterns {
		if p.MatchString(desc) {
			errs = append(errs, "project description contains disallowed markup")
			break
		}
	}

	return errs
}

func timeline(t string) []string {
	norm := strings.ToLower(strings.TrimSpace(t))
	for _, p := range timelinePatterns {
		if p.MatchString(norm) {
			return nil
		}
	}
	return []string{"invalid timeline format; examples: '3 months', '2-4 weeks', 'urgent'"}
}

func teamSize(n int) []string {
	if n < 1 {
		return []string{"team size must be at least 1"}
	}
	if n > maxTeamSize {
		return []string{fmt.Sprintf("team size cannot exceed %d developers", maxTeamSize)}
	}
	return nil
}

func budget(b string) []string {
	norm := strings.ToLower(strings.TrimSpace(b))
	for _, p := range budgetPatterns {
		if p.MatchString(norm) {
			return nil
		}
	}
	return []string{"invalid budget format; examples: '50k$', '10-50k', 'medium', '100000€'"}
}

func features(list []string) []string {
	var errs []string
	for i, f := range list {
		trimmed := strings.TrimSpace(f)
		if len(trimmed) < minFeatureLen {
			errs = append(errs, fmt.Sprintf("feature %d must contain at least %d characters", i+1, minFeatureLen))
		} else if len(trimmed) > maxFeatureLen {
			errs = append(errs, fmt.Sprintf("feature %d cannot exceed %d characters", i+1, maxFeatureLen))
		}
	}
	return errs
}

// KnownTechnology reports whether name appears in the curated stack list.
// Unknown technologies are logged as warnings by callers, never rejected.
func KnownTechnology(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, category := range knownTechnologies {
		for _, tech := range category {
			if tech == lower {
				return true
			}
		}
	}
	return false
}

var supportedModels = []string{
	"gpt-3.5-turbo",
	"gpt-3.5-turbo-16k",
	"gpt-4",
	"gpt-4-32k",
	"gpt-4-turbo-preview",
}

// SupportedModel reports whether the model is on the supported list. An
// off-list model is logged at client construction, not rejected, since the
// base URL can point at any compatible endpoint.
func SupportedModel(model string) bool {
	norm := strings.ToLower(strings.TrimSpace(model))
	for _, m := range supportedModels {
		if m == norm {
			return true
		}
	}
	return false
}

// APIKey checks the shape of an OpenAI key without calling the API.
func APIKey(key string) []string {
	var errs []string
	if key == "" {
		return []string{"OpenAI API key is required"}
	}
	if !strings.HasPrefix(key, "sk-") {
		errs = append(errs, "OpenAI API key must start with 'sk-'")
	} else if len(key) < 40 {
		errs = append(errs, "OpenAI API key looks too short")
	}
	return errs
}
