package validate

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/devplan-ai/devplan-backend/internal/plans/domain"
)

func TestPlanRequest_Valid(t *testing.T) {
	req := &domain.PlanRequest{
		Description: "A marketplace for local artists to sell their work",
		ProjectType: "ecommerce",
		Scale:       "medium",
		Timeline:    "3 months",
		TeamSize:    4,
		Budget:      "50k$",
		Features:    []string{"user accounts", "shopping cart", "payments"},
	}

	if errs := PlanRequest(req); len(errs) != 0 {
		t.Errorf("expected no validation errors, got %v", errs)
	}
}

func TestPlanRequest_DescriptionTooShort(t *testing.T) {
	req := &domain.PlanRequest{Description: "short"}

	errs := PlanRequest(req)
	if len(errs) == 0 {
		t.Fatal("expected validation errors, got none")
	}
	if !strings.Contains(errs[0], "at least 10 characters") {
		t.Errorf("unexpected error: %s", errs[0])
	}
}

func TestPlanRequest_DescriptionTooLong(t *testing.T) {
	req := &domain.PlanRequest{Description: strings.Repeat("a", 5001)}

	errs := PlanRequest(req)
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if !strings.Contains(errs[0], "cannot exceed 5000") {
		t.Errorf("unexpected error: %s", errs[0])
	}
}

func TestPlanRequest_DangerousMarkup(t *testing.T) {
	cases := []string{
		"build me a site <script>alert(1)</script> please",
		"my project uses javascript:void(0) links everywhere",
		"something with <iframe src='x'> embedded content",
		"an image with onload= handler for tracking",
	}

	for _, desc := range cases {
		errs := PlanRequest(&domain.PlanRequest{Description: desc})
		found := false
		for _, e := range errs {
			if strings.Contains(e, "disallowed markup") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected markup error for %q, got %v", desc, errs)
		}
	}
}

func TestPlanRequest_TimelineFormats(t *testing.T) {
	valid := []string{"3 months", "2-4 weeks", "1 week", "urgent", "Flexible", " normal "}
	for _, tl := range valid {
		req := &domain.PlanRequest{
			Description: "a sufficiently long project description",
			Timeline:    tl,
		}
		if errs := PlanRequest(req); len(errs) != 0 {
			t.Errorf("timeline %q should be valid, got %v", tl, errs)
		}
	}

	invalid := []string{"sometime", "3", "weeks 3", "asap!!"}
	for _, tl := range invalid {
		req := &domain.PlanRequest{
			Description: "a sufficiently long project description",
			Timeline:    tl,
		}
		if errs := PlanRequest(req); len(errs) == 0 {
			t.Errorf("timeline %q should be rejected", tl)
		}
	}
}

func TestPlanRequest_BudgetFormats(t *testing.T) {
	valid := []string{"50k$", "10-50k", "medium", "unlimited", "100000€", "5000 dollars"}
	for _, b := range valid {
		req := &domain.PlanRequest{
			Description: "a sufficiently long project description",
			Budget:      b,
		}
		if errs := PlanRequest(req); len(errs) != 0 {
			t.Errorf("budget %q should be valid, got %v", b, errs)
		}
	}

	if errs := PlanRequest(&domain.PlanRequest{
		Description: "a sufficiently long project description",
		Budget:      "lots of money",
	}); len(errs) == 0 {
		t.Error("budget 'lots of money' should be rejected")
	}
}

func TestPlanRequest_TeamSize(t *testing.T) {
	base := "a sufficiently long project description"

	if errs := PlanRequest(&domain.PlanRequest{Description: base, TeamSize: -1}); len(errs) == 0 {
		t.Error("negative team size should be rejected")
	}
	if errs := PlanRequest(&domain.PlanRequest{Description: base, TeamSize: 51}); len(errs) == 0 {
		t.Error("team size above 50 should be rejected")
	}
	if errs := PlanRequest(&domain.PlanRequest{Description: base, TeamSize: 50}); len(errs) != 0 {
		t.Errorf("team size 50 should be valid, got %v", errs)
	}
}

func TestPlanRequest_Features(t *testing.T) {
	base := "a sufficiently long project description"

	errs := PlanRequest(&domain.PlanRequest{
		Description: base,
		Features:    []string{"ok feature", "ab", strings.Repeat("x", 201)},
	})
	if len(errs) != 2 {
		t.Fatalf("expected two feature errors, got %v", errs)
	}
	if !strings.Contains(errs[0], "feature 2") {
		t.Errorf("expected error for feature 2, got %s", errs[0])
	}
	if !strings.Contains(errs[1], "feature 3") {
		t.Errorf("expected error for feature 3, got %s", errs[1])
	}
}

func TestSanitize(t *testing.T) {
	in := `Build a shop <script type="text/javascript">steal()</script> with <iframe src="evil"> and onclick="run()" handlers`
	out := Sanitize(in)

	for _, banned := range []string{"<script", "<iframe", `onclick="run()"`} {
		if strings.Contains(out, banned) {
			t.Errorf("sanitized output still contains %q: %s", banned, out)
		}
	}
}

func TestSanitize_CapsLength(t *testing.T) {
	out := Sanitize(strings.Repeat("a", 12000))
	if len(out) != 10003 {
		t.Errorf("expected capped length 10003, got %d", len(out))
	}
	if !strings.HasSuffix(out, "...") {
		t.Error("expected truncation marker")
	}
}

func TestSanitize_CapsOnRuneBoundary(t *testing.T) {
	// 3-byte runes: the byte cap lands mid-rune and must back up.
	out := Sanitize(strings.Repeat("€", 4000))

	if !utf8.ValidString(out) {
		t.Error("truncated output is not valid UTF-8")
	}
	if !strings.HasSuffix(out, "...") {
		t.Error("expected truncation marker")
	}
	if len(out) > 10003 {
		t.Errorf("expected at most 10003 bytes, got %d", len(out))
	}
}

func TestSupportedModel(t *testing.T) {
	for _, model := range []string{"gpt-3.5-turbo", "gpt-4", " GPT-4-32k "} {
		if !SupportedModel(model) {
			t.Errorf("%q should be supported", model)
		}
	}
	for _, model := range []string{"", "gpt-2", "llama-70b"} {
		if SupportedModel(model) {
			t.Errorf("%q should not be supported", model)
		}
	}
}

func TestAPIKey(t *testing.T) {
	if errs := APIKey(""); len(errs) == 0 {
		t.Error("empty key should be rejected")
	}
	if errs := APIKey("pk-" + strings.Repeat("a", 45)); len(errs) == 0 {
		t.Error("key without sk- prefix should be rejected")
	}
	if errs := APIKey("sk-short"); len(errs) == 0 {
		t.Error("short key should be rejected")
	}
	if errs := APIKey("sk-" + strings.Repeat("a", 45)); len(errs) != 0 {
		t.Errorf("valid key rejected: %v", errs)
	}
}

func TestKnownTechnology(t *testing.T) {
	for _, name := range []string{"react", "PostgreSQL", " Node.js "} {
		if !KnownTechnology(name) {
			t.Errorf("%q should be known", name)
		}
	}
	if KnownTechnology("cobol") {
		t.Error("cobol should not be known")
	}
}
