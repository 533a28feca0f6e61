package projects

import (
	"regexp"
	"testing"
)

func TestNewPublicID(t *testing.T) {
	re := regexp.MustCompile(`^devplan-\d{5}-\d{4}$`)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := NewPublicID("devplan")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !re.MatchString(id) {
			t.Fatalf("unexpected format: %s", id)
		}
		seen[id] = true
	}

	// Not a strict guarantee, but 100 draws from a 900M space should
	// essentially never collide.
	if len(seen) < 95 {
		t.Errorf("suspicious collision rate: %d unique of 100", len(seen))
	}
}
