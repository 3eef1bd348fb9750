package utils

import (
	"strings"
	"testing"
)

func TestGenerateRunID(t *testing.T) {
	id := GenerateRunID("greedy")
	if !strings.HasPrefix(id, "greedy-") {
		t.Errorf("expected greedy- prefix, got %s", id)
	}
	if !strings.HasPrefix(GenerateRunID(""), "run-") {
		t.Error("expected default run- prefix")
	}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateRunID("random")
		if seen[id] {
			t.Fatalf("duplicate run id %s", id)
		}
		seen[id] = true
	}
}
