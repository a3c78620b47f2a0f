package db

import (
	"testing"

	"github.com/jonathan/job-scout/internal/pipeline"
)

// The store must remain usable wherever the pipeline expects persistence.
var _ pipeline.MatchStore = (*MatchRecordStore)(nil)

func TestHashContent(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string // SHA-256 of the text
	}{
		{"empty", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"hello", "hello", "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HashContent(tt.text)
			if result != tt.expected {
				t.Errorf("HashContent(%q) = %q, want %q", tt.text, result, tt.expected)
			}
		})
	}

	// Same input should give same hash
	hash1 := HashContent("senior backend engineer")
	hash2 := HashContent("senior backend engineer")
	if hash1 != hash2 {
		t.Error("Same content should produce same hash")
	}

	// Changed content must produce a different hash, since a hash change
	// is what triggers stale marking.
	if HashContent("v1 text") == HashContent("v2 text") {
		t.Error("Different content should produce different hashes")
	}
}
