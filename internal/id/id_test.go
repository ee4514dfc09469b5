package id

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDFormat(t *testing.T) {
	u := UUID()
	if _, err := uuid.Parse(u); err != nil {
		t.Errorf("UUID() = %q, not a canonical UUID: %v", u, err)
	}
}

func TestShortIsHex(t *testing.T) {
	got := Short()
	if len(got) != 16 {
		t.Errorf("Short() = %q, want 16 hex chars", got)
	}
	if _, err := hex.DecodeString(got); err != nil {
		t.Errorf("Short() = %q, not hex: %v", got, err)
	}
}

func TestEntryPrefix(t *testing.T) {
	if got := Entry(); !strings.HasPrefix(got, "req-") {
		t.Errorf("Entry() = %q, want req- prefix", got)
	}
}

func TestUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		u := Short()
		if seen[u] {
			t.Fatalf("duplicate ID generated: %s", u)
		}
		seen[u] = true
	}
}
