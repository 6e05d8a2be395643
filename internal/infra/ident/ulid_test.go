package ident

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestRunIDGeneratorIsMonotonic(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	gen := NewRunIDGeneratorWithClock(func() time.Time { return fixed })

	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("NewID returned error: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("NewID returned error: %v", err)
	}
	if second <= first {
		t.Fatalf("expected %s > %s", second, first)
	}

	parsed, err := ulid.Parse(first)
	if err != nil {
		t.Fatalf("parse ulid: %v", err)
	}
	if got := ulid.Time(parsed.Time()); !got.Equal(fixed) {
		t.Fatalf("expected timestamp %v, got %v", fixed, got)
	}
}
