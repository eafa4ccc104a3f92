package models

import (
	"testing"

	"github.com/mmynk/duosplit/internal/money"
)

func TestAssignmentCycle(t *testing.T) {
	tests := []struct {
		from Assignment
		want Assignment
	}{
		{Shared, PersonA},
		{PersonA, PersonB},
		{PersonB, Shared},
	}
	for _, tt := range tests {
		if got := tt.from.Next(); got != tt.want {
			t.Errorf("%s.Next() = %s, want %s", tt.from, got, tt.want)
		}
	}

	for _, start := range []Assignment{Shared, PersonA, PersonB} {
		a := start
		for i := 0; i < 3; i++ {
			a = a.Next()
		}
		if a != start {
			t.Errorf("three transitions from %s ended at %s", start, a)
		}
	}
}

func TestParseAssignment(t *testing.T) {
	for in, want := range map[string]Assignment{
		"a": PersonA, "Person1": PersonA, "b": PersonB, "person2": PersonB,
		"both": Shared, "shared": Shared, "": Shared,
	} {
		got, err := ParseAssignment(in)
		if err != nil {
			t.Fatalf("ParseAssignment(%q) error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseAssignment(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseAssignment("carol"); err == nil {
		t.Error("expected error for unknown assignment")
	}
}

func TestNewCandidateItem(t *testing.T) {
	a := NewCandidateItem(money.MustParse("4.25"), Manual)
	b := NewCandidateItem(money.MustParse("4.25"), Manual)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected unique non-empty IDs, got %q and %q", a.ID, b.ID)
	}
	if a.Assignment != Shared {
		t.Errorf("new item assignment = %s, want shared", a.Assignment)
	}
}
