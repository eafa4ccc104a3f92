package models

import (
	"fmt"
	"strings"
)

// Assignment is the party a candidate item is attributed to.
// The zero value is Shared, which is the state of every newly created item.
type Assignment int

const (
	Shared Assignment = iota
	PersonA
	PersonB
)

// Next returns the assignment that follows a in the toggle cycle
// Shared -> PersonA -> PersonB -> Shared.
func (a Assignment) Next() Assignment {
	switch a {
	case Shared:
		return PersonA
	case PersonA:
		return PersonB
	default:
		return Shared
	}
}

// Valid reports whether a is one of the three known assignments.
func (a Assignment) Valid() bool {
	return a == Shared || a == PersonA || a == PersonB
}

func (a Assignment) String() string {
	switch a {
	case PersonA:
		return "a"
	case PersonB:
		return "b"
	case Shared:
		return "shared"
	default:
		return fmt.Sprintf("Assignment(%d)", int(a))
	}
}

// ParseAssignment accepts "a", "b", "shared" and the aliases used by the CLI
// and older clients ("person1", "person2", "both", "s").
func ParseAssignment(s string) (Assignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "person1", "persona":
		return PersonA, nil
	case "b", "person2", "personb":
		return PersonB, nil
	case "shared", "both", "s", "":
		return Shared, nil
	}
	return Shared, fmt.Errorf("unknown assignment %q", s)
}
