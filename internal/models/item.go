package models

import (
	"github.com/google/uuid"

	"github.com/mmynk/duosplit/internal/money"
)

// Origin records how a candidate item entered the bill.
type Origin int

const (
	// Recognized items come from OCR and are replaced on the next scan.
	Recognized Origin = iota
	// Manual items were typed in by the user and survive rescans.
	Manual
)

func (o Origin) String() string {
	if o == Manual {
		return "manual"
	}
	return "recognized"
}

// Region is a rectangle in native image pixel coordinates, origin top-left.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty reports whether the region has no area.
func (r Region) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// CandidateItem is a parsed monetary amount that may be a bill line item.
type CandidateItem struct {
	// ID is unique for the lifetime of one bill session (UUID format).
	ID string

	// Amount is the item price in cents.
	Amount money.Amount

	// SourceRegion is where the price was read from, if known.
	SourceRegion *Region

	// Assignment is the party the item is attributed to. Defaults to Shared.
	Assignment Assignment

	// Origin is Recognized for OCR output and Manual for typed entries.
	Origin Origin
}

// NewCandidateItem creates a Shared item with a fresh ID.
func NewCandidateItem(amount money.Amount, origin Origin) CandidateItem {
	return CandidateItem{
		ID:         uuid.NewString(),
		Amount:     amount,
		Assignment: Shared,
		Origin:     origin,
	}
}

// Word is a single recognized token with its bounding box and confidence in [0,1].
type Word struct {
	Text       string
	Box        Region
	Confidence float64
}
