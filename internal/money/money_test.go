package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Amount
		wantErr bool
	}{
		{in: "12.99", want: 1299},
		{in: "$12.99", want: 1299},
		{in: "$ 12.99", want: 1299},
		{in: " 7 ", want: 700},
		{in: "0.005", want: 1},
		{in: "3.504", want: 350},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "-1.00", wantErr: true},
		{in: "92233720368547758.00", want: 9223372036854775800},
		{in: "92233720368547758.08", wantErr: true},
		{in: "184467440737095532.16", wantErr: true},
		{in: "1e3", wantErr: true},
		{in: "2E1", wantErr: true},
		{in: "1e5000000", wantErr: true},
		{in: "000000000000000000000000000000001.00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("Parse(%q) error = %v, want ErrInvalidAmount", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestCandidateRange(t *testing.T) {
	if Amount(0).InCandidateRange() {
		t.Error("0.00 should be out of range")
	}
	if !MinCandidate.InCandidateRange() || !MaxCandidate.InCandidateRange() {
		t.Error("range bounds should be inclusive")
	}
	if (MaxCandidate + 1).InCandidateRange() {
		t.Error("10000.01 should be out of range")
	}
}

func TestStringAndDecimal(t *testing.T) {
	a := MustParse("8.5")
	if a.String() != "8.50" {
		t.Errorf("String() = %s, want 8.50", a.String())
	}
	if !a.Decimal().Equal(decimal.RequireFromString("8.5")) {
		t.Errorf("Decimal() = %s, want 8.5", a.Decimal())
	}
	if got := Sum(MustParse("8.99"), MustParse("3.50")); got != 1249 {
		t.Errorf("Sum = %d, want 1249", got)
	}
}
