package parser

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/mmynk/duosplit/internal/models"
	"github.com/mmynk/duosplit/internal/money"
)

func amounts(items []models.CandidateItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Amount.String()
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		words []models.Word
		want  []string
	}{
		{
			name: "receipt lines skip total",
			text: "Burger $8.99\nFries $3.50\nTotal $12.49",
			want: []string{"8.99", "3.50"},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
		{
			name: "whitespace only",
			text: "  \n\t \n",
			want: []string{},
		},
		{
			name: "no numbers",
			text: "THANK YOU\nCOME AGAIN",
			want: []string{},
		},
		{
			name: "duplicate price counted once",
			text: "Soda 2.50\nSoda 2.50\nChips $ 1.25",
			want: []string{"2.50", "1.25"},
		},
		{
			name: "split decimal artifact",
			text: "Pasta 14 . 75",
			want: []string{"14.75"},
		},
		{
			name: "out of range values dropped",
			text: "Phone 55512.34\nZero 0.00\nSalad 9.00",
			want: []string{"9.00"},
		},
		{
			name: "overlong reference numbers are not prices",
			text: "Order ref 184467440737095532.16\nInvoice 92233720368547758.08\nSoda 2.50",
			want: []string{"2.50"},
		},
		{
			name: "payment metadata lines excluded",
			text: "Steak 24.00\nTax 2.16\nTip 4.00\nVISA 30.16\nChange 0.84",
			want: []string{"24.00"},
		},
		{
			name: "words recover merged tokens",
			text: "Coffee",
			words: []models.Word{
				{Text: "Coffee"},
				{Text: "$4.10", Box: models.Region{X: 300, Y: 40, Width: 60, Height: 20}},
			},
			want: []string{"4.10"},
		},
		{
			name: "words from total line are skipped",
			text: "Wrap 6.00\nTotal 6.50",
			words: []models.Word{
				{Text: "6.00"},
				{Text: "Total"},
				{Text: "6.50"},
			},
			want: []string{"6.00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := amounts(Parse(tt.text, tt.words))
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Parse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseAttachesWordRegion(t *testing.T) {
	box := models.Region{X: 10, Y: 20, Width: 50, Height: 18}
	items := Parse("Burger 8.99", []models.Word{{Text: "8.99", Box: box, Confidence: 0.91}})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].SourceRegion == nil || *items[0].SourceRegion != box {
		t.Errorf("SourceRegion = %+v, want %+v", items[0].SourceRegion, box)
	}
	if items[0].Assignment != models.Shared {
		t.Errorf("parsed item assignment = %s, want shared", items[0].Assignment)
	}
}

func TestParseMaxCandidates(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 30; i++ {
		fmt.Fprintf(&b, "Item %d $%d.00\n", i, i)
	}
	items := New(Options{MaxCandidates: 20}).Parse(b.String(), nil)
	if len(items) != 20 {
		t.Fatalf("expected 20 items, got %d", len(items))
	}
	if items[0].Amount != money.MustParse("30.00") || items[19].Amount != money.MustParse("11.00") {
		t.Errorf("expected the 20 largest amounts, got %s..%s", items[0].Amount, items[19].Amount)
	}
}

func TestParseInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []byte("0123456789.$ \nabcTotal")
	for i := 0; i < 500; i++ {
		buf := make([]byte, rng.Intn(120))
		for j := range buf {
			buf[j] = alphabet[rng.Intn(len(alphabet))]
		}
		items := Parse(string(buf), nil)
		seen := map[money.Amount]bool{}
		for k, item := range items {
			if !item.Amount.InCandidateRange() {
				t.Fatalf("amount %s out of range for input %q", item.Amount, buf)
			}
			if seen[item.Amount] {
				t.Fatalf("duplicate amount %s for input %q", item.Amount, buf)
			}
			seen[item.Amount] = true
			if k > 0 && items[k-1].Amount < item.Amount {
				t.Fatalf("not sorted descending for input %q", buf)
			}
		}
	}
}
