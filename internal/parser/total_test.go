package parser

import "testing"

func TestFindTotal(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "labeled total", text: "Burger $8.99\nFries $3.50\nTotal $12.49", want: "12.49"},
		{name: "empty", text: "", want: "0.00"},
		{name: "subtotal not mistaken for total", text: "Subtotal $10.00\nTax 0.80\nTotal: $10.80", want: "10.80"},
		{name: "amount due", text: "Items 4\nAmount Due: 23.10", want: "23.10"},
		{name: "suffix label", text: "Pizza 15.00\n17.25 TOTAL", want: "17.25"},
		{name: "fallback to largest", text: "Fish 11.50\nChips 3.00\n14.50", want: "14.50"},
		{name: "no qualifying numbers", text: "Table 12\nGuests 2", want: "0.00"},
		{name: "last total line wins", text: "Food total 8.00\nTax 0.80\nTotal 8.80", want: "8.80"},
		{name: "label does not reach across lines", text: "Soup 6.00\nBread 3.50\nTotal", want: "6.00"},
		{name: "overflowing amount skipped", text: "Ref 92233720368547758.08\nTotal due", want: "0.00"},
		{name: "overflowing total falls back", text: "Salad 9.00\nTotal 184467440737095532.16", want: "9.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindTotal(tt.text).String(); got != tt.want {
				t.Errorf("FindTotal() = %s, want %s", got, tt.want)
			}
		})
	}
}
