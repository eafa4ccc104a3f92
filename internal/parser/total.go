package parser

import (
	"regexp"

	"github.com/mmynk/duosplit/internal/money"
)

// totalPatterns are tried in order. Within a pattern the last match in the
// text wins, since partial totals print above the grand total. The leading
// non-letter guard keeps "Subtotal" from answering for "Total". Labels and
// amounts must share a line.
var totalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:^|[^a-z])total[ \t:]*\$?(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)amount(?:[ \t]+due)?[ \t:]*\$?(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)grand[ \t]+total[ \t:]*\$?(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)\$?(\d+\.\d{2})[ \t]*total`),
}

var anyAmount = regexp.MustCompile(`\$?(\d+\.\d{2})`)

// FindTotal returns the most likely grand total printed on the bill. When no
// labeled total exists it falls back to the largest two-decimal number in the
// text. It returns 0 when the text holds no qualifying number; callers must
// treat 0 as unknown.
func FindTotal(text string) money.Amount {
	for _, re := range totalPatterns {
		matches := re.FindAllStringSubmatch(text, -1)
		for i := len(matches) - 1; i >= 0; i-- {
			if a, err := money.Parse(matches[i][1]); err == nil {
				return a
			}
		}
	}

	var largest money.Amount
	for _, m := range anyAmount.FindAllStringSubmatch(text, -1) {
		a, err := money.Parse(m[1])
		if err != nil {
			continue
		}
		if a > largest {
			largest = a
		}
	}
	return largest
}
