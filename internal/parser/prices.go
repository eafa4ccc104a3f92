// Package parser turns recognized receipt text into candidate prices and a
// best-guess grand total. It knows nothing about images, OCR engines or how
// the amounts are later split.
package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mmynk/duosplit/internal/models"
	"github.com/mmynk/duosplit/internal/money"
)

// pricePatterns are applied in order of specificity. The last one reassembles
// "12 . 99" style artifacts where OCR split the decimal point off.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$(\d+\.\d{2})`),
	regexp.MustCompile(`(\d+\.\d{2})`),
	regexp.MustCompile(`\$\s*(\d+\.\d{2})`),
	regexp.MustCompile(`(\d+)\s*\.\s*(\d{2})`),
}

// metaLine matches lines holding totals or payment details rather than
// purchasable items.
var metaLine = regexp.MustCompile(`(?i)total|subtotal|tax|tip|change|cash|credit|debit|visa|mastercard`)

// Options tunes the parser.
type Options struct {
	// MaxCandidates caps the result to the largest N amounts. Zero means no cap.
	MaxCandidates int
}

// Parser extracts candidate item prices from OCR output.
type Parser struct {
	opts Options
}

// New creates a Parser with the given options.
func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Parse extracts candidate prices using default options (no cap).
func Parse(text string, words []models.Word) []models.CandidateItem {
	return New(Options{}).Parse(text, words)
}

// Parse returns deduplicated candidate items, each within the candidate range,
// sorted by descending amount. Words, when supplied, are scanned individually
// to recover prices lost while the engine assembled lines; a word whose value
// already exists only attaches its bounding box to that candidate.
func (p *Parser) Parse(text string, words []models.Word) []models.CandidateItem {
	items := make([]models.CandidateItem, 0)
	seen := make(map[money.Amount]int)
	// Amounts printed on total/tax/payment lines. Word tokens carrying only
	// these values are skipped as well.
	excluded := make(map[money.Amount]struct{})

	add := func(a money.Amount, region *models.Region) {
		if !a.InCandidateRange() {
			return
		}
		if _, ok := seen[a]; ok {
			return
		}
		item := models.NewCandidateItem(a, models.Recognized)
		item.SourceRegion = region
		seen[a] = len(items)
		items = append(items, item)
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		isMeta := metaLine.MatchString(line)
		for _, a := range amountsIn(line) {
			if isMeta {
				excluded[a] = struct{}{}
				continue
			}
			add(a, nil)
		}
	}

	for _, w := range words {
		token := strings.TrimSpace(w.Text)
		if token == "" {
			continue
		}
		for _, a := range amountsIn(token) {
			var region *models.Region
			if !w.Box.Empty() {
				box := w.Box
				region = &box
			}
			if idx, ok := seen[a]; ok {
				if items[idx].SourceRegion == nil {
					items[idx].SourceRegion = region
				}
				continue
			}
			if _, ok := excluded[a]; ok {
				continue
			}
			add(a, region)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Amount > items[j].Amount
	})

	if p.opts.MaxCandidates > 0 && len(items) > p.opts.MaxCandidates {
		items = items[:p.opts.MaxCandidates]
	}
	return items
}

// amountsIn returns every amount matched by pricePatterns in s, in pattern
// order. Duplicates are left for the caller to drop.
func amountsIn(s string) []money.Amount {
	var out []money.Amount
	for _, re := range pricePatterns {
		for _, m := range re.FindAllStringSubmatch(s, -1) {
			raw := m[1]
			if len(m) > 2 && m[2] != "" {
				raw = m[1] + "." + m[2]
			}
			a, err := money.Parse(raw)
			if err != nil {
				continue
			}
			out = append(out, a)
		}
	}
	return out
}
