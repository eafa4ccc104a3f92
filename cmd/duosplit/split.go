package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/duosplit/internal/calculator"
	"github.com/mmynk/duosplit/internal/models"
	"github.com/mmynk/duosplit/internal/money"
)

type splitOptions struct {
	tax      string
	taxRate  string
	total    string
	estimate bool
	tip      string
	payer    string
	nameA    string
	nameB    string
	json     bool
}

func newSplitCmd() *cobra.Command {
	opts := &splitOptions{}
	cmd := &cobra.Command{
		Use:   "split ITEM...",
		Short: "Allocate items, tax and tip",
		Long: `Each ITEM is OWNER:AMOUNT where OWNER is a, b or s (shared).
A bare AMOUNT is shared.

Tax comes from exactly one of --tax, --tax-rate, --total (inferred as total
minus subtotal) or --estimate.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd.OutOrStdout(), args, *opts)
		},
	}

	cmd.Flags().StringVar(&opts.tax, "tax", "", "Tax amount")
	cmd.Flags().StringVar(&opts.taxRate, "tax-rate", "", "Tax as a percentage of the subtotal")
	cmd.Flags().StringVar(&opts.total, "total", "", "Bill total; tax is inferred as total minus subtotal")
	cmd.Flags().BoolVar(&opts.estimate, "estimate", false, "Estimate tax at the default rate")
	cmd.Flags().StringVar(&opts.tip, "tip", "0", "Tip percentage")
	cmd.Flags().StringVar(&opts.payer, "payer", "", "Who paid the bill (a or b); prints the settlement")
	cmd.Flags().StringVar(&opts.nameA, "name-a", "Person 1", "Display name for person a")
	cmd.Flags().StringVar(&opts.nameB, "name-b", "Person 2", "Display name for person b")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output results as JSON")
	cmd.MarkFlagsMutuallyExclusive("tax", "tax-rate", "total", "estimate")
	return cmd
}

// parseItem reads "a:12.50", "s:3" or a bare amount.
func parseItem(s string) (calculator.Item, error) {
	owner, amount, found := strings.Cut(s, ":")
	if !found {
		owner, amount = "shared", s
	}
	a, err := models.ParseAssignment(owner)
	if err != nil {
		return calculator.Item{}, fmt.Errorf("item %q: %w", s, err)
	}
	amt, err := money.Parse(amount)
	if err != nil {
		return calculator.Item{}, fmt.Errorf("item %q: %w", s, err)
	}
	return calculator.Item{Amount: amt, Assignment: a}, nil
}

func parsePercent(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid percentage %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("percentage %q is negative", s)
	}
	return d, nil
}

func (o splitOptions) resolveTax(subtotal money.Amount) (calculator.Tax, error) {
	switch {
	case o.tax != "":
		amt, err := money.Parse(o.tax)
		if err != nil {
			return calculator.Tax{}, fmt.Errorf("--tax: %w", err)
		}
		return calculator.DeclaredTax(amt), nil
	case o.taxRate != "":
		rate, err := parsePercent(o.taxRate)
		if err != nil {
			return calculator.Tax{}, fmt.Errorf("--tax-rate: %w", err)
		}
		return calculator.TaxAtRate(subtotal, rate), nil
	case o.total != "":
		total, err := money.Parse(o.total)
		if err != nil {
			return calculator.Tax{}, fmt.Errorf("--total: %w", err)
		}
		return calculator.InferTax(total, subtotal), nil
	case o.estimate:
		return calculator.EstimateTax(subtotal), nil
	}
	return calculator.Tax{}, nil
}

type splitPerson struct {
	Name     string `json:"name"`
	Subtotal string `json:"subtotal"`
	Base     string `json:"base"`
	Tax      string `json:"tax"`
	Tip      string `json:"tip"`
	Total    string `json:"total"`
}

type splitResult struct {
	Shared         string       `json:"shared"`
	Subtotal       string       `json:"subtotal"`
	Tax            string       `json:"tax"`
	TaxSource      string       `json:"tax_source"`
	UnallocatedTax string       `json:"unallocated_tax,omitempty"`
	TipPercent     string       `json:"tip_percent"`
	Tip            string       `json:"tip"`
	GrandTotal     string       `json:"grand_total"`
	A              splitPerson  `json:"a"`
	B              splitPerson  `json:"b"`
	Settlement     *settleEntry `json:"settlement,omitempty"`
}

type settleEntry struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func runSplit(w io.Writer, args []string, opts splitOptions) error {
	items := make([]calculator.Item, 0, len(args))
	var subtotal money.Amount
	for _, arg := range args {
		item, err := parseItem(arg)
		if err != nil {
			return err
		}
		items = append(items, item)
		subtotal += item.Amount
	}

	tax, err := opts.resolveTax(subtotal)
	if err != nil {
		return err
	}
	tip, err := parsePercent(opts.tip)
	if err != nil {
		return fmt.Errorf("--tip: %w", err)
	}

	d := calculator.Allocate(items, tax.Amount, tip).Display()
	names := map[models.Assignment]string{models.PersonA: opts.nameA, models.PersonB: opts.nameB}

	res := splitResult{
		Shared:     d.SharedSubtotal.String(),
		Subtotal:   d.GrandSubtotal.String(),
		Tax:        d.TaxAmount.String(),
		TaxSource:  tax.Source.String(),
		TipPercent: d.TipPercent.String(),
		Tip:        d.TipAmount.String(),
		GrandTotal: d.GrandTotal.String(),
		A: splitPerson{
			Name: opts.nameA, Subtotal: d.PersonASubtotal.String(), Base: d.PersonABase.String(),
			Tax: d.PersonATax.String(), Tip: d.PersonATip.String(), Total: d.PersonAFinal.String(),
		},
		B: splitPerson{
			Name: opts.nameB, Subtotal: d.PersonBSubtotal.String(), Base: d.PersonBBase.String(),
			Tax: d.PersonBTax.String(), Tip: d.PersonBTip.String(), Total: d.PersonBFinal.String(),
		},
	}
	if d.UnallocatedTax != 0 {
		res.UnallocatedTax = d.UnallocatedTax.String()
	}

	if opts.payer != "" {
		payer, err := models.ParseAssignment(opts.payer)
		if err != nil || payer == models.Shared {
			return errors.New("--payer must be a or b")
		}
		s, err := calculator.Settle(d, payer)
		if err != nil {
			return err
		}
		res.Settlement = &settleEntry{From: names[s.From], To: names[s.To], Amount: s.Amount.String()}
	}

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return printSplit(w, res, tax)
}

func printSplit(w io.Writer, r splitResult, tax calculator.Tax) error {
	taxLabel := "Tax"
	if tax.Estimated() {
		taxLabel = fmt.Sprintf("Tax (estimated at %s%%)", tax.Rate)
	}
	lines := []string{
		fmt.Sprintf("Subtotal: %s (shared %s)", r.Subtotal, r.Shared),
		fmt.Sprintf("%s: %s", taxLabel, r.Tax),
		fmt.Sprintf("Tip (%s%%): %s", r.TipPercent, r.Tip),
		fmt.Sprintf("Total: %s", r.GrandTotal),
	}
	if r.UnallocatedTax != "" {
		lines = append(lines, fmt.Sprintf("Unallocated tax: %s", r.UnallocatedTax))
	}
	for _, p := range []splitPerson{r.A, r.B} {
		lines = append(lines, fmt.Sprintf("%s: %s (items %s, tax %s, tip %s)", p.Name, p.Total, p.Base, p.Tax, p.Tip))
	}
	if r.Settlement != nil {
		lines = append(lines, fmt.Sprintf("%s owes %s %s", r.Settlement.From, r.Settlement.To, r.Settlement.Amount))
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}
