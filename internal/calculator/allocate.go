// Package calculator splits a bill between two people: shared items 50/50,
// tax and tip proportionally.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/duosplit/internal/models"
	"github.com/mmynk/duosplit/internal/money"
)

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// Item is the minimal view of a candidate item needed for allocation.
type Item struct {
	Amount     money.Amount
	Assignment models.Assignment
}

// ItemsFrom converts candidate items to allocation items.
func ItemsFrom(candidates []models.CandidateItem) []Item {
	items := make([]Item, len(candidates))
	for i, c := range candidates {
		items[i] = Item{Amount: c.Amount, Assignment: c.Assignment}
	}
	return items
}

// BillTotals is the full-precision result of an allocation. Nothing in it is
// rounded; use Display for cent values.
type BillTotals struct {
	PersonASubtotal decimal.Decimal
	PersonBSubtotal decimal.Decimal
	SharedSubtotal  decimal.Decimal
	GrandSubtotal   decimal.Decimal

	// PersonABase and PersonBBase are each person's own items plus half of
	// the shared items.
	PersonABase decimal.Decimal
	PersonBBase decimal.Decimal

	TaxAmount  decimal.Decimal
	PersonATax decimal.Decimal
	PersonBTax decimal.Decimal
	// UnallocatedTax is tax that could not be distributed because the grand
	// subtotal is zero.
	UnallocatedTax decimal.Decimal

	TipPercent decimal.Decimal
	TipAmount  decimal.Decimal
	PersonATip decimal.Decimal
	PersonBTip decimal.Decimal

	PersonAFinal decimal.Decimal
	PersonBFinal decimal.Decimal
}

// Allocate splits a bill between two people.
//
// Algorithm:
//   - base = own items + sharedSubtotal/2
//   - personTax = tax * base / grandSubtotal (zero when grandSubtotal is zero)
//   - tip = (baseA + taxA + baseB + taxB) * tipPercent / 100, split by post-tax share
//   - final = base + personTax + personTip
//
// Intermediates keep full precision; rounding happens only in Display.
func Allocate(items []Item, tax money.Amount, tipPercent decimal.Decimal) BillTotals {
	var subA, subB, subShared money.Amount
	for _, item := range items {
		switch item.Assignment {
		case models.PersonA:
			subA += item.Amount
		case models.PersonB:
			subB += item.Amount
		default:
			subShared += item.Amount
		}
	}
	if tipPercent.IsNegative() {
		tipPercent = decimal.Zero
	}

	t := BillTotals{
		PersonASubtotal: subA.Decimal(),
		PersonBSubtotal: subB.Decimal(),
		SharedSubtotal:  subShared.Decimal(),
		GrandSubtotal:   (subA + subB + subShared).Decimal(),
		TaxAmount:       tax.Decimal(),
		TipPercent:      tipPercent,
		PersonATax:      decimal.Zero,
		PersonBTax:      decimal.Zero,
		UnallocatedTax:  decimal.Zero,
		TipAmount:       decimal.Zero,
		PersonATip:      decimal.Zero,
		PersonBTip:      decimal.Zero,
	}

	half := t.SharedSubtotal.Div(two)
	t.PersonABase = t.PersonASubtotal.Add(half)
	t.PersonBBase = t.PersonBSubtotal.Add(half)

	if t.GrandSubtotal.IsPositive() {
		t.PersonATax = t.TaxAmount.Mul(t.PersonABase).Div(t.GrandSubtotal)
		t.PersonBTax = t.TaxAmount.Mul(t.PersonBBase).Div(t.GrandSubtotal)
	} else {
		t.UnallocatedTax = t.TaxAmount
	}

	withTaxA := t.PersonABase.Add(t.PersonATax)
	withTaxB := t.PersonBBase.Add(t.PersonBTax)
	postTax := withTaxA.Add(withTaxB)

	t.TipAmount = postTax.Mul(tipPercent).Div(hundred)
	if postTax.IsPositive() && t.TipAmount.IsPositive() {
		t.PersonATip = t.TipAmount.Mul(withTaxA).Div(postTax)
		t.PersonBTip = t.TipAmount.Mul(withTaxB).Div(postTax)
	}

	t.PersonAFinal = withTaxA.Add(t.PersonATip)
	t.PersonBFinal = withTaxB.Add(t.PersonBTip)
	return t
}

// Display holds the totals rounded to cents for presentation.
type Display struct {
	PersonASubtotal money.Amount
	PersonBSubtotal money.Amount
	SharedSubtotal  money.Amount
	GrandSubtotal   money.Amount
	PersonABase     money.Amount
	PersonBBase     money.Amount
	TaxAmount       money.Amount
	PersonATax      money.Amount
	PersonBTax      money.Amount
	UnallocatedTax  money.Amount
	TipPercent      decimal.Decimal
	TipAmount       money.Amount
	PersonATip      money.Amount
	PersonBTip      money.Amount
	PersonAFinal    money.Amount
	PersonBFinal    money.Amount
	GrandTotal      money.Amount
}

// Display rounds the totals once. Person B's final is derived from the
// rounded grand total so the two finals always add up to it exactly.
func (t BillTotals) Display() Display {
	allocatedTax := t.TaxAmount.Sub(t.UnallocatedTax)
	grand := money.FromDecimal(t.GrandSubtotal.Add(allocatedTax).Add(t.TipAmount))
	finalA := money.FromDecimal(t.PersonAFinal)

	return Display{
		PersonASubtotal: money.FromDecimal(t.PersonASubtotal),
		PersonBSubtotal: money.FromDecimal(t.PersonBSubtotal),
		SharedSubtotal:  money.FromDecimal(t.SharedSubtotal),
		GrandSubtotal:   money.FromDecimal(t.GrandSubtotal),
		PersonABase:     money.FromDecimal(t.PersonABase),
		PersonBBase:     money.FromDecimal(t.PersonBBase),
		TaxAmount:       money.FromDecimal(t.TaxAmount),
		PersonATax:      money.FromDecimal(t.PersonATax),
		PersonBTax:      money.FromDecimal(t.PersonBTax),
		UnallocatedTax:  money.FromDecimal(t.UnallocatedTax),
		TipPercent:      t.TipPercent,
		TipAmount:       money.FromDecimal(t.TipAmount),
		PersonATip:      money.FromDecimal(t.PersonATip),
		PersonBTip:      money.FromDecimal(t.PersonBTip),
		PersonAFinal:    finalA,
		PersonBFinal:    grand - finalA,
		GrandTotal:      grand,
	}
}
