package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/duosplit/internal/money"
)

// TaxSource records where a tax amount came from so estimates are never
// presented as real tax data.
type TaxSource int

const (
	// TaxNone means no tax has been set.
	TaxNone TaxSource = iota
	// TaxDeclared is an amount the user entered.
	TaxDeclared
	// TaxFromRate was computed from a user-entered percentage.
	TaxFromRate
	// TaxInferred is declared total minus subtotal.
	TaxInferred
	// TaxEstimated is the flat EstimatedTaxRate guess.
	TaxEstimated
)

func (s TaxSource) String() string {
	switch s {
	case TaxDeclared:
		return "declared"
	case TaxFromRate:
		return "rate"
	case TaxInferred:
		return "inferred"
	case TaxEstimated:
		return "estimated"
	default:
		return "none"
	}
}

// EstimatedTaxRate is the percentage assumed when nothing better is known.
var EstimatedTaxRate = decimal.NewFromInt(9)

// Tax is a tax amount with its provenance.
type Tax struct {
	Amount money.Amount
	Source TaxSource
	// Rate is set for TaxFromRate and TaxEstimated.
	Rate decimal.Decimal
}

// Estimated reports whether the amount is a guess rather than bill data.
func (t Tax) Estimated() bool { return t.Source == TaxEstimated }

// DeclaredTax wraps a user-entered tax amount.
func DeclaredTax(amount money.Amount) Tax {
	return Tax{Amount: amount, Source: TaxDeclared}
}

// TaxAtRate computes tax as ratePercent of subtotal. Negative rates count as zero.
func TaxAtRate(subtotal money.Amount, ratePercent decimal.Decimal) Tax {
	if ratePercent.IsNegative() {
		ratePercent = decimal.Zero
	}
	amount := money.FromDecimal(subtotal.Decimal().Mul(ratePercent).Div(hundred))
	return Tax{Amount: amount, Source: TaxFromRate, Rate: ratePercent}
}

// InferTax treats everything above the subtotal on the declared total as tax.
// It never goes below zero.
func InferTax(declaredTotal, subtotal money.Amount) Tax {
	amount := declaredTotal - subtotal
	if amount < 0 {
		amount = 0
	}
	return Tax{Amount: amount, Source: TaxInferred}
}

// EstimateTax applies EstimatedTaxRate to subtotal and labels the result.
func EstimateTax(subtotal money.Amount) Tax {
	t := TaxAtRate(subtotal, EstimatedTaxRate)
	t.Source = TaxEstimated
	return t
}
