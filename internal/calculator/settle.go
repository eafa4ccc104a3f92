package calculator

import (
	"fmt"

	"github.com/mmynk/duosplit/internal/models"
	"github.com/mmynk/duosplit/internal/money"
)

// Settlement is the single payment that clears a two-person bill.
type Settlement struct {
	From   models.Assignment // Person who owes
	To     models.Assignment // Person who paid the bill
	Amount money.Amount
}

// Settle returns who owes whom once payer has covered the whole bill.
// The non-paying person owes exactly their rounded final amount.
func Settle(d Display, payer models.Assignment) (Settlement, error) {
	switch payer {
	case models.PersonA:
		return Settlement{From: models.PersonB, To: models.PersonA, Amount: d.PersonBFinal}, nil
	case models.PersonB:
		return Settlement{From: models.PersonA, To: models.PersonB, Amount: d.PersonAFinal}, nil
	default:
		return Settlement{}, fmt.Errorf("payer must be person a or person b, got %s", payer)
	}
}
