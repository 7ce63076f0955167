// Package settlement derives a lot's final payable amount from its base net
// amount and the deductions recorded against it.
package settlement

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/ricemill/internal/domain/models"
)

// Breakdown itemises how a lot's final amount was reached.
type Breakdown struct {
	NetAmount       float64 `json:"net_amount"`
	QiExp           float64 `json:"qi_exp"`
	LotDalali       float64 `json:"lot_dalali"`
	OtherCosts      float64 `json:"other_costs"`
	Brokerage       float64 `json:"brokerage"`
	TotalDeductions float64 `json:"total_deductions"`
	NettAmountFinal float64 `json:"nett_amount_final"`
}

// Compute returns the settlement breakdown for the lot. The second return value
// is false when net_amount is absent or not a finite number, in which case no
// settlement can be derived.
func Compute(lot models.Lot) (Breakdown, bool) {
	if !finite(lot.NetAmount) {
		return Breakdown{}, false
	}

	net := decimal.NewFromFloat(*lot.NetAmount)
	qi := amount(lot.QiExp)
	dalali := amount(lot.LotDalali)
	other := amount(lot.OtherCosts)
	brokerage := amount(lot.Brokerage)

	deductions := qi.Add(dalali).Add(other).Add(brokerage)
	final := net.Sub(deductions)

	return Breakdown{
		NetAmount:       net.InexactFloat64(),
		QiExp:           qi.InexactFloat64(),
		LotDalali:       dalali.InexactFloat64(),
		OtherCosts:      other.InexactFloat64(),
		Brokerage:       brokerage.InexactFloat64(),
		TotalDeductions: deductions.InexactFloat64(),
		NettAmountFinal: final.InexactFloat64(),
	}, true
}

// Apply recomputes lot.NettAmountFinal in place and reports whether it did.
// When net_amount is missing the stored final amount is left untouched.
// Deductions larger than the net amount yield a negative final amount.
func Apply(lot *models.Lot) bool {
	if lot == nil {
		return false
	}

	b, ok := Compute(*lot)
	if !ok {
		return false
	}

	final := b.NettAmountFinal
	lot.NettAmountFinal = &final
	return true
}

// amount treats absent or non-finite deductions as zero.
func amount(v *float64) decimal.Decimal {
	if !finite(v) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
