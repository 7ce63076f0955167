package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentMode enumerates how money moved between parties.
type PaymentMode string

const (
	PaymentCash   PaymentMode = "Cash"
	PaymentBank   PaymentMode = "Bank"
	PaymentCheque PaymentMode = "Cheque"
	PaymentUPI    PaymentMode = "UPI"
	PaymentContra PaymentMode = "Contra"
)

// AllocationTarget names the record kinds a payment can be allocated against.
type AllocationTarget string

const (
	AllocateToSauda AllocationTarget = "Sauda"
	AllocateToLot   AllocationTarget = "Lot"
)

// Allocation links part of a payment to a sauda or a lot.
type Allocation struct {
	RefCollection   AllocationTarget   `bson:"ref_collection" json:"ref_collection"`
	RefID           primitive.ObjectID `bson:"ref_id" json:"ref_id"`
	AllocatedAmount *float64           `bson:"allocated_amount,omitempty" json:"allocated_amount,omitempty"`
}

// Payment records money paid from one party to another.
type Payment struct {
	Base        `bson:",inline"`
	PaymentDate *time.Time         `bson:"payment_date" json:"payment_date"`
	Payer       primitive.ObjectID `bson:"payer" json:"payer"`
	Payee       primitive.ObjectID `bson:"payee" json:"payee"`
	Amount      *float64           `bson:"amount" json:"amount"`
	Mode        PaymentMode        `bson:"mode" json:"mode"`
	ReferenceNo string             `bson:"reference_no,omitempty" json:"reference_no,omitempty"`
	Remarks     string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	Allocations []Allocation       `bson:"allocations" json:"allocations"`
}

// Validate checks required fields, the payment mode and the allocations.
func (p *Payment) Validate() error {
	switch {
	case p.PaymentDate == nil || p.PaymentDate.IsZero():
		return fmt.Errorf("%w: payment_date is required", ErrValidation)
	case p.Payer.IsZero():
		return fmt.Errorf("%w: payer is required", ErrValidation)
	case p.Payee.IsZero():
		return fmt.Errorf("%w: payee is required", ErrValidation)
	case p.Amount == nil:
		return fmt.Errorf("%w: amount is required", ErrValidation)
	case *p.Amount <= 0:
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	switch p.Mode {
	case "":
		p.Mode = PaymentCash
	case PaymentCash, PaymentBank, PaymentCheque, PaymentUPI, PaymentContra:
	default:
		return fmt.Errorf("%w: unknown payment mode %q", ErrValidation, p.Mode)
	}

	if p.Allocations == nil {
		p.Allocations = []Allocation{}
	}

	allocated := decimal.Zero
	for i, a := range p.Allocations {
		switch a.RefCollection {
		case AllocateToSauda, AllocateToLot:
		default:
			return fmt.Errorf("%w: allocation %d: unknown ref_collection %q", ErrValidation, i, a.RefCollection)
		}
		if a.RefID.IsZero() {
			return fmt.Errorf("%w: allocation %d: ref_id is required", ErrValidation, i)
		}
		if a.AllocatedAmount == nil {
			continue
		}
		if *a.AllocatedAmount < 0 {
			return fmt.Errorf("%w: allocation %d: allocated_amount must not be negative", ErrValidation, i)
		}
		allocated = allocated.Add(decimal.NewFromFloat(*a.AllocatedAmount))
	}

	if allocated.GreaterThan(decimal.NewFromFloat(*p.Amount)) {
		return fmt.Errorf("%w: allocations total %s exceeds amount", ErrValidation, allocated.String())
	}
	return nil
}
