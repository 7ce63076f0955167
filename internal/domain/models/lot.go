package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GatePass records when a lot left the mill gate and on which truck.
type GatePass struct {
	Date  *time.Time          `bson:"date,omitempty" json:"date,omitempty"`
	Truck *primitive.ObjectID `bson:"truck,omitempty" json:"truck,omitempty"`
}

// Lot is one physically processed batch of rice tied to a sauda.
//
// NettAmountFinal is derived from NetAmount and the deduction fields by the
// settlement package and must never be taken from caller input.
type Lot struct {
	Base            `bson:",inline"`
	LotNo           string              `bson:"lot_no" json:"lot_no"`
	Sauda           primitive.ObjectID  `bson:"sauda" json:"sauda"`
	Agreement       *primitive.ObjectID `bson:"agreement,omitempty" json:"agreement,omitempty"`
	FrkQtl          *float64            `bson:"frk_qtl,omitempty" json:"frk_qtl,omitempty"`
	FrkInvoice      string              `bson:"frk_invoice,omitempty" json:"frk_invoice,omitempty"`
	FrkDescription  string              `bson:"frk_description,omitempty" json:"frk_description,omitempty"`
	BoraSentDate    *time.Time          `bson:"bora_sent_date,omitempty" json:"bora_sent_date,omitempty"`
	FlapStickerDate *time.Time          `bson:"flap_sticker_date,omitempty" json:"flap_sticker_date,omitempty"`
	GatePass        *GatePass           `bson:"gate_pass,omitempty" json:"gate_pass,omitempty"`
	RicePassDate    *time.Time          `bson:"rice_pass_date,omitempty" json:"rice_pass_date,omitempty"`
	DepositCentre   string              `bson:"deposit_centre,omitempty" json:"deposit_centre,omitempty"`

	Qtl         *float64 `bson:"qtl,omitempty" json:"qtl,omitempty"`
	Bags        *int     `bson:"bags,omitempty" json:"bags,omitempty"`
	MoistureCut *float64 `bson:"moisture_cut" json:"moisture_cut"`
	NetRiceQtl  *float64 `bson:"net_rice_qtl,omitempty" json:"net_rice_qtl,omitempty"`

	AmountMoisture  *float64 `bson:"amount_moisture,omitempty" json:"amount_moisture,omitempty"`
	NetAmount       *float64 `bson:"net_amount,omitempty" json:"net_amount,omitempty"`
	QiExp           *float64 `bson:"qi_exp,omitempty" json:"qi_exp,omitempty"`
	LotDalali       *float64 `bson:"lot_dalali,omitempty" json:"lot_dalali,omitempty"`
	OtherCosts      *float64 `bson:"other_costs,omitempty" json:"other_costs,omitempty"`
	Brokerage       *float64 `bson:"brokerage,omitempty" json:"brokerage,omitempty"`
	NettAmountFinal *float64 `bson:"nett_amount_final,omitempty" json:"nett_amount_final,omitempty"`

	InvoiceNo       string              `bson:"invoice_no,omitempty" json:"invoice_no,omitempty"`
	InvoiceAmount   *float64            `bson:"invoice_amount,omitempty" json:"invoice_amount,omitempty"`
	PurchaseExpense *float64            `bson:"purchase_expense,omitempty" json:"purchase_expense,omitempty"`
	TotalAmount     *float64            `bson:"total_amount,omitempty" json:"total_amount,omitempty"`
	Vehicle         *primitive.ObjectID `bson:"vehicle,omitempty" json:"vehicle,omitempty"`
	Notes           string              `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Validate checks the required lot_no and sauda reference, rejects negative
// quantities and deductions, and applies the moisture_cut default.
func (l *Lot) Validate() error {
	switch {
	case strings.TrimSpace(l.LotNo) == "":
		return fmt.Errorf("%w: lot_no is required", ErrValidation)
	case l.Sauda.IsZero():
		return fmt.Errorf("%w: sauda is required", ErrValidation)
	}

	if l.Bags != nil && *l.Bags < 0 {
		return fmt.Errorf("%w: bags must not be negative", ErrValidation)
	}

	fields := []struct {
		name  string
		value *float64
	}{
		{"qtl", l.Qtl},
		{"qi_exp", l.QiExp},
		{"lot_dalali", l.LotDalali},
		{"other_costs", l.OtherCosts},
		{"brokerage", l.Brokerage},
	}
	for _, f := range fields {
		if f.value != nil && *f.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrValidation, f.name)
		}
	}

	if l.MoistureCut == nil {
		zero := 0.0
		l.MoistureCut = &zero
	}
	return nil
}

// Pending reports whether the lot is still in processing, i.e. it has no rice pass yet.
func (l *Lot) Pending() bool {
	return l.RicePassDate == nil || l.RicePassDate.IsZero()
}
