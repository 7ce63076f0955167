package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SaudaStatus tracks how far a purchase agreement has been fulfilled.
type SaudaStatus string

const (
	SaudaOpen      SaudaStatus = "Open"
	SaudaPartial   SaudaStatus = "Partial"
	SaudaClosed    SaudaStatus = "Closed"
	SaudaCancelled SaudaStatus = "Cancelled"
)

// FrkDispatch records fortified rice kernels sent against a sauda.
type FrkDispatch struct {
	TotalQtl    *float64   `bson:"total_qtl,omitempty" json:"total_qtl,omitempty"`
	InvoiceNo   string     `bson:"invoice_no,omitempty" json:"invoice_no,omitempty"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	SentDate    *time.Time `bson:"sent_date,omitempty" json:"sent_date,omitempty"`
}

// Sauda is a purchase agreement with a party at an agreed rate per quintal.
type Sauda struct {
	Base          `bson:",inline"`
	SaudaCode     string              `bson:"sauda_code" json:"sauda_code"`
	SaudaDate     *time.Time          `bson:"sauda_date" json:"sauda_date"`
	Broker        *primitive.ObjectID `bson:"broker,omitempty" json:"broker,omitempty"`
	Party         primitive.ObjectID  `bson:"party" json:"party"`
	Mill          *primitive.ObjectID `bson:"mill,omitempty" json:"mill,omitempty"`
	RiceType      string              `bson:"rice_type,omitempty" json:"rice_type,omitempty"`
	RatePerQtl    *float64            `bson:"rate_per_qtl" json:"rate_per_qtl"`
	BrokerageRate *float64            `bson:"brokerage_rate,omitempty" json:"brokerage_rate,omitempty"`
	ConditionText string              `bson:"condition_text,omitempty" json:"condition_text,omitempty"`
	FrkBheja      *FrkDispatch        `bson:"frk_bheja,omitempty" json:"frk_bheja,omitempty"`
	Status        SaudaStatus         `bson:"status" json:"status"`
}

// Validate checks required fields and applies the default status.
func (s *Sauda) Validate() error {
	switch {
	case strings.TrimSpace(s.SaudaCode) == "":
		return fmt.Errorf("%w: sauda_code is required", ErrValidation)
	case s.SaudaDate == nil || s.SaudaDate.IsZero():
		return fmt.Errorf("%w: sauda_date is required", ErrValidation)
	case s.Party.IsZero():
		return fmt.Errorf("%w: party is required", ErrValidation)
	case s.RatePerQtl == nil:
		return fmt.Errorf("%w: rate_per_qtl is required", ErrValidation)
	}

	switch s.Status {
	case "":
		s.Status = SaudaOpen
	case SaudaOpen, SaudaPartial, SaudaClosed, SaudaCancelled:
	default:
		return fmt.Errorf("%w: unknown sauda status %q", ErrValidation, s.Status)
	}
	return nil
}
