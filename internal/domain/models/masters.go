package models

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PartyCategory classifies the counterparties the operation trades with.
type PartyCategory string

const (
	PartyFarmer      PartyCategory = "Farmer"
	PartyTrader      PartyCategory = "Trader"
	PartyBuyer       PartyCategory = "Buyer"
	PartyDepot       PartyCategory = "Depot"
	PartyTransporter PartyCategory = "Transporter"
)

// CmrYear is a seasonal year range used to scope mill operations, e.g. "2024-25".
type CmrYear struct {
	Base      `bson:",inline"`
	YearRange string `bson:"year_range" json:"year_range"`
}

// Validate checks required fields.
func (y *CmrYear) Validate() error {
	if strings.TrimSpace(y.YearRange) == "" {
		return fmt.Errorf("%w: year_range is required", ErrValidation)
	}
	return nil
}

// Mill is a rice mill registered for a CMR year.
type Mill struct {
	Base     `bson:",inline"`
	MillCode string             `bson:"mill_code" json:"mill_code"`
	Name     string             `bson:"name" json:"name"`
	Address  string             `bson:"address,omitempty" json:"address,omitempty"`
	GSTNo    string             `bson:"gst_no,omitempty" json:"gst_no,omitempty"`
	Phone    string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CmrYear  primitive.ObjectID `bson:"cmr_year" json:"cmr_year"`
	IsActive *bool              `bson:"is_active" json:"is_active"`
}

// Validate checks required fields and applies defaults.
func (m *Mill) Validate() error {
	switch {
	case strings.TrimSpace(m.MillCode) == "":
		return fmt.Errorf("%w: mill_code is required", ErrValidation)
	case strings.TrimSpace(m.Name) == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case m.CmrYear.IsZero():
		return fmt.Errorf("%w: cmr_year is required", ErrValidation)
	}
	if m.IsActive == nil {
		active := true
		m.IsActive = &active
	}
	return nil
}

// Active reports whether the mill is operational. Mills default to active.
func (m *Mill) Active() bool {
	return m.IsActive == nil || *m.IsActive
}

// Broker arranges saudas for a commission.
type Broker struct {
	Base          `bson:",inline"`
	BrokerCode    string   `bson:"broker_code" json:"broker_code"`
	Name          string   `bson:"name" json:"name"`
	Phone         string   `bson:"phone,omitempty" json:"phone,omitempty"`
	BrokerageRate *float64 `bson:"brokerage_rate" json:"brokerage_rate"`
	Address       string   `bson:"address,omitempty" json:"address,omitempty"`
	Remarks       string   `bson:"remarks,omitempty" json:"remarks,omitempty"`
}

// Validate checks required fields.
func (b *Broker) Validate() error {
	switch {
	case strings.TrimSpace(b.BrokerCode) == "":
		return fmt.Errorf("%w: broker_code is required", ErrValidation)
	case strings.TrimSpace(b.Name) == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case b.BrokerageRate == nil:
		return fmt.Errorf("%w: brokerage_rate is required", ErrValidation)
	case *b.BrokerageRate < 0:
		return fmt.Errorf("%w: brokerage_rate must not be negative", ErrValidation)
	}
	return nil
}

// Party is a farmer, trader, buyer, depot or transporter.
type Party struct {
	Base      `bson:",inline"`
	PartyCode string              `bson:"party_code" json:"party_code"`
	Name      string              `bson:"name" json:"name"`
	Category  PartyCategory       `bson:"category" json:"category"`
	Phone     string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string              `bson:"address,omitempty" json:"address,omitempty"`
	GSTNo     string              `bson:"gst_no,omitempty" json:"gst_no,omitempty"`
	CreatedBy *primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
}

// Validate checks required fields and applies defaults.
func (p *Party) Validate() error {
	switch {
	case strings.TrimSpace(p.PartyCode) == "":
		return fmt.Errorf("%w: party_code is required", ErrValidation)
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	}

	switch p.Category {
	case "":
		p.Category = PartyTrader
	case PartyFarmer, PartyTrader, PartyBuyer, PartyDepot, PartyTransporter:
	default:
		return fmt.Errorf("%w: unknown party category %q", ErrValidation, p.Category)
	}
	return nil
}

// Vehicle is a truck used to move paddy and rice, e.g. "CG07CG4240".
type Vehicle struct {
	Base        `bson:",inline"`
	VehicleNo   string   `bson:"vehicle_no" json:"vehicle_no"`
	OwnerName   string   `bson:"owner_name,omitempty" json:"owner_name,omitempty"`
	CapacityTon *float64 `bson:"capacity_ton,omitempty" json:"capacity_ton,omitempty"`
	Remarks     string   `bson:"remarks,omitempty" json:"remarks,omitempty"`
}

// Validate checks required fields.
func (v *Vehicle) Validate() error {
	if strings.TrimSpace(v.VehicleNo) == "" {
		return fmt.Errorf("%w: vehicle_no is required", ErrValidation)
	}
	if v.CapacityTon != nil && *v.CapacityTon < 0 {
		return fmt.Errorf("%w: capacity_ton must not be negative", ErrValidation)
	}
	return nil
}
