package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RiceType enumerates the rice varieties covered by agreements.
type RiceType string

const (
	RiceBoiled RiceType = "Boiled"
	RiceRaw    RiceType = "Raw"
	RiceSarna  RiceType = "Sarna"
	RiceMota   RiceType = "Mota"
	RicePatla  RiceType = "Patla"
	RiceCommon RiceType = "Common"
	RiceFCI    RiceType = "FCI"
	RiceNAN    RiceType = "NAN"
)

// Valid reports whether the rice type is one of the known varieties.
func (r RiceType) Valid() bool {
	switch r {
	case RiceBoiled, RiceRaw, RiceSarna, RiceMota, RicePatla, RiceCommon, RiceFCI, RiceNAN:
		return true
	default:
		return false
	}
}

// Agreement is a milling contract with a mill, e.g. "AC122024430119".
type Agreement struct {
	Base          `bson:",inline"`
	AgreementNo   string             `bson:"agreement_no" json:"agreement_no"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Mill          primitive.ObjectID `bson:"mill" json:"mill"`
	AgreementDate *time.Time         `bson:"agreement_date,omitempty" json:"agreement_date,omitempty"`
	RiceType      RiceType           `bson:"rice_type" json:"rice_type"`
	BaseRate      *float64           `bson:"base_rate,omitempty" json:"base_rate,omitempty"`
	ValidityFrom  *time.Time         `bson:"validity_from,omitempty" json:"validity_from,omitempty"`
	ValidityTo    *time.Time         `bson:"validity_to,omitempty" json:"validity_to,omitempty"`
}

// Validate checks required fields, the rice type and the validity window.
func (a *Agreement) Validate() error {
	switch {
	case strings.TrimSpace(a.AgreementNo) == "":
		return fmt.Errorf("%w: agreement_no is required", ErrValidation)
	case a.Mill.IsZero():
		return fmt.Errorf("%w: mill is required", ErrValidation)
	case a.RiceType == "":
		return fmt.Errorf("%w: rice_type is required", ErrValidation)
	case !a.RiceType.Valid():
		return fmt.Errorf("%w: unknown rice_type %q", ErrValidation, a.RiceType)
	}

	if a.ValidityFrom != nil && a.ValidityTo != nil && a.ValidityTo.Before(*a.ValidityFrom) {
		return fmt.Errorf("%w: validity_to must not precede validity_from", ErrValidation)
	}
	return nil
}
