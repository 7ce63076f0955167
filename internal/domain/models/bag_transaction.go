package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BagRefType names the document a bag movement belongs to.
type BagRefType string

const (
	BagRefLot      BagRefType = "Lot"
	BagRefDO       BagRefType = "DO"
	BagRefSale     BagRefType = "Sale"
	BagRefPurchase BagRefType = "Purchase"
)

// BagType enumerates the kinds of bags tracked in inventory.
type BagType string

const (
	BagNewJute    BagType = "NewJute"
	BagOldJute    BagType = "OldJute"
	BagPlasticNew BagType = "PlasticNew"
	BagPlasticOld BagType = "PlasticOld"
	BagFRK        BagType = "FRK"
)

// BagAction is the direction of a bag movement.
type BagAction string

const (
	BagIn  BagAction = "In"
	BagOut BagAction = "Out"
)

// BagTransaction is one movement of bags in or out of inventory.
type BagTransaction struct {
	Base     `bson:",inline"`
	RefType  BagRefType         `bson:"ref_type" json:"ref_type"`
	RefID    primitive.ObjectID `bson:"ref_id" json:"ref_id"`
	Date     *time.Time         `bson:"date" json:"date"`
	BagType  BagType            `bson:"bag_type" json:"bag_type"`
	Quantity *int               `bson:"quantity" json:"quantity"`
	Action   BagAction          `bson:"action" json:"action"`
	Remarks  string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
}

// Validate checks required fields and enum values.
func (b *BagTransaction) Validate() error {
	switch b.RefType {
	case BagRefLot, BagRefDO, BagRefSale, BagRefPurchase:
	case "":
		return fmt.Errorf("%w: ref_type is required", ErrValidation)
	default:
		return fmt.Errorf("%w: unknown ref_type %q", ErrValidation, b.RefType)
	}

	switch b.BagType {
	case BagNewJute, BagOldJute, BagPlasticNew, BagPlasticOld, BagFRK:
	case "":
		return fmt.Errorf("%w: bag_type is required", ErrValidation)
	default:
		return fmt.Errorf("%w: unknown bag_type %q", ErrValidation, b.BagType)
	}

	switch b.Action {
	case BagIn, BagOut:
	case "":
		return fmt.Errorf("%w: action is required", ErrValidation)
	default:
		return fmt.Errorf("%w: unknown action %q", ErrValidation, b.Action)
	}

	switch {
	case b.RefID.IsZero():
		return fmt.Errorf("%w: ref_id is required", ErrValidation)
	case b.Date == nil || b.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrValidation)
	case b.Quantity == nil:
		return fmt.Errorf("%w: quantity is required", ErrValidation)
	case *b.Quantity <= 0:
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	return nil
}
