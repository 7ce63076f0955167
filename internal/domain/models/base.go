package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrValidation marks a record that is missing required fields or carries invalid values.
var ErrValidation = errors.New("validation failed")

// Base carries the identity and timestamps shared by every stored record.
type Base struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Meta exposes the base fields so generic stores can manage them.
func (b *Base) Meta() *Base {
	return b
}

// Document is implemented by every persisted record type.
type Document interface {
	Meta() *Base
	Validate() error
}
