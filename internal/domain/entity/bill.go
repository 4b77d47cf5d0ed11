package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bill represents a settled sale. Bills are append-only: once created
// they are never mutated or deleted.
type Bill struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName  string     `gorm:"size:255;not null;default:'Walk-in Customer'" json:"customer_name"`
	BillDate      time.Time  `gorm:"not null;index" json:"bill_date"`
	SubtotalCents int64      `gorm:"not null;default:0" json:"-"` // Stored in cents
	TaxCents      int64      `gorm:"not null;default:0" json:"-"` // Stored in cents
	TotalCents    int64      `gorm:"not null;default:0" json:"-"` // Stored in cents
	CreatedAt     time.Time  `json:"created_at"`

	// Relationships
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []BillItem `gorm:"foreignKey:BillID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// GetTotalDecimal returns the total as a decimal
func (b *Bill) GetTotalDecimal() float64 {
	return float64(b.TotalCents) / 100
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (b Bill) MarshalJSON() ([]byte, error) {
	type Alias Bill
	return json.Marshal(&struct {
		Alias
		Subtotal float64 `json:"subtotal"`
		Tax      float64 `json:"tax"`
		Total    float64 `json:"total"`
	}{
		Alias:    Alias(b),
		Subtotal: float64(b.SubtotalCents) / 100,
		Tax:      float64(b.TaxCents) / 100,
		Total:    float64(b.TotalCents) / 100,
	})
}

// BillItem represents one line of a bill. The subtotal freezes the unit
// price at the time of sale; later product price changes do not touch it.
type BillItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BillID        uuid.UUID `gorm:"type:uuid;not null;index" json:"bill_id"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	SubtotalCents int64     `gorm:"not null" json:"-"` // Stored in cents
	CreatedAt     time.Time `json:"created_at"`

	// Relationships
	Bill    Bill    `gorm:"foreignKey:BillID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new bill item
func (bi *BillItem) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (bi BillItem) MarshalJSON() ([]byte, error) {
	type Alias BillItem
	return json.Marshal(&struct {
		Alias
		Subtotal float64 `json:"subtotal"`
	}{
		Alias:    Alias(bi),
		Subtotal: float64(bi.SubtotalCents) / 100,
	})
}
