package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a customer in the CRM. The aggregate columns
// (TotalOrders, TotalSpentCents, LastPurchase) are derived from the
// customer's bills: they are incremented by the billing settlement step
// and recomputed wholesale by reconciliation, never edited directly.
type Customer struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	Email           *string        `gorm:"size:255" json:"email,omitempty"`
	Phone           *string        `gorm:"size:50" json:"phone,omitempty"`
	Address         *string        `gorm:"type:text" json:"address,omitempty"`
	Notes           *string        `gorm:"type:text" json:"notes,omitempty"`
	TotalOrders     int            `gorm:"not null;default:0" json:"total_orders"`
	TotalSpentCents int64          `gorm:"not null;default:0" json:"-"` // Stored in cents
	LastPurchase    *time.Time     `json:"last_purchase,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Bills []Bill `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// GetTotalSpentDecimal returns the lifetime spend as a decimal
func (c *Customer) GetTotalSpentDecimal() float64 {
	return float64(c.TotalSpentCents) / 100
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (c Customer) MarshalJSON() ([]byte, error) {
	type Alias Customer
	return json.Marshal(&struct {
		Alias
		TotalSpent float64 `json:"total_spent"`
	}{
		Alias:      Alias(c),
		TotalSpent: c.GetTotalSpentDecimal(),
	})
}
