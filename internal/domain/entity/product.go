package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultTaxRate is applied to products created without an explicit rate.
const DefaultTaxRate = 0.18

// Product represents a catalog item available for sale
type Product struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	Category   string         `gorm:"size:100;default:'Uncategorized'" json:"category"`
	PriceCents int64          `gorm:"not null;default:0" json:"-"` // Stored in cents
	TaxRate    float64        `gorm:"not null;default:0.18" json:"tax_rate"`
	Stock      int            `gorm:"not null;default:0" json:"stock"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	BillItems []BillItem `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetPriceDecimal returns the unit price as a decimal (for display)
func (p *Product) GetPriceDecimal() float64 {
	return float64(p.PriceCents) / 100
}

// SetPriceFromDecimal sets the unit price from a decimal value
func (p *Product) SetPriceFromDecimal(price float64) {
	p.PriceCents = int64(price*100 + 0.5)
}

// MarshalJSON converts Product to JSON with a decimal price
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(p),
		Price: p.GetPriceDecimal(),
	})
}
