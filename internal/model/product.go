package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item. StockQuantity is the live inventory
// count; it is decremented at checkout and incremented on replenishment.
type Product struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Name          string          `json:"name" gorm:"size:255;not null;index"`
	Description   string          `json:"description" gorm:"type:text"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(18,2);not null"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0"`
	ImageURL      *string         `json:"image_url,omitempty" gorm:"size:500"`
	CategoryID    uint            `json:"category_id" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
