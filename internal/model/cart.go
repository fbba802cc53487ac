package model

import "time"

// Cart holds a user's pending line items. Each user owns at most one cart;
// it is created at registration and lazily on first add when missing.
type Cart struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Items []CartItem `json:"items,omitempty" gorm:"foreignKey:CartID"`
}

// CartItem is one (product, quantity) line inside a cart. Quantity is always
// positive; removal is an explicit operation, not a zero-quantity update.
type CartItem struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CartID    uint `json:"cart_id" gorm:"not null;index"`
	ProductID uint `json:"product_id" gorm:"not null;index"`
	Quantity  int  `json:"quantity" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
