package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// CartService handles cart line item manipulation. Stock checks here are
// advisory reads against the current stock level; checkout holds the hard
// guarantee via its conditional decrement.
type CartService interface {
	GetCart(ctx context.Context, userID uint) (*model.Cart, error)
	AddItem(ctx context.Context, userID, productID uint, quantity int) (*model.Cart, error)
	UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) (*model.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID uint) error
	ClearCart(ctx context.Context, userID uint) error
}

type cartService struct {
	uow repository.UnitOfWork
}

// NewCartService creates a new cart service.
func NewCartService(uow repository.UnitOfWork) CartService {
	return &cartService{uow: uow}
}

// GetCart returns the user's cart with items and products populated.
func (s *cartService) GetCart(ctx context.Context, userID uint) (*model.Cart, error) {
	cart, err := s.uow.Carts().FindByUserIDWithProducts(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCartNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return cart, nil
}

// AddItem puts quantity units of a product into the user's cart, creating the
// cart when absent and merging into an existing line item for the product.
// The merged quantity must not exceed the product's current stock.
func (s *cartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*model.Cart, error) {
	if quantity <= 0 {
		return nil, apperrors.ErrInvalidQuantity
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.UnitOfWork) error {
		product, err := tx.Products().FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrProductNotFound
			}
			return fmt.Errorf("find product: %w", err)
		}

		cart, err := tx.Carts().FindByUserID(ctx, userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("find cart: %w", err)
			}
			cart = &model.Cart{UserID: userID}
			if err := tx.Carts().Create(ctx, cart); err != nil {
				return fmt.Errorf("create cart: %w", err)
			}
		}

		var existing *model.CartItem
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				existing = &cart.Items[i]
				break
			}
		}

		requested := quantity
		if existing != nil {
			requested += existing.Quantity
		}
		if requested > product.StockQuantity {
			return insufficientStock(product)
		}

		if existing != nil {
			existing.Quantity = requested
			if err := tx.Carts().UpdateItem(ctx, existing); err != nil {
				return fmt.Errorf("update cart item: %w", err)
			}
			return nil
		}

		item := &model.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := tx.Carts().CreateItem(ctx, item); err != nil {
			return fmt.Errorf("create cart item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

// UpdateQuantity sets the line item to an absolute quantity. Only the
// increase over the current quantity is checked against stock; decreases are
// always permitted.
func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		return nil, apperrors.ErrInvalidQuantity
	}

	cart, err := s.uow.Carts().FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCartNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}

	item := findItem(cart, itemID)
	if item == nil {
		return nil, apperrors.ErrCartItemNotFound
	}

	product, err := s.uow.Products().FindByID(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	if increase := quantity - item.Quantity; increase > 0 && increase > product.StockQuantity {
		return nil, insufficientStock(product)
	}

	item.Quantity = quantity
	if err := s.uow.Carts().UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return item, nil
}

// RemoveItem deletes a line item from the user's cart.
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uint) error {
	cart, err := s.uow.Carts().FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCartNotFound
		}
		return fmt.Errorf("find cart: %w", err)
	}

	item := findItem(cart, itemID)
	if item == nil {
		return apperrors.ErrCartItemNotFound
	}

	if err := s.uow.Carts().DeleteItem(ctx, item.ID); err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

// ClearCart removes all line items in one operation. Clearing an already
// empty cart is an error, not a silent success.
func (s *cartService) ClearCart(ctx context.Context, userID uint) error {
	cart, err := s.uow.Carts().FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCartNotFound
		}
		return fmt.Errorf("find cart: %w", err)
	}

	if len(cart.Items) == 0 {
		return apperrors.ErrCartEmpty
	}

	if err := s.uow.Carts().DeleteItems(ctx, cart.ID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func findItem(cart *model.Cart, itemID uint) *model.CartItem {
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			return &cart.Items[i]
		}
	}
	return nil
}

func insufficientStock(product *model.Product) error {
	return fmt.Errorf("%w for %s: only %d available", apperrors.ErrInsufficientStock, product.Name, product.StockQuantity)
}
