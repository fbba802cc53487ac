package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// OrderService handles checkout and order retrieval.
type OrderService interface {
	// Checkout converts the user's cart into an order: validates stock,
	// decrements inventory, freezes unit prices and clears the cart, all in
	// one transaction.
	Checkout(ctx context.Context, userID uint) (*model.Order, error)
	GetOrder(ctx context.Context, id uint) (*model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	ListUserOrders(ctx context.Context, userID uint) ([]model.Order, error)
}

type orderService struct {
	uow      repository.UnitOfWork
	cache    *cache.Client
	notifier StockNotifier
}

// NewOrderService creates a new order service. notifier may be nil when no
// broker is configured.
func NewOrderService(uow repository.UnitOfWork, cacheClient *cache.Client, notifier StockNotifier) OrderService {
	return &orderService{
		uow:      uow,
		cache:    cacheClient,
		notifier: notifier,
	}
}

type stockChange struct {
	productID uint
	remaining int
}

func (s *orderService) Checkout(ctx context.Context, userID uint) (*model.Order, error) {
	var order *model.Order
	var changes []stockChange

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.UnitOfWork) error {
		cart, err := tx.Carts().FindByUserIDWithProducts(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCartEmpty
			}
			return fmt.Errorf("find cart: %w", err)
		}
		if len(cart.Items) == 0 {
			return apperrors.ErrCartEmpty
		}

		// Reject the whole checkout on the first offending line item.
		for i := range cart.Items {
			item := &cart.Items[i]
			if item.Product == nil {
				return fmt.Errorf("cart item %d references missing product %d", item.ID, item.ProductID)
			}
			if item.Quantity > item.Product.StockQuantity {
				return insufficientStock(item.Product)
			}
		}

		total := decimal.Zero
		items := make([]model.OrderItem, 0, len(cart.Items))
		for i := range cart.Items {
			item := &cart.Items[i]

			// Conditional decrement: fails when a concurrent checkout took
			// the stock between our read and this write.
			if err := tx.Products().DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, repository.ErrStockConflict) {
					return insufficientStock(item.Product)
				}
				return fmt.Errorf("decrement stock: %w", err)
			}

			items = append(items, model.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Product.Price,
			})
			total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			changes = append(changes, stockChange{
				productID: item.ProductID,
				remaining: item.Product.StockQuantity - item.Quantity,
			})
		}

		order = &model.Order{
			UserID:      userID,
			OrderDate:   time.Now().UTC(),
			TotalAmount: total,
			Items:       items,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		if err := tx.Carts().DeleteItems(ctx, cart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit side effects only; a rolled-back checkout reaches neither.
	for _, change := range changes {
		_ = s.cache.InvalidateProduct(ctx, change.productID)
		if s.notifier != nil {
			if err := s.notifier.PublishStockUpdate(change.productID, change.remaining); err != nil {
				log.Printf("publish stock update for product %d: %v", change.productID, err)
			}
		}
	}

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uint) (*model.Order, error) {
	order, err := s.uow.Orders().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]model.Order, error) {
	return s.uow.Orders().List(ctx)
}

// ListUserOrders returns the user's order history, newest first.
func (s *orderService) ListUserOrders(ctx context.Context, userID uint) ([]model.Order, error) {
	return s.uow.Orders().ListByUserID(ctx, userID)
}
