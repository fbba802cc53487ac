package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

func checkoutCart() *model.Cart {
	return &model.Cart{
		ID:     3,
		UserID: 1,
		Items: []model.CartItem{
			{
				ID: 9, CartID: 3, ProductID: 7, Quantity: 2,
				Product: &model.Product{ID: 7, Name: "Widget", Price: decimal.RequireFromString("10.00"), StockQuantity: 5},
			},
			{
				ID: 10, CartID: 3, ProductID: 8, Quantity: 1,
				Product: &model.Product{ID: 8, Name: "Gadget", Price: decimal.RequireFromString("5.00"), StockQuantity: 5},
			},
		},
	}
}

func TestOrderService_Checkout(t *testing.T) {
	t.Run("creates the order and clears the cart", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.carts.On("FindByUserIDWithProducts", mock.Anything, uint(1)).Return(checkoutCart(), nil)
		uow.products.On("DecrementStock", mock.Anything, uint(7), 2).Return(nil)
		uow.products.On("DecrementStock", mock.Anything, uint(8), 1).Return(nil)
		uow.orders.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)
		uow.carts.On("DeleteItems", mock.Anything, uint(3)).Return(nil)

		service := NewOrderService(uow, nil, nil)
		order, err := service.Checkout(context.Background(), 1)

		assert.NoError(t, err)
		assert.NotNil(t, order)
		assert.Equal(t, uint(1), order.UserID)
		assert.False(t, order.OrderDate.IsZero())
		assert.True(t, decimal.RequireFromString("25.00").Equal(order.TotalAmount))
		assert.Len(t, order.Items, 2)
		// Unit prices are frozen at checkout time.
		assert.True(t, decimal.RequireFromString("10.00").Equal(order.Items[0].Price))
		assert.Equal(t, 2, order.Items[0].Quantity)
		assert.True(t, decimal.RequireFromString("5.00").Equal(order.Items[1].Price))
		assert.Equal(t, 1, order.Items[1].Quantity)

		uow.assertExpectations(t)
	})

	t.Run("missing cart checks out as empty", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.carts.On("FindByUserIDWithProducts", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)

		service := NewOrderService(uow, nil, nil)
		order, err := service.Checkout(context.Background(), 1)

		assert.ErrorIs(t, err, apperrors.ErrCartEmpty)
		assert.Nil(t, order)
		uow.assertExpectations(t)
	})

	t.Run("empty cart", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.carts.On("FindByUserIDWithProducts", mock.Anything, uint(1)).Return(&model.Cart{ID: 3, UserID: 1}, nil)

		service := NewOrderService(uow, nil, nil)
		order, err := service.Checkout(context.Background(), 1)

		assert.ErrorIs(t, err, apperrors.ErrCartEmpty)
		assert.Nil(t, order)
		uow.assertExpectations(t)
	})

	t.Run("one short line item fails the whole checkout", func(t *testing.T) {
		cart := checkoutCart()
		cart.Items[1].Quantity = 6 // more than the 5 in stock

		uow := newFakeUnitOfWork()
		uow.carts.On("FindByUserIDWithProducts", mock.Anything, uint(1)).Return(cart, nil)

		service := NewOrderService(uow, nil, nil)
		order, err := service.Checkout(context.Background(), 1)

		assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
		assert.Nil(t, order)
		// Nothing may be written when any line item fails validation.
		uow.products.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
		uow.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		uow.carts.AssertNotCalled(t, "DeleteItems", mock.Anything, mock.Anything)
		uow.assertExpectations(t)
	})

	t.Run("concurrent stock conflict aborts", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.carts.On("FindByUserIDWithProducts", mock.Anything, uint(1)).Return(checkoutCart(), nil)
		uow.products.On("DecrementStock", mock.Anything, uint(7), 2).Return(repository.ErrStockConflict)

		service := NewOrderService(uow, nil, nil)
		order, err := service.Checkout(context.Background(), 1)

		assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
		assert.Nil(t, order)
		uow.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		uow.carts.AssertNotCalled(t, "DeleteItems", mock.Anything, mock.Anything)
		uow.assertExpectations(t)
	})
}

func TestOrderService_GetOrder(t *testing.T) {
	t.Run("returns the order", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.orders.On("FindByID", mock.Anything, uint(5)).Return(&model.Order{ID: 5, UserID: 1}, nil)

		service := NewOrderService(uow, nil, nil)
		order, err := service.GetOrder(context.Background(), 5)

		assert.NoError(t, err)
		assert.Equal(t, uint(5), order.ID)
		uow.assertExpectations(t)
	})

	t.Run("unknown order", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.orders.On("FindByID", mock.Anything, uint(5)).Return(nil, gorm.ErrRecordNotFound)

		service := NewOrderService(uow, nil, nil)
		order, err := service.GetOrder(context.Background(), 5)

		assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
		assert.Nil(t, order)
		uow.assertExpectations(t)
	})
}
