package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
)

// MockAssetStore is a mock implementation of storage.AssetStore.
type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) Save(filename string, content io.Reader) (string, error) {
	args := m.Called(filename, content)
	return args.String(0), args.Error(1)
}

func (m *MockAssetStore) Delete(url string) error {
	args := m.Called(url)
	return args.Error(0)
}

// MockStockNotifier is a mock implementation of StockNotifier.
type MockStockNotifier struct {
	mock.Mock
}

func (m *MockStockNotifier) PublishStockUpdate(productID uint, stockQuantity int) error {
	args := m.Called(productID, stockQuantity)
	return args.Error(0)
}

func TestCatalogService_CreateProduct(t *testing.T) {
	input := ProductInput{
		Name:          "Widget",
		Price:         decimal.RequireFromString("10.00"),
		StockQuantity: 5,
		CategoryID:    2,
	}

	t.Run("unknown category", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.categories.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)

		service := NewCatalogService(uow, new(MockAssetStore), nil, nil)
		product, err := service.CreateProduct(context.Background(), input)

		assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
		assert.Nil(t, product)
		uow.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		uow.assertExpectations(t)
	})

	t.Run("creates and announces initial stock", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.categories.On("FindByID", mock.Anything, uint(2)).Return(&model.Category{ID: 2, Name: "Electronics"}, nil)
		uow.products.On("Create", mock.Anything, mock.AnythingOfType("*model.Product")).Return(nil)

		notifier := new(MockStockNotifier)
		notifier.On("PublishStockUpdate", mock.Anything, 5).Return(nil)

		service := NewCatalogService(uow, new(MockAssetStore), nil, notifier)
		product, err := service.CreateProduct(context.Background(), input)

		assert.NoError(t, err)
		assert.Equal(t, "Widget", product.Name)
		assert.Equal(t, uint(2), product.CategoryID)
		notifier.AssertExpectations(t)
		uow.assertExpectations(t)
	})

	t.Run("rejected image fails the create", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.categories.On("FindByID", mock.Anything, uint(2)).Return(&model.Category{ID: 2}, nil)

		assets := new(MockAssetStore)
		assets.On("Save", "manual.pdf", mock.Anything).Return("", apperrors.ErrInvalidFileType)

		withImage := input
		withImage.Image = &ImageUpload{Filename: "manual.pdf", Content: strings.NewReader("%PDF")}

		service := NewCatalogService(uow, assets, nil, nil)
		product, err := service.CreateProduct(context.Background(), withImage)

		assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)
		assert.Nil(t, product)
		uow.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		uow.assertExpectations(t)
	})
}

func TestCatalogService_GetProduct(t *testing.T) {
	t.Run("unknown product", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.products.On("FindByIDWithCategory", mock.Anything, uint(7)).Return(nil, gorm.ErrRecordNotFound)

		service := NewCatalogService(uow, new(MockAssetStore), nil, nil)
		product, err := service.GetProduct(context.Background(), 7)

		assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
		assert.Nil(t, product)
		uow.assertExpectations(t)
	})

	t.Run("loads from the repository on cache miss", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.products.On("FindByIDWithCategory", mock.Anything, uint(7)).Return(&model.Product{ID: 7, Name: "Widget"}, nil)

		service := NewCatalogService(uow, new(MockAssetStore), nil, nil)
		product, err := service.GetProduct(context.Background(), 7)

		assert.NoError(t, err)
		assert.Equal(t, "Widget", product.Name)
		uow.assertExpectations(t)
	})
}

func TestCatalogService_UpdateCategory(t *testing.T) {
	t.Run("replacing the image deletes the old one best-effort", func(t *testing.T) {
		oldURL := "/uploads/old.png"
		uow := newFakeUnitOfWork()
		uow.categories.On("FindByID", mock.Anything, uint(2)).Return(&model.Category{ID: 2, Name: "Electronics", ImageURL: &oldURL}, nil)
		uow.categories.On("Update", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)

		assets := new(MockAssetStore)
		// A failed disk cleanup must not fail the update.
		assets.On("Delete", oldURL).Return(errors.New("disk error"))
		assets.On("Save", "new.png", mock.Anything).Return("/uploads/new.png", nil)

		service := NewCatalogService(uow, assets, nil, nil)
		category, err := service.UpdateCategory(context.Background(), 2, CategoryInput{
			Name:  "Electronics",
			Image: &ImageUpload{Filename: "new.png", Content: strings.NewReader("png-bytes")},
		})

		assert.NoError(t, err)
		assert.Equal(t, "/uploads/new.png", *category.ImageURL)
		assets.AssertExpectations(t)
		uow.assertExpectations(t)
	})
}

func TestCatalogService_AddStock(t *testing.T) {
	t.Run("rejects non-positive quantity", func(t *testing.T) {
		uow := newFakeUnitOfWork()

		service := NewCatalogService(uow, new(MockAssetStore), nil, nil)
		product, err := service.AddStock(context.Background(), 7, 0)

		assert.ErrorIs(t, err, apperrors.ErrInvalidQuantity)
		assert.Nil(t, product)
		uow.products.AssertNotCalled(t, "IncrementStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.products.On("IncrementStock", mock.Anything, uint(7), 3).Return(gorm.ErrRecordNotFound)

		service := NewCatalogService(uow, new(MockAssetStore), nil, nil)
		product, err := service.AddStock(context.Background(), 7, 3)

		assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
		assert.Nil(t, product)
		uow.assertExpectations(t)
	})

	t.Run("replenishes and announces the new level", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.products.On("IncrementStock", mock.Anything, uint(7), 3).Return(nil)
		uow.products.On("FindByID", mock.Anything, uint(7)).Return(&model.Product{ID: 7, Name: "Widget", StockQuantity: 8}, nil)

		notifier := new(MockStockNotifier)
		notifier.On("PublishStockUpdate", uint(7), 8).Return(nil)

		service := NewCatalogService(uow, new(MockAssetStore), nil, notifier)
		product, err := service.AddStock(context.Background(), 7, 3)

		assert.NoError(t, err)
		assert.Equal(t, 8, product.StockQuantity)
		notifier.AssertExpectations(t)
		uow.assertExpectations(t)
	})
}
