package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/storage"
)

// StockNotifier publishes stock level changes to interested consumers.
// Publication is best-effort; callers log and ignore failures.
type StockNotifier interface {
	PublishStockUpdate(productID uint, stockQuantity int) error
}

// ImageUpload carries an uploaded image before it reaches the asset store.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// ProductInput holds the writable fields of a product.
type ProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	CategoryID    uint
	Image         *ImageUpload
}

// CategoryInput holds the writable fields of a category.
type CategoryInput struct {
	Name  string
	Image *ImageUpload
}

// CatalogService handles category and product management.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id uint) (*model.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uint, input CategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uint) error

	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	AddStock(ctx context.Context, id uint, quantity int) (*model.Product, error)
}

type catalogService struct {
	uow      repository.UnitOfWork
	assets   storage.AssetStore
	cache    *cache.Client
	notifier StockNotifier
}

// NewCatalogService creates a new catalog service. notifier may be nil when
// no broker is configured.
func NewCatalogService(uow repository.UnitOfWork, assets storage.AssetStore, cacheClient *cache.Client, notifier StockNotifier) CatalogService {
	return &catalogService{
		uow:      uow,
		assets:   assets,
		cache:    cacheClient,
		notifier: notifier,
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.uow.Categories().List(ctx)
}

func (s *catalogService) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.uow.Categories().FindByIDWithProducts(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return category, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, input CategoryInput) (*model.Category, error) {
	category := &model.Category{Name: input.Name}

	if input.Image != nil {
		url, err := s.assets.Save(input.Image.Filename, input.Image.Content)
		if err != nil {
			return nil, err
		}
		category.ImageURL = &url
	}

	if err := s.uow.Categories().Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uint, input CategoryInput) (*model.Category, error) {
	category, err := s.uow.Categories().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	category.Name = input.Name

	if input.Image != nil {
		s.deleteAsset(category.ImageURL)
		url, err := s.assets.Save(input.Image.Filename, input.Image.Content)
		if err != nil {
			return nil, err
		}
		category.ImageURL = &url
	}

	if err := s.uow.Categories().Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uint) error {
	category, err := s.uow.Categories().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return fmt.Errorf("find category: %w", err)
	}

	s.deleteAsset(category.ImageURL)

	if err := s.uow.Categories().Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.uow.Products().List(ctx)
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	if cached, err := s.cache.GetProduct(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	product, err := s.uow.Products().FindByIDWithCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	_ = s.cache.SetProduct(ctx, product)
	return product, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error) {
	if _, err := s.uow.Categories().FindByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	product := &model.Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		CategoryID:    input.CategoryID,
	}

	if input.Image != nil {
		url, err := s.assets.Save(input.Image.Filename, input.Image.Content)
		if err != nil {
			return nil, err
		}
		product.ImageURL = &url
	}

	if err := s.uow.Products().Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.notifyStock(product.ID, product.StockQuantity)
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uint, input ProductInput) (*model.Product, error) {
	if _, err := s.uow.Categories().FindByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	product, err := s.uow.Products().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	oldStock := product.StockQuantity

	if input.Image != nil {
		s.deleteAsset(product.ImageURL)
		url, err := s.assets.Save(input.Image.Filename, input.Image.Content)
		if err != nil {
			return nil, err
		}
		product.ImageURL = &url
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.StockQuantity = input.StockQuantity
	product.CategoryID = input.CategoryID

	if err := s.uow.Products().Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	_ = s.cache.InvalidateProduct(ctx, id)
	if oldStock != product.StockQuantity {
		s.notifyStock(product.ID, product.StockQuantity)
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.uow.Products().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProductNotFound
		}
		return fmt.Errorf("find product: %w", err)
	}

	s.deleteAsset(product.ImageURL)

	if err := s.uow.Products().Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	_ = s.cache.InvalidateProduct(ctx, id)
	s.notifyStock(id, 0)
	return nil
}

// AddStock replenishes inventory by the given positive quantity.
func (s *catalogService) AddStock(ctx context.Context, id uint, quantity int) (*model.Product, error) {
	if quantity <= 0 {
		return nil, apperrors.ErrInvalidQuantity
	}

	if err := s.uow.Products().IncrementStock(ctx, id, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("increment stock: %w", err)
	}

	product, err := s.uow.Products().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload product: %w", err)
	}

	_ = s.cache.InvalidateProduct(ctx, id)
	s.notifyStock(product.ID, product.StockQuantity)
	return product, nil
}

// deleteAsset removes an old image best-effort; a failed disk cleanup never
// fails the data operation.
func (s *catalogService) deleteAsset(url *string) {
	if url == nil || *url == "" {
		return
	}
	if err := s.assets.Delete(*url); err != nil {
		log.Printf("delete asset %s: %v", *url, err)
	}
}

func (s *catalogService) notifyStock(productID uint, stockQuantity int) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishStockUpdate(productID, stockQuantity); err != nil {
		log.Printf("publish stock update for product %d: %v", productID, err)
	}
}
