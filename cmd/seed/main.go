package main

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// seedProduct pairs a product with the name of its owning category.
type seedProduct struct {
	category    string
	name        string
	description string
	price       string
	stock       int
}

var seedCategories = []string{"Electronics", "Books", "Clothing"}

var seedProducts = []seedProduct{
	{"Electronics", "Wireless Mouse", "2.4GHz wireless mouse with USB receiver", "24.99", 120},
	{"Electronics", "Mechanical Keyboard", "Tenkeyless keyboard with brown switches", "89.90", 45},
	{"Electronics", "USB-C Hub", "7-in-1 hub with HDMI and card reader", "39.50", 80},
	{"Books", "The Pragmatic Programmer", "20th anniversary edition", "42.00", 35},
	{"Books", "Clean Architecture", "A craftsman's guide to software structure", "31.75", 50},
	{"Clothing", "Plain White Tee", "100% cotton, unisex fit", "12.00", 200},
	{"Clothing", "Hooded Sweatshirt", "Heavyweight fleece hoodie", "34.99", 90},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	carts := repository.NewCartRepository(gormDB)
	categories := repository.NewCategoryRepository(gormDB)
	products := repository.NewProductRepository(gormDB)

	if err := seedAdmin(ctx, users, carts); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	categoryIDs, err := seedCatalog(ctx, categories)
	if err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	created, err := seedInventory(ctx, gormDB, products, categoryIDs)
	if err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Categories: %d", len(categoryIDs))
	log.Printf("  - New products created: %d", created)
}

// seedAdmin creates the admin account and its cart unless one already exists.
func seedAdmin(ctx context.Context, users repository.UserRepository, carts repository.CartRepository) error {
	existing, err := users.FindByUsername(ctx, "admin")
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil {
		log.Println("Admin user already present, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username:     "admin",
		Email:        "admin@storefront.local",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	if err := carts.Create(ctx, &model.Cart{UserID: admin.ID}); err != nil {
		return err
	}

	log.Println("Admin user created (username: admin)")
	return nil
}

// seedCatalog ensures the demo categories exist and returns name to id.
func seedCatalog(ctx context.Context, categories repository.CategoryRepository) (map[string]uint, error) {
	existing, err := categories.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]uint, len(seedCategories))
	for _, c := range existing {
		ids[c.Name] = c.ID
	}

	for _, name := range seedCategories {
		if _, ok := ids[name]; ok {
			continue
		}
		category := &model.Category{Name: name}
		if err := categories.Create(ctx, category); err != nil {
			return nil, err
		}
		ids[name] = category.ID
		log.Printf("Created category %q", name)
	}

	return ids, nil
}

// seedInventory creates demo products that are not present yet, matching by
// name within the owning category.
func seedInventory(ctx context.Context, gormDB *gorm.DB, products repository.ProductRepository, categoryIDs map[string]uint) (int, error) {
	created := 0
	for _, p := range seedProducts {
		categoryID, ok := categoryIDs[p.category]
		if !ok {
			log.Printf("Skipping product %q: unknown category %q", p.name, p.category)
			continue
		}

		var count int64
		if err := gormDB.WithContext(ctx).
			Model(&model.Product{}).
			Where("name = ? AND category_id = ?", p.name, categoryID).
			Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}

		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return created, err
		}

		product := &model.Product{
			Name:          p.name,
			Description:   p.description,
			Price:         price,
			StockQuantity: p.stock,
			CategoryID:    categoryID,
		}
		if err := products.Create(ctx, product); err != nil {
			return created, err
		}
		created++
		log.Printf("Created product %q", p.name)
	}

	return created, nil
}
