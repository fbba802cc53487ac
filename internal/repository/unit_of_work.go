package repository

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork aggregates one repository per aggregate root. Do runs a function
// against transaction-bound repository instances inside a single database
// transaction: every mutation inside one Do either commits as a whole or is
// rolled back.
type UnitOfWork interface {
	Users() UserRepository
	Categories() CategoryRepository
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository

	Do(ctx context.Context, fn func(ctx context.Context, tx UnitOfWork) error) error
}

type gormUnitOfWork struct {
	db         *gorm.DB
	users      UserRepository
	categories CategoryRepository
	products   ProductRepository
	carts      CartRepository
	orders     OrderRepository
}

// NewUnitOfWork builds a unit of work over the given GORM handle.
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{
		db:         db,
		users:      NewUserRepository(db),
		categories: NewCategoryRepository(db),
		products:   NewProductRepository(db),
		carts:      NewCartRepository(db),
		orders:     NewOrderRepository(db),
	}
}

func (u *gormUnitOfWork) Users() UserRepository          { return u.users }
func (u *gormUnitOfWork) Categories() CategoryRepository { return u.categories }
func (u *gormUnitOfWork) Products() ProductRepository    { return u.products }
func (u *gormUnitOfWork) Carts() CartRepository          { return u.carts }
func (u *gormUnitOfWork) Orders() OrderRepository        { return u.orders }

// Do executes fn within a database transaction. Returning an error from fn
// rolls back every repository mutation performed through the passed unit.
func (u *gormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewUnitOfWork(tx))
	})
}
