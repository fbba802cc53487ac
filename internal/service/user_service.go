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

// UserService exposes read access to user accounts for administration.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
}

type userService struct {
	uow repository.UnitOfWork
}

// NewUserService creates a new user service.
func NewUserService(uow repository.UnitOfWork) UserService {
	return &userService{uow: uow}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.uow.Users().List(ctx)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.uow.Users().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
