package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const bcryptCost = 10

// TokenPair carries an access token and its companion refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService handles registration, login and refresh token rotation.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*TokenPair, *model.User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authService struct {
	uow        repository.UnitOfWork
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(uow repository.UnitOfWork, jwtService *auth.JWTService) AuthService {
	return &authService{
		uow:        uow,
		jwtService: jwtService,
	}
}

// Register creates a new user with a hashed password and an empty cart.
// The cart is created in a second step because its foreign key needs the
// generated user id; both steps commit in one transaction.
func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	existing, err := s.uow.Users().FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleCustomer,
	}

	err = s.uow.Do(ctx, func(ctx context.Context, tx repository.UnitOfWork) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			// A concurrent registration can slip past the existence check
			// and land on the unique index.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrUserAlreadyExists
			}
			return fmt.Errorf("create user: %w", err)
		}
		cart := &model.Cart{UserID: user.ID}
		if err := tx.Carts().Create(ctx, cart); err != nil {
			return fmt.Errorf("create cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and issues a token pair. Unknown usernames and
// wrong passwords fail identically so callers learn nothing about which.
func (s *authService) Login(ctx context.Context, username, password string) (*TokenPair, *model.User, error) {
	user, err := s.uow.Users().FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Refresh validates a stored refresh token and rotates it. Tokens are
// single-use: the previous value is overwritten and can never match again.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	user, err := s.uow.Users().FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}
	if user.RefreshTokenExpiresAt == nil || !user.RefreshTokenExpiresAt.After(time.Now()) {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	return s.issueTokens(ctx, user)
}

// issueTokens generates an access token and stores a brand-new refresh token
// against the user.
func (s *authService) issueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(auth.RefreshTokenExpiry)
	user.RefreshToken = &refreshToken
	user.RefreshTokenExpiresAt = &expiresAt
	if err := s.uow.Users().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
