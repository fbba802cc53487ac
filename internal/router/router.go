package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"storefront/internal/auth"
	"storefront/internal/config"
	apperrors "storefront/internal/errors"
	"storefront/internal/handler"
	"storefront/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	categoryHandler *handler.CategoryHandler,
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Uploaded category and product images
	e.Static("/uploads", cfg.UploadDir)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh-token", authHandler.RefreshToken)

	api.GET("/categories", categoryHandler.List)
	api.GET("/categories/:id", categoryHandler.Get)
	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)

	// Secured routes (require JWT authentication). Parsing goes through
	// JWTService so issuer and audience are verified alongside signature
	// and lifetime; handlers read *auth.Claims from the context.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
	}))

	secured.GET("/me", authHandler.Me)

	// Cart routes
	secured.GET("/cart/:userId", cartHandler.Get)
	secured.POST("/cart/:userId/add", cartHandler.AddItem)
	secured.PUT("/cart/:userId/update/:itemId", cartHandler.UpdateQuantity)
	secured.DELETE("/cart/:userId/remove/:itemId", cartHandler.RemoveItem)
	secured.DELETE("/cart/:userId", cartHandler.Clear)

	// Order routes
	secured.POST("/orders/checkout/:userId", orderHandler.Checkout)
	secured.GET("/orders/user/:userId", orderHandler.ListByUser)
	secured.GET("/orders/:id", orderHandler.Get)

	// Admin-only catalog mutations and order listing
	admin := secured.Group("", requireAdmin)

	admin.POST("/categories", categoryHandler.Create)
	admin.PUT("/categories/:id", categoryHandler.Update)
	admin.DELETE("/categories/:id", categoryHandler.Delete)

	admin.POST("/products", productHandler.Create)
	admin.PUT("/products/:id", productHandler.Update)
	admin.PUT("/products/:id/stock", productHandler.AddStock)
	admin.DELETE("/products/:id", productHandler.Delete)

	admin.GET("/orders", orderHandler.List)

	admin.GET("/users", userHandler.List)
	admin.GET("/users/:id", userHandler.Get)
}

// requireAdmin rejects callers whose verified claims lack the admin role.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get("user").(*auth.Claims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		}
		if claims.Role != model.RoleAdmin {
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrForbidden)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
