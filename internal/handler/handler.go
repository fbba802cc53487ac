package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
)

// respondError maps a domain error to its HTTP representation. Unexpected
// errors are logged with full context and surface as a sanitized 500.
func respondError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

// currentClaims extracts the verified JWT claims set by the auth middleware.
func currentClaims(c echo.Context) (*auth.Claims, error) {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	return claims, nil
}

// requireSelfOrAdmin lets a user act on their own resources; admins may act
// on anyone's.
func requireSelfOrAdmin(c echo.Context, userID uint) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	if claims.UserID != userID && claims.Role != model.RoleAdmin {
		return respondError(c, apperrors.ErrForbidden)
	}
	return nil
}
