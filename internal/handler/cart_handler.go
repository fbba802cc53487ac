package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/service"
)

// CartHandler handles cart manipulation endpoints.
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddItemRequest represents an add-to-cart request.
type AddItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

// UpdateQuantityRequest represents a line item quantity change.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// Get godoc
// @Summary Get a user's cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} model.Cart
// @Failure 404 {object} errors.ErrorResponse
// @Router /cart/{userId} [get]
func (h *CartHandler) Get(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if err := requireSelfOrAdmin(c, userID); err != nil {
		return err
	}

	cart, err := h.cartService.GetCart(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

// AddItem godoc
// @Summary Add a product to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param request body AddItemRequest true "Product and quantity"
// @Success 200 {object} model.Cart
// @Failure 400 {object} errors.ErrorResponse
// @Router /cart/{userId}/add [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if err := requireSelfOrAdmin(c, userID); err != nil {
		return err
	}

	var req AddItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cart, err := h.cartService.AddItem(c.Request().Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

// UpdateQuantity godoc
// @Summary Change a line item's quantity
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param itemId path int true "Cart item ID"
// @Param request body UpdateQuantityRequest true "New quantity"
// @Success 200 {object} model.CartItem
// @Failure 400 {object} errors.ErrorResponse
// @Router /cart/{userId}/update/{itemId} [put]
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return err
	}
	if err := requireSelfOrAdmin(c, userID); err != nil {
		return err
	}

	var req UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.cartService.UpdateQuantity(c.Request().Context(), userID, itemID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// RemoveItem godoc
// @Summary Remove a line item from the cart
// @Tags cart
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param itemId path int true "Cart item ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /cart/{userId}/remove/{itemId} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return err
	}
	if err := requireSelfOrAdmin(c, userID); err != nil {
		return err
	}

	if err := h.cartService.RemoveItem(c.Request().Context(), userID, itemID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Clear godoc
// @Summary Remove every line item from the cart
// @Tags cart
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Router /cart/{userId} [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if err := requireSelfOrAdmin(c, userID); err != nil {
		return err
	}

	if err := h.cartService.ClearCart(c.Request().Context(), userID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
