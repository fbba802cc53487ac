package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/service"
)

// ProductHandler handles product CRUD and stock endpoints.
type ProductHandler struct {
	catalog service.CatalogService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalog service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// AddStockRequest represents a stock replenishment request.
type AddStockRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// productInput parses the multipart form shared by create and update.
func productInput(c echo.Context) (service.ProductInput, func(), error) {
	noop := func() {}

	name := c.FormValue("name")
	if name == "" {
		return service.ProductInput{}, noop, echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	price, err := decimal.NewFromString(c.FormValue("price"))
	if err != nil || price.IsNegative() {
		return service.ProductInput{}, noop, echo.NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	stock, err := strconv.Atoi(c.FormValue("stock_quantity"))
	if err != nil || stock < 0 {
		return service.ProductInput{}, noop, echo.NewHTTPError(http.StatusBadRequest, "invalid stock quantity")
	}

	categoryID, err := strconv.ParseUint(c.FormValue("category_id"), 10, 32)
	if err != nil || categoryID == 0 {
		return service.ProductInput{}, noop, echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	image, src, err := imageUpload(c, "image")
	if err != nil {
		return service.ProductInput{}, noop, err
	}
	cleanup := noop
	if src != nil {
		cleanup = func() { src.Close() }
	}

	return service.ProductInput{
		Name:          name,
		Description:   c.FormValue("description"),
		Price:         price,
		StockQuantity: stock,
		CategoryID:    uint(categoryID),
		Image:         image,
	}, cleanup, nil
}

// List godoc
// @Summary List products with their categories
// @Tags products
// @Produce json
// @Success 200 {array} model.Product
// @Router /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.catalog.ListProducts(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// Get godoc
// @Summary Get a product by id
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// Create godoc
// @Summary Create a product
// @Tags products
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Product name"
// @Param description formData string false "Description"
// @Param price formData string true "Unit price"
// @Param stock_quantity formData int true "Initial stock"
// @Param category_id formData int true "Owning category"
// @Param image formData file false "Product image"
// @Success 201 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	input, cleanup, err := productInput(c)
	if err != nil {
		return err
	}
	defer cleanup()

	product, err := h.catalog.CreateProduct(c.Request().Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// Update godoc
// @Summary Update a product
// @Tags products
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	input, cleanup, err := productInput(c)
	if err != nil {
		return err
	}
	defer cleanup()

	product, err := h.catalog.UpdateProduct(c.Request().Context(), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// AddStock godoc
// @Summary Replenish product stock
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body AddStockRequest true "Quantity to add"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Router /products/{id}/stock [put]
func (h *ProductHandler) AddStock(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req AddStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.catalog.AddStock(c.Request().Context(), id, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// Delete godoc
// @Summary Delete a product
// @Tags products
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteProduct(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
