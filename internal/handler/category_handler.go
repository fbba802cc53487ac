package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/service"
)

// CategoryHandler handles category CRUD endpoints.
type CategoryHandler struct {
	catalog service.CatalogService
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(catalog service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

// imageUpload opens an optional multipart image field. Returns nil when the
// field is absent. The returned closer must be closed by the caller.
func imageUpload(c echo.Context, field string) (*service.ImageUpload, multipart.File, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		// http.ErrMissingFile and echo's variants all mean "no upload"
		return nil, nil, nil
	}
	src, err := fileHeader.Open()
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable image upload")
	}
	return &service.ImageUpload{Filename: fileHeader.Filename, Content: src}, src, nil
}

// List godoc
// @Summary List categories with their products
// @Tags categories
// @Produce json
// @Success 200 {array} model.Category
// @Router /categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

// Get godoc
// @Summary Get a category by id
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} model.Category
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	category, err := h.catalog.GetCategory(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// Create godoc
// @Summary Create a category
// @Tags categories
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Category name"
// @Param image formData file false "Category image"
// @Success 201 {object} model.Category
// @Failure 400 {object} errors.ErrorResponse
// @Router /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	name := c.FormValue("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	image, src, err := imageUpload(c, "image")
	if err != nil {
		return err
	}
	if src != nil {
		defer src.Close()
	}

	category, err := h.catalog.CreateCategory(c.Request().Context(), service.CategoryInput{
		Name:  name,
		Image: image,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// Update godoc
// @Summary Update a category
// @Tags categories
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param name formData string true "Category name"
// @Param image formData file false "Replacement image"
// @Success 200 {object} model.Category
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	name := c.FormValue("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	image, src, err := imageUpload(c, "image")
	if err != nil {
		return err
	}
	if src != nil {
		defer src.Close()
	}

	category, err := h.catalog.UpdateCategory(c.Request().Context(), id, service.CategoryInput{
		Name:  name,
		Image: image,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// Delete godoc
// @Summary Delete a category
// @Tags categories
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteCategory(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
