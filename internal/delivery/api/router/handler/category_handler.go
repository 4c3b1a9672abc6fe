package handler

import (
	"net/http"

	"marketplace/internal/delivery/api/response"
	deliverycontext "marketplace/internal/delivery/context"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
)

// CategoryHandler serves the category listing.
type CategoryHandler struct {
	categoryUC usecase.CategoryUsecase
}

// NewCategoryHandler is the constructor for CategoryHandler
func NewCategoryHandler(categoryUC usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{categoryUC: categoryUC}
}

// List returns every category ordered by name.
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.categoryUC.ListCategories(c.Request().Context(), deliverycontext.GetPrincipal(c))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newCategoryResponses(categories))
}
