package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"marketplace/internal/delivery/api/response"
	deliverycontext "marketplace/internal/delivery/context"
	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/infra/metrics"
	"marketplace/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// ProductHandlerParams holds dependencies for ProductHandler, injected by Fx.
type ProductHandlerParams struct {
	fx.In

	ProductUC usecase.ProductUsecase
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// ProductHandler serves the catalog, purchases and the seller dashboard.
type ProductHandler struct {
	productUC usecase.ProductUsecase
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewProductHandler is the constructor for ProductHandler
func NewProductHandler(params ProductHandlerParams) *ProductHandler {
	return &ProductHandler{
		productUC: params.ProductUC,
		metrics:   params.Metrics,
		logger:    params.Logger,
	}
}

// CreateProductRequest represents the JSON body for listing a product
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	ImageURL    *string         `json:"image_url" validate:"omitempty,url"`
	Active      *bool           `json:"active"`
}

// UpdateProductRequest represents the JSON body for updating a product.
// Absent fields are left unchanged; clear_* removes an optional column.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Quantity      *int             `json:"quantity" validate:"omitempty,gte=0"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	ClearCategory bool             `json:"clear_category"`
	ImageURL      *string          `json:"image_url" validate:"omitempty,url"`
	ClearImage    bool             `json:"clear_image"`
	Active        *bool            `json:"active"`
}

// PurchaseRequest represents the request body for buying units of a product
type PurchaseRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// List returns a page of visible products.
func (h *ProductHandler) List(c echo.Context) error {
	input, err := bindListInput(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := h.productUC.ListProducts(c.Request().Context(), deliverycontext.GetPrincipal(c), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, &response.Page{
		Items:  newProductResponses(page.Items),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// Get returns one visible product.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	product, err := h.productUC.GetProduct(c.Request().Context(), deliverycontext.GetPrincipal(c), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newProductResponse(product))
}

// Create lists a new product. It accepts JSON or a multipart form with an optional image file.
func (h *ProductHandler) Create(c echo.Context) error {
	var (
		input *usecase.CreateProductInput
		err   error
	)
	if isMultipart(c) {
		input, err = bindCreateForm(c)
	} else {
		input, err = h.bindCreateJSON(c)
	}
	if err != nil {
		return response.HandleAppError(c, err)
	}

	product, err := h.productUC.CreateProduct(c.Request().Context(), deliverycontext.GetPrincipal(c), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, newProductResponse(product))
}

// Update changes the caller's own product.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	product, err := h.productUC.UpdateProduct(c.Request().Context(), deliverycontext.GetPrincipal(c), id, &usecase.UpdateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Quantity:      req.Quantity,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
		ImageURL:      req.ImageURL,
		ClearImage:    req.ClearImage,
		Active:        req.Active,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newProductResponse(product))
}

// Delete removes the caller's own product.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.productUC.DeleteProduct(c.Request().Context(), deliverycontext.GetPrincipal(c), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.NoContent(c)
}

// Purchase takes units of a product out of stock.
func (h *ProductHandler) Purchase(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req PurchaseRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid purchase input")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	out, err := h.productUC.Purchase(c.Request().Context(), deliverycontext.GetPrincipal(c), id, req.Quantity)
	h.metrics.ObservePurchase(req.Quantity, err)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, &PurchaseResponse{
		Quantity: out.Quantity,
		Product:  newProductResponse(out.Product),
	})
}

// QRCode renders a PNG share code for a visible product.
func (h *ProductHandler) QRCode(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	png, err := h.productUC.GetProductQRCode(c.Request().Context(), deliverycontext.GetPrincipal(c), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// Dashboard returns the seller's own products with inventory totals.
func (h *ProductHandler) Dashboard(c echo.Context) error {
	dashboard, err := h.productUC.GetSellerDashboard(c.Request().Context(), deliverycontext.GetPrincipal(c))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newDashboardResponse(dashboard))
}

func (h *ProductHandler) bindCreateJSON(c echo.Context) (*usecase.CreateProductInput, error) {
	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}

	return &usecase.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		Active:      req.Active,
	}, nil
}

func bindCreateForm(c echo.Context) (*usecase.CreateProductInput, error) {
	input := &usecase.CreateProductInput{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: c.FormValue("description"),
	}

	price, err := decimal.NewFromString(c.FormValue("price"))
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("price must be a decimal number")
	}
	input.Price = price

	if raw := c.FormValue("quantity"); raw != "" {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			return nil, domainerrors.ErrValidationFailed.WithDetails("quantity must be an integer")
		}
		input.Quantity = qty
	}

	if input.CategoryID, err = optionalUUID(c.FormValue("category_id"), "category_id"); err != nil {
		return nil, err
	}
	if input.Active, err = optionalBool(c.FormValue("active"), "active"); err != nil {
		return nil, err
	}

	if input.Image, err = formImage(c, "image"); err != nil {
		return nil, err
	}

	return input, nil
}

func bindListInput(c echo.Context) (*usecase.ListProductsInput, error) {
	input := &usecase.ListProductsInput{
		Search: strings.TrimSpace(c.QueryParam("search")),
		Sort:   entity.ProductSort(c.QueryParam("sort")),
	}

	err := echo.QueryParamsBinder(c).
		Int("limit", &input.Limit).
		Int("offset", &input.Offset).
		BindError()
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("limit and offset must be integers")
	}

	if input.CategoryID, err = optionalUUID(c.QueryParam("category_id"), "category_id"); err != nil {
		return nil, err
	}
	if input.SellerID, err = optionalUUID(c.QueryParam("seller_id"), "seller_id"); err != nil {
		return nil, err
	}
	if input.Active, err = optionalBool(c.QueryParam("active"), "active"); err != nil {
		return nil, err
	}

	return input, nil
}

func productID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domainerrors.ErrProductNotFound
	}

	return id, nil
}

func optionalUUID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(field + " must be a UUID")
	}

	return &id, nil
}

func optionalBool(raw, field string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(field + " must be true or false")
	}

	return &value, nil
}
