package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"marketplace/internal/delivery/api/response"
	deliverycontext "marketplace/internal/delivery/context"
	"marketplace/internal/infra/metrics"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// uploadField is the multipart field carrying the image file.
const uploadField = "file"

// StorageHandlerParams holds dependencies for StorageHandler, injected by Fx.
type StorageHandlerParams struct {
	fx.In

	StorageUC usecase.StorageUsecase
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// StorageHandler serves the product-images bucket.
type StorageHandler struct {
	storageUC usecase.StorageUsecase
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewStorageHandler is the constructor for StorageHandler
func NewStorageHandler(params StorageHandlerParams) *StorageHandler {
	return &StorageHandler{
		storageUC: params.StorageUC,
		metrics:   params.Metrics,
		logger:    params.Logger,
	}
}

// Upload stores a new image in the caller's folder.
func (h *StorageHandler) Upload(c echo.Context) error {
	upload, err := requiredImage(c, uploadField)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	obj, err := h.storageUC.UploadProductImage(c.Request().Context(), deliverycontext.GetPrincipal(c), upload)
	h.metrics.ObserveUpload(err)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, newStoredObjectResponse(obj))
}

// Download streams a public image.
func (h *StorageHandler) Download(c echo.Context) error {
	obj, reader, err := h.storageUC.OpenProductImage(c.Request().Context(), deliverycontext.GetPrincipal(c), c.Param("*"))
	if err != nil {
		return response.HandleAppError(c, err)
	}
	defer reader.Close()

	header := c.Response().Header()
	if obj.Size > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(obj.Size, 10))
	}
	if !obj.ModTime.IsZero() {
		header.Set(echo.HeaderLastModified, obj.ModTime.UTC().Format(http.TimeFormat))
	}

	return c.Stream(http.StatusOK, obj.ContentType, reader)
}

// Replace overwrites an image in the caller's folder.
func (h *StorageHandler) Replace(c echo.Context) error {
	upload, err := requiredImage(c, uploadField)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	obj, err := h.storageUC.ReplaceProductImage(c.Request().Context(), deliverycontext.GetPrincipal(c), c.Param("*"), upload)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newStoredObjectResponse(obj))
}

// Delete removes an image in the caller's folder.
func (h *StorageHandler) Delete(c echo.Context) error {
	if err := h.storageUC.DeleteProductImage(c.Request().Context(), deliverycontext.GetPrincipal(c), c.Param("*")); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.NoContent(c)
}
