package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// formImage reads an optional file field. A missing field yields nil.
func formImage(c echo.Context, field string) (*usecase.ImageUpload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}

		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid " + field + " upload")
	}

	return readFileHeader(header)
}

// requiredImage reads a file field or falls back to the raw request body,
// so a plain PUT with an image content type also works.
func requiredImage(c echo.Context, field string) (*usecase.ImageUpload, error) {
	if isMultipart(c) {
		upload, err := formImage(c, field)
		if err != nil {
			return nil, err
		}
		if upload == nil {
			return nil, domainerrors.ErrValidationFailed.WithDetails(field + " is required")
		}

		return upload, nil
	}

	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read request body")
	}
	if len(data) == 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("request body is empty")
	}

	return &usecase.ImageUpload{
		ContentType: c.Request().Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}

func readFileHeader(header *multipart.FileHeader) (*usecase.ImageUpload, error) {
	file, err := header.Open()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read uploaded file")
	}

	return &usecase.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}
