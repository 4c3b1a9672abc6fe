package impl

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"sync/atomic"
	"time"

	deliverycontext "marketplace/internal/delivery/context"
	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/policy"
	"marketplace/internal/domain/service"
	"marketplace/internal/usecase"

	"github.com/pkg/errors"
)

// storageService implements the StorageUsecase interface for the product-images bucket.
type storageService struct {
	storage service.ObjectStorage
	logger  *slog.Logger
}

// NewStorageService is the constructor for storageService.
func NewStorageService(storage service.ObjectStorage, logger *slog.Logger) usecase.StorageUsecase {
	return &storageService{
		storage: storage,
		logger:  logger,
	}
}

// UploadProductImage stores the image under a key owned by the principal.
func (srv *storageService) UploadProductImage(ctx context.Context, principal entity.Principal, input *usecase.ImageUpload) (*entity.StoredObject, error) {
	obj, err := uploadImage(ctx, policy.NewObjectAccess(principal, srv.storage), principal, input)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload product image")
	}

	deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Info("Product image uploaded",
		slog.String("name", obj.Name),
		slog.Int64("size", obj.Size),
	)

	return obj, nil
}

// OpenProductImage returns a public object and its content.
func (srv *storageService) OpenProductImage(ctx context.Context, principal entity.Principal, name string) (*entity.StoredObject, io.ReadCloser, error) {
	obj, reader, err := policy.NewObjectAccess(principal, srv.storage).Open(ctx, name)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open product image")
	}

	return obj, reader, nil
}

// ReplaceProductImage overwrites an image inside the principal's folder.
func (srv *storageService) ReplaceProductImage(ctx context.Context, principal entity.Principal, name string, input *usecase.ImageUpload) (*entity.StoredObject, error) {
	if !principal.IsAuthenticated() {
		return nil, domainerrors.ErrUnauthorized
	}
	if input == nil || len(input.Data) == 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("image is required")
	}

	obj, err := policy.NewObjectAccess(principal, srv.storage).Replace(ctx, name, input.ContentType, input.Data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to replace product image")
	}

	return obj, nil
}

// DeleteProductImage removes an image inside the principal's folder.
func (srv *storageService) DeleteProductImage(ctx context.Context, principal entity.Principal, name string) error {
	if !principal.IsAuthenticated() {
		return domainerrors.ErrUnauthorized
	}

	if err := policy.NewObjectAccess(principal, srv.storage).Delete(ctx, name); err != nil {
		return errors.Wrap(err, "failed to delete product image")
	}

	deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Info("Product image deleted", slog.String("name", name))

	return nil
}

// maxUploadAttempts bounds the retries on a key taken by another writer.
const maxUploadAttempts = 5

// uploadClock hands out strictly increasing key timestamps within the process.
var uploadClock keyClock

// keyClock returns the current millisecond, or the one after the last it
// issued when uploads land in the same millisecond.
type keyClock struct {
	last atomic.Int64
}

func (c *keyClock) next() time.Time {
	for {
		last := c.last.Load()
		millis := time.Now().UnixMilli()
		if millis <= last {
			millis = last + 1
		}
		if c.last.CompareAndSwap(last, millis) {
			return time.UnixMilli(millis)
		}
	}
}

// uploadImage writes a new object at {owner}/{epoch_millis}.{ext}.
func uploadImage(ctx context.Context, access *policy.ObjectAccess, principal entity.Principal, input *usecase.ImageUpload) (*entity.StoredObject, error) {
	if input == nil || len(input.Data) == 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("image is required")
	}

	contentType := input.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(input.Data)
	}
	ext := imageExtension(contentType, input.Filename)

	var err error
	for range maxUploadAttempts {
		var obj *entity.StoredObject
		obj, err = access.Upload(ctx, entity.ObjectKey(principal.ID, uploadClock.next(), ext), contentType, input.Data)
		if !errors.Is(err, domainerrors.ErrConflict) {
			return obj, err
		}
	}

	return nil, err
}

// imageExtension picks the key extension from the content type, then the file name.
func imageExtension(contentType, filename string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	switch strings.TrimSpace(strings.ToLower(mediaType)) {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	}

	if ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), "."); ext != "" {
		return ext
	}

	return "bin"
}
