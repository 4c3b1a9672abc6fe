package usecase

import (
	"context"
	"io"

	"marketplace/internal/domain/entity"
)

// StorageUsecase defines the product-images bucket operations.
type StorageUsecase interface {
	// UploadProductImage stores a new image under {principal}/{epoch_millis}.{ext}.
	UploadProductImage(ctx context.Context, principal entity.Principal, input *ImageUpload) (*entity.StoredObject, error)
	OpenProductImage(ctx context.Context, principal entity.Principal, name string) (*entity.StoredObject, io.ReadCloser, error)
	ReplaceProductImage(ctx context.Context, principal entity.Principal, name string, input *ImageUpload) (*entity.StoredObject, error)
	DeleteProductImage(ctx context.Context, principal entity.Principal, name string) error
}
