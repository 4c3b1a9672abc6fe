// Package storage implements service.ObjectStorage on top of a gocloud.dev blob bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"marketplace/config"
	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/service"
	"marketplace/internal/errors"
	"marketplace/internal/util"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets for local development
	_ "gocloud.dev/blob/gcsblob"  // gs:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets for tests
	_ "gocloud.dev/blob/s3blob"   // s3:// buckets
	"gocloud.dev/gcerrors"
)

const checksumMetadataKey = "sha256"

// Params defines the dependencies of New.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

type bucketStorage struct {
	bucket        *blob.Bucket
	name          string
	publicBaseURL string
	maxSize       int64
	allowedTypes  []string
}

// New opens the configured bucket URL and closes it on shutdown.
func New(params Params) (service.ObjectStorage, error) {
	cfg := params.Config.Storage

	bucket, err := blob.OpenBucket(context.Background(), cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", cfg.BucketURL)
	}

	params.Logger.Info("Object storage bucket opened",
		slog.String("bucket", cfg.BucketName),
		slog.String("url", redactURL(cfg.BucketURL)),
		slog.String("maxObjectSize", util.FormatBytes(cfg.MaxObjectSize)),
	)

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return errors.WithStack(bucket.Close())
		},
	})

	return NewBucketStorage(bucket, cfg), nil
}

// NewBucketStorage wraps an open bucket with the bucket rules from cfg.
func NewBucketStorage(bucket *blob.Bucket, cfg *config.StorageConfig) service.ObjectStorage {
	allowed := make([]string, 0, len(cfg.AllowedContentTypes))
	for _, ct := range cfg.AllowedContentTypes {
		allowed = append(allowed, strings.ToLower(strings.TrimSpace(ct)))
	}

	return &bucketStorage{
		bucket:        bucket,
		name:          cfg.BucketName,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		maxSize:       cfg.MaxObjectSize,
		allowedTypes:  allowed,
	}
}

func (s *bucketStorage) Bucket() string {
	return s.name
}

// Put validates the object against the bucket limits and writes it.
func (s *bucketStorage) Put(ctx context.Context, name, contentType string, data []byte) (*entity.StoredObject, error) {
	key, err := cleanKey(name)
	if err != nil {
		return nil, err
	}

	size := int64(len(data))
	if s.maxSize > 0 && size > s.maxSize {
		return nil, domainerrors.ErrObjectTooLarge.WithDetails(fmt.Sprintf(
			"object is %s, limit is %s", util.FormatBytes(size), util.FormatBytes(s.maxSize)))
	}

	contentType, err = s.resolveContentType(contentType, data)
	if err != nil {
		return nil, err
	}

	if err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{
		ContentType: contentType,
		Metadata:    map[string]string{checksumMetadataKey: util.ChecksumBytes(data)},
	}); err != nil {
		return nil, domainerrors.ErrStorageFailed.WrapMessage(err.Error())
	}

	return s.Stat(ctx, key)
}

func (s *bucketStorage) Stat(ctx context.Context, name string) (*entity.StoredObject, error) {
	key, err := cleanKey(name)
	if err != nil {
		return nil, err
	}

	attrs, err := s.bucket.Attributes(ctx, key)
	if err != nil {
		return nil, s.translate(err, key)
	}

	return &entity.StoredObject{
		Bucket:      s.name,
		Name:        key,
		ContentType: attrs.ContentType,
		Size:        attrs.Size,
		URL:         s.PublicURL(key),
		ModTime:     attrs.ModTime,
	}, nil
}

func (s *bucketStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key, err := cleanKey(name)
	if err != nil {
		return nil, err
	}

	reader, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, s.translate(err, key)
	}

	return reader, nil
}

func (s *bucketStorage) Delete(ctx context.Context, name string) error {
	key, err := cleanKey(name)
	if err != nil {
		return err
	}

	if err := s.bucket.Delete(ctx, key); err != nil {
		return s.translate(err, key)
	}

	return nil
}

// PublicURL joins the public base URL and the escaped object key.
func (s *bucketStorage) PublicURL(name string) string {
	segments := strings.Split(strings.TrimPrefix(name, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}

	return s.publicBaseURL + "/" + strings.Join(segments, "/")
}

func (s *bucketStorage) resolveContentType(declared string, data []byte) (string, error) {
	contentType := declared
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", domainerrors.ErrUnsupportedContentType.WithDetails("malformed content type: " + contentType)
	}
	mediaType = strings.ToLower(mediaType)

	if len(s.allowedTypes) > 0 && !slices.Contains(s.allowedTypes, mediaType) {
		return "", domainerrors.ErrUnsupportedContentType.WithDetails(fmt.Sprintf(
			"%s is not one of %s", mediaType, strings.Join(s.allowedTypes, ", ")))
	}

	return mediaType, nil
}

func (s *bucketStorage) translate(err error, key string) error {
	if gcerrors.Code(err) == gcerrors.NotFound {
		return domainerrors.ErrObjectNotFound
	}

	return domainerrors.ErrStorageFailed.WrapMessage(fmt.Sprintf("%s: %v", key, err))
}

// cleanKey rejects names that could escape their owner folder.
func cleanKey(name string) (string, error) {
	key := strings.TrimPrefix(name, "/")
	if key == "" {
		return "", domainerrors.ErrValidationFailed.WithDetails("object name is required")
	}

	for _, segment := range strings.Split(key, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return "", domainerrors.ErrValidationFailed.WithDetails("invalid object name: " + name)
		}
	}

	return key, nil
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	return u.Redacted()
}
