package policy

import (
	"context"
	"io"

	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/service"
	"marketplace/internal/errors"
)

// ObjectAccess is an ObjectStorage bucket bound to a principal and checked against Objects.
type ObjectAccess struct {
	principal entity.Principal
	storage   service.ObjectStorage
	policies  Set[entity.StoredObject]
}

// NewObjectAccess binds the bucket to the principal.
func NewObjectAccess(principal entity.Principal, storage service.ObjectStorage) *ObjectAccess {
	return &ObjectAccess{
		principal: principal,
		storage:   storage,
		policies:  Objects(storage.Bucket()),
	}
}

// Stat returns the object's attributes when the principal may select it.
func (a *ObjectAccess) Stat(ctx context.Context, name string) (*entity.StoredObject, error) {
	obj, err := a.storage.Stat(ctx, name)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if !a.policies.Using(Select, a.principal, obj) {
		return nil, domainerrors.ErrObjectNotFound
	}

	return obj, nil
}

// Open returns the object and a reader for its content.
func (a *ObjectAccess) Open(ctx context.Context, name string) (*entity.StoredObject, io.ReadCloser, error) {
	obj, err := a.Stat(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	reader, err := a.storage.Open(ctx, name)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	return obj, reader, nil
}

// Upload stores a new object. Existing names are not overwritten.
func (a *ObjectAccess) Upload(ctx context.Context, name, contentType string, data []byte) (*entity.StoredObject, error) {
	candidate := a.candidate(name, contentType, data)
	if !a.policies.Check(Insert, a.principal, candidate) {
		return nil, domainerrors.ErrPolicyViolation.WrapMessage("insert into storage.objects")
	}

	if _, err := a.storage.Stat(ctx, name); err == nil {
		return nil, domainerrors.ErrConflict.WithDetails("object already exists: " + name)
	} else if !errors.Is(err, domainerrors.ErrObjectNotFound) {
		return nil, errors.WithStack(err)
	}

	obj, err := a.storage.Put(ctx, name, contentType, data)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return obj, nil
}

// Replace overwrites an object the principal owns.
func (a *ObjectAccess) Replace(ctx context.Context, name, contentType string, data []byte) (*entity.StoredObject, error) {
	current, err := a.storage.Stat(ctx, name)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if !a.policies.Using(Update, a.principal, current) {
		return nil, domainerrors.ErrObjectNotFound
	}

	if !a.policies.Check(Update, a.principal, a.candidate(name, contentType, data)) {
		return nil, domainerrors.ErrPolicyViolation.WrapMessage("update storage.objects")
	}

	obj, err := a.storage.Put(ctx, name, contentType, data)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return obj, nil
}

// Delete removes an object the principal owns.
func (a *ObjectAccess) Delete(ctx context.Context, name string) error {
	current, err := a.storage.Stat(ctx, name)
	if err != nil {
		return errors.WithStack(err)
	}

	if !a.policies.Using(Delete, a.principal, current) {
		return domainerrors.ErrObjectNotFound
	}

	return errors.WithStack(a.storage.Delete(ctx, name))
}

func (a *ObjectAccess) candidate(name, contentType string, data []byte) *entity.StoredObject {
	return &entity.StoredObject{
		Bucket:      a.storage.Bucket(),
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
	}
}
