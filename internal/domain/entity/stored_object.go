package entity

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StoredObject describes an object in a storage bucket. Ownership is structural:
// the first path segment of Name is the uploader's identity id.
type StoredObject struct {
	Bucket      string
	Name        string
	ContentType string
	Size        int64
	URL         string
	ModTime     time.Time
}

// OwnerSegment returns the first path segment of the object name.
func (o *StoredObject) OwnerSegment() string {
	return FirstPathSegment(o.Name)
}

// FirstPathSegment returns the folder component an object key starts with.
func FirstPathSegment(name string) string {
	name = strings.TrimPrefix(name, "/")
	segment, _, found := strings.Cut(name, "/")
	if !found {
		return ""
	}

	return segment
}

// ObjectKey builds the {owner}/{epoch_millis}.{ext} key for a new upload.
func ObjectKey(owner uuid.UUID, at time.Time, ext string) string {
	return owner.String() + "/" + strconv.FormatInt(at.UnixMilli(), 10) + "." + strings.TrimPrefix(ext, ".")
}
