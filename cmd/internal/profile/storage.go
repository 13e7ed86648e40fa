// Package profile stores and serves user profile photos on object storage.
package profile

import (
	"context"
	"errors"
	"io"
)

// ErrPhotoNotFound is returned when a user has no stored photo.
var ErrPhotoNotFound = errors.New("profile photo not found")

// Storage persists one photo per user. Uploading again replaces the
// previous photo.
type Storage interface {
	// Put stores the photo body for userID under the given content type.
	Put(ctx context.Context, userID, contentType string, body io.Reader) error

	// Get streams the stored photo and reports its content type.
	// Returns ErrPhotoNotFound when nothing is stored.
	// The caller closes the returned body.
	Get(ctx context.Context, userID string) (io.ReadCloser, string, error)
}

// objectKey maps a user to their photo's storage key.
func objectKey(userID string) string {
	return "profile-photos/" + userID
}
