package ports

import (
	"context"
	"io"
)

// ImageUpload is a single uploaded image as received from the client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// ImageStore keeps the backing bytes of listing images.
type ImageStore interface {
	// Save stores the upload and returns the public URL clients use to fetch it.
	Save(ctx context.Context, upload ImageUpload) (string, error)
	// Delete removes the object behind url. Unknown or already-missing objects
	// are not an error.
	Delete(ctx context.Context, url string) error
}
