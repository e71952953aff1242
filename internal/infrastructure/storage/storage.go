// Package storage keeps the bytes behind listing images, either on local disk
// or in an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/oltenita/imobilia-market/internal/core/ports"
	"github.com/oltenita/imobilia-market/internal/infrastructure/config"
)

// LocalURLPrefix is the path under which the router serves the upload dir.
const LocalURLPrefix = "/uploads"

// New builds the image store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (ports.ImageStore, error) {
	switch cfg.Driver {
	case config.StorageLocal:
		return NewLocalStore(cfg.UploadDir, LocalURLPrefix)
	case config.StorageS3:
		return NewS3Store(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

// objectName returns a fresh, collision-free name that keeps the upload's
// extension so browsers and CDNs pick the right content type.
func objectName(u ports.ImageUpload) string {
	return uuid.NewString() + extension(u)
}

// imageExts are the only extensions a stored object may carry.
var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".avif": true, ".bmp": true, ".tif": true, ".tiff": true, ".heic": true, ".heif": true,
}

// extension keeps the upload's own extension when it names an image format and
// otherwise derives one from the content type. Anything else gets none.
func extension(u ports.ImageUpload) string {
	ext := strings.ToLower(filepath.Ext(u.Filename))
	if imageExts[ext] {
		return ext
	}
	if mt := mimetype.Lookup(u.ContentType); mt != nil && imageExts[mt.Extension()] {
		return mt.Extension()
	}
	return ""
}
