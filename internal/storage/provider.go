// Package storage stores uploaded images behind a provider-agnostic
// interface. Keys are slash separated and relative, e.g. projects/<uuid>.jpg;
// the public URL of a key is /uploads/<key>.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/buildpanel/internal/server/config"
)

// Provider defines the behavior of a blob storage backend.
type Provider interface {
	Put(ctx context.Context, key string, body io.ReadSeeker, contentType string) error

	// Delete removes key. A key that does not exist counts as deleted.
	Delete(ctx context.Context, key string) error

	// Handler serves GET requests for keys; mount it with the uploads
	// prefix stripped.
	Handler() http.Handler
}

// New selects the provider named in the config.
func New(ctx context.Context, c *config.Config) (Provider, error) {
	switch c.StorageProvider {
	case config.StorageLocal, "":
		return NewLocalProvider(c.UploadDir)
	case config.StorageS3:
		return NewS3Provider(ctx, S3Options{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
		})
	default:
		return nil, fmt.Errorf("unknown storage provider %q", c.StorageProvider)
	}
}
