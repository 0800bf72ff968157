package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS stores objects in a Google Cloud Storage bucket with public read access.
type GCS struct {
	Client *gcs.Client
	Bucket string
}

// NewGCS builds a client from a service-account file, or from application
// default credentials when credentialsFile is empty.
func NewGCS(ctx context.Context, bucket, credentialsFile string) (*GCS, error) {
	if bucket == "" {
		return nil, errors.New("gcs: bucket name is required")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCS{Client: client, Bucket: bucket}, nil
}

func (g *GCS) Put(ctx context.Context, name string, data []byte, contentType string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := g.Client.Bucket(g.Bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"
	w.PredefinedACL = "publicRead"
	if _, err := w.Write(data); err != nil {
		cancel()
		_ = w.Close()
		return fmt.Errorf("gcs write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs close %s: %w", name, err)
	}
	return nil
}

// Delete removes name. A missing object is not an error.
func (g *GCS) Delete(ctx context.Context, name string) error {
	err := g.Client.Bucket(g.Bucket).Object(name).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("gcs delete %s: %w", name, err)
	}
	return nil
}

func (g *GCS) PublicURL(name string) string {
	return "https://storage.googleapis.com/" + g.Bucket + "/" + escapePath(name)
}

func (g *GCS) Close() error {
	return g.Client.Close()
}

func escapePath(name string) string {
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
