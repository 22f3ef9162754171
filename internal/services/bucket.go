package services

import (
  "context"
  "errors"
  "fmt"
  "io"
  "net/url"
  "path"
  "strings"

  "cloud.google.com/go/storage"
  "google.golang.org/api/option"

  "github.com/bidex-org/bidex-backend/internal/config"
  "github.com/bidex-org/bidex-backend/internal/logger"
)

type BucketService interface {
  UploadFile(ctx context.Context, bucket string, key string, contentType string, r io.Reader) error
  DeleteFile(ctx context.Context, bucket string, key string) error
  GetPublicURL(bucket string, key string) string
}

type bucketService struct {
  log           *logger.Logger
  client        *storage.Client
  publicBase    string
}

func NewBucketService(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (BucketService, error) {
  serviceLog := log.With("service", "BucketService")
  var opts []option.ClientOption
  if cfg.CredentialsFile != "" {
    opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
  } else {
    serviceLog.Warn("GCS_CREDENTIALS_FILE not set; using application default credentials")
  }
  client, err := storage.NewClient(ctx, opts...)
  if err != nil {
    return nil, fmt.Errorf("failed to create storage client: %w", err)
  }
  return &bucketService{
    log:        serviceLog,
    client:     client,
    publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
  }, nil
}

func (bs *bucketService) UploadFile(ctx context.Context, bucket string, key string, contentType string, r io.Reader) error {
  w := bs.client.Bucket(bucket).Object(key).NewWriter(ctx)
  w.ContentType = contentType
  if _, err := io.Copy(w, r); err != nil {
    w.Close()
    bs.log.Warn("Failed to write object", "bucket", bucket, "key", key, "error", err)
    return fmt.Errorf("failed to write %s/%s: %w", bucket, key, err)
  }
  if err := w.Close(); err != nil {
    bs.log.Warn("Failed to finalize object", "bucket", bucket, "key", key, "error", err)
    return fmt.Errorf("failed to finalize %s/%s: %w", bucket, key, err)
  }
  bs.log.Info("Uploaded object", "bucket", bucket, "key", key, "contentType", contentType)
  return nil
}

func (bs *bucketService) DeleteFile(ctx context.Context, bucket string, key string) error {
  err := bs.client.Bucket(bucket).Object(key).Delete(ctx)
  if errors.Is(err, storage.ErrObjectNotExist) {
    bs.log.Debug("Object already gone", "bucket", bucket, "key", key)
    return nil
  }
  if err != nil {
    bs.log.Warn("Failed to delete object", "bucket", bucket, "key", key, "error", err)
    return err
  }
  return nil
}

func (bs *bucketService) GetPublicURL(bucket string, key string) string {
  return fmt.Sprintf("%s/%s/%s", bs.publicBase, bucket, key)
}

// KeyFromURL returns the last path segment of a public object URL.
func KeyFromURL(publicURL string) string {
  u, err := url.Parse(publicURL)
  if err != nil || u.Path == "" {
    return ""
  }
  key := path.Base(u.Path)
  if key == "/" || key == "." {
    return ""
  }
  return key
}
