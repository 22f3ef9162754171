package services

import (
  "bytes"
  "context"
  "crypto/rand"
  "encoding/hex"
  "fmt"
  "io"
  "path/filepath"
  "strings"
  "time"

  "github.com/gabriel-vasile/mimetype"
  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/repos"
  "github.com/bidex-org/bidex-backend/internal/types"
)

type UploadFile struct {
  Name      string
  Data      []byte
}

type MixtapeUpload struct {
  Title         string
  Artist        string
  Description   string
  Genre         string
  ReleaseDate   string
  Audio         *UploadFile
  Thumbnail     *UploadFile
}

type MixtapeService interface {
  List(ctx context.Context) ([]*types.Mixtape, error)
  Upload(ctx context.Context, in MixtapeUpload) (*types.Mixtape, error)
  Delete(ctx context.Context, id uuid.UUID) error
}

type MixtapeServiceConfig struct {
  AudioBucket       string
  ThumbnailBucket   string
}

type mixtapeService struct {
  log             *logger.Logger
  mixtapeRepo     repos.MixtapeRepo
  bucketService   BucketService
  coverService    CoverService
  cfg             MixtapeServiceConfig
  now             func() time.Time
}

func NewMixtapeService(log *logger.Logger, mixtapeRepo repos.MixtapeRepo, bucketService BucketService, coverService CoverService, cfg MixtapeServiceConfig) MixtapeService {
  return &mixtapeService{
    log:            log.With("service", "MixtapeService"),
    mixtapeRepo:    mixtapeRepo,
    bucketService:  bucketService,
    coverService:   coverService,
    cfg:            cfg,
    now:            time.Now,
  }
}

func (ms *mixtapeService) List(ctx context.Context) ([]*types.Mixtape, error) {
  return ms.mixtapeRepo.GetAll(ctx, nil)
}

func (ms *mixtapeService) Upload(ctx context.Context, in MixtapeUpload) (*types.Mixtape, error) {
  //1) Validate
  title := strings.TrimSpace(in.Title)
  if title == "" {
    return nil, fmt.Errorf("%w: title is required", ErrValidation)
  }
  if in.Audio == nil || len(in.Audio.Data) == 0 {
    return nil, fmt.Errorf("%w: an audio file is required", ErrValidation)
  }
  audioMime := mimetype.Detect(in.Audio.Data)
  if !strings.HasPrefix(audioMime.String(), "audio/") {
    return nil, fmt.Errorf("%w: audio file has unsupported type %s", ErrValidation, audioMime.String())
  }
  var thumbMime *mimetype.MIME
  if in.Thumbnail != nil && len(in.Thumbnail.Data) > 0 {
    thumbMime = mimetype.Detect(in.Thumbnail.Data)
    if !strings.HasPrefix(thumbMime.String(), "image/") {
      return nil, fmt.Errorf("%w: thumbnail has unsupported type %s", ErrValidation, thumbMime.String())
    }
  }
  releaseDate := ms.now()
  if rd := strings.TrimSpace(in.ReleaseDate); rd != "" {
    parsed, err := time.Parse(time.DateOnly, rd)
    if err != nil {
      return nil, fmt.Errorf("%w: releaseDate must be YYYY-MM-DD", ErrValidation)
    }
    releaseDate = parsed
  }
  artist := strings.TrimSpace(in.Artist)
  if artist == "" {
    artist = types.DefaultArtist
  }

  //2) Audio
  audioKey := ms.objectKey(in.Audio.Name, audioMime)
  if err := ms.bucketService.UploadFile(ctx, ms.cfg.AudioBucket, audioKey, audioMime.String(), bytes.NewReader(in.Audio.Data)); err != nil {
    return nil, fmt.Errorf("failed to upload audio: %w", err)
  }

  //3) Thumbnail
  thumbKey, err := ms.uploadThumbnail(ctx, title, in.Thumbnail, thumbMime)
  if err != nil {
    ms.removeAsset(ctx, ms.cfg.AudioBucket, audioKey)
    return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
  }

  //4) Insert
  m := &types.Mixtape{
    Title:              title,
    Artist:             artist,
    Description:        strings.TrimSpace(in.Description),
    Genre:              strings.TrimSpace(in.Genre),
    ReleaseDate:        datatypes.Date(releaseDate),
    AudioURL:           ms.bucketService.GetPublicURL(ms.cfg.AudioBucket, audioKey),
    AudioBucketKey:     audioKey,
    ThumbnailURL:       ms.bucketService.GetPublicURL(ms.cfg.ThumbnailBucket, thumbKey),
    ThumbnailBucketKey: thumbKey,
    CreatedAt:          ms.now(),
  }
  created, err := ms.mixtapeRepo.Create(ctx, nil, []*types.Mixtape{m})
  if err != nil {
    ms.removeAsset(ctx, ms.cfg.AudioBucket, audioKey)
    ms.removeAsset(ctx, ms.cfg.ThumbnailBucket, thumbKey)
    return nil, fmt.Errorf("failed to save mixtape: %w", err)
  }
  ms.log.Info("Uploaded mixtape", "id", created[0].ID, "title", title)
  return created[0], nil
}

// uploadThumbnail stores the supplied artwork as a square PNG, or a generated
// placeholder when none was given. Artwork the resizer cannot decode is
// stored as-is.
func (ms *mixtapeService) uploadThumbnail(ctx context.Context, title string, thumb *UploadFile, thumbMime *mimetype.MIME) (string, error) {
  var (
    body        io.Reader
    contentType = "image/png"
    key         = ms.objectKey("", nil) + ".png"
  )
  if thumbMime == nil {
    buf, err := ms.coverService.Placeholder(title)
    if err != nil {
      return "", err
    }
    body = buf
  } else if buf, err := ms.coverService.Thumbnail(bytes.NewReader(thumb.Data)); err == nil {
    body = buf
  } else {
    ms.log.Warn("Could not resize thumbnail; storing original", "error", err)
    body = bytes.NewReader(thumb.Data)
    contentType = thumbMime.String()
    key = ms.objectKey(thumb.Name, thumbMime)
  }
  if err := ms.bucketService.UploadFile(ctx, ms.cfg.ThumbnailBucket, key, contentType, body); err != nil {
    return "", err
  }
  return key, nil
}

func (ms *mixtapeService) Delete(ctx context.Context, id uuid.UUID) error {
  found, err := ms.mixtapeRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    return fmt.Errorf("failed to load mixtape: %w", err)
  }
  if len(found) == 0 {
    return fmt.Errorf("mixtape %s: %w", id, ErrNotFound)
  }
  m := found[0]
  ms.removeAsset(ctx, ms.cfg.AudioBucket, assetKey(m.AudioBucketKey, m.AudioURL))
  ms.removeAsset(ctx, ms.cfg.ThumbnailBucket, assetKey(m.ThumbnailBucketKey, m.ThumbnailURL))
  if err := ms.mixtapeRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{id}); err != nil {
    return fmt.Errorf("failed to delete mixtape: %w", err)
  }
  ms.log.Info("Deleted mixtape", "id", id, "title", m.Title)
  return nil
}

// removeAsset deletes an object and only logs failures.
func (ms *mixtapeService) removeAsset(ctx context.Context, bucket, key string) {
  if key == "" {
    return
  }
  if err := ms.bucketService.DeleteFile(ctx, bucket, key); err != nil {
    ms.log.Warn("Failed to remove asset", "bucket", bucket, "key", key, "error", err)
  }
}

func assetKey(stored, publicURL string) string {
  if stored != "" {
    return stored
  }
  return KeyFromURL(publicURL)
}

// objectKey builds "<unix-millis>-<random>.<ext>". The extension comes from
// the original file name, then the detected type.
func (ms *mixtapeService) objectKey(fileName string, mime *mimetype.MIME) string {
  var rnd [6]byte
  _, _ = rand.Read(rnd[:])
  key := fmt.Sprintf("%d-%s", ms.now().UnixMilli(), hex.EncodeToString(rnd[:]))
  ext := strings.ToLower(filepath.Ext(fileName))
  if ext == "" && mime != nil {
    ext = mime.Extension()
  }
  return key + ext
}
