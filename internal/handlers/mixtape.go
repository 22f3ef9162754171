package handlers

import (
  "io"
  "mime/multipart"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/services"
)

const maxUploadBytes = 200 << 20

type MixtapeHandler struct {
  log               *logger.Logger
  mixtapeService    services.MixtapeService
}

func NewMixtapeHandler(log *logger.Logger, mixtapeService services.MixtapeService) *MixtapeHandler {
  return &MixtapeHandler{log: log.With("handler", "MixtapeHandler"), mixtapeService: mixtapeService}
}

func (mh *MixtapeHandler) List(c *gin.Context) {
  mixtapes, err := mh.mixtapeService.List(c.Request.Context())
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"mixtapes": mixtapes})
}

func (mh *MixtapeHandler) Upload(c *gin.Context) {
  c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
  audio, err := readFormFile(c, "audio")
  if err != nil {
    mh.log.Warn("Failed to read audio upload", "error", err)
    c.JSON(http.StatusBadRequest, gin.H{"error": "could not read audio file"})
    return
  }
  thumbnail, err := readFormFile(c, "thumbnail")
  if err != nil {
    mh.log.Warn("Failed to read thumbnail upload", "error", err)
    c.JSON(http.StatusBadRequest, gin.H{"error": "could not read thumbnail file"})
    return
  }
  m, err := mh.mixtapeService.Upload(c.Request.Context(), services.MixtapeUpload{
    Title:        c.PostForm("title"),
    Artist:       c.PostForm("artist"),
    Description:  c.PostForm("description"),
    Genre:        c.PostForm("genre"),
    ReleaseDate:  c.PostForm("release_date"),
    Audio:        audio,
    Thumbnail:    thumbnail,
  })
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusCreated, m)
}

func (mh *MixtapeHandler) Delete(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mixtape id"})
    return
  }
  if err := mh.mixtapeService.Delete(c.Request.Context(), id); err != nil {
    respondError(c, err)
    return
  }
  c.Status(http.StatusNoContent)
}

// readFormFile returns nil when the field is absent.
func readFormFile(c *gin.Context, field string) (*services.UploadFile, error) {
  fh, err := c.FormFile(field)
  if err == http.ErrMissingFile {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return readMultipart(fh)
}

func readMultipart(fh *multipart.FileHeader) (*services.UploadFile, error) {
  f, err := fh.Open()
  if err != nil {
    return nil, err
  }
  defer f.Close()
  data, err := io.ReadAll(f)
  if err != nil {
    return nil, err
  }
  return &services.UploadFile{Name: fh.Filename, Data: data}, nil
}
