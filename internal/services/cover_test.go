package services

import (
  "bytes"
  "image"
  "image/png"
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/bidex-org/bidex-backend/internal/logger"
)

func TestCoverThumbnailIsSquare(t *testing.T) {
  cs, err := NewCoverService(logger.Nop())
  require.NoError(t, err)

  var src bytes.Buffer
  require.NoError(t, png.Encode(&src, image.NewRGBA(image.Rect(0, 0, 300, 120))))

  out, err := cs.Thumbnail(&src)
  require.NoError(t, err)
  cfg, format, err := image.DecodeConfig(out)
  require.NoError(t, err)
  assert.Equal(t, "png", format)
  assert.Equal(t, coverSize, cfg.Width)
  assert.Equal(t, coverSize, cfg.Height)
}

func TestCoverThumbnailRejectsGarbage(t *testing.T) {
  cs, err := NewCoverService(logger.Nop())
  require.NoError(t, err)
  _, err = cs.Thumbnail(bytes.NewReader([]byte("not an image")))
  assert.Error(t, err)
}

func TestCoverPlaceholder(t *testing.T) {
  cs, err := NewCoverService(logger.Nop())
  require.NoError(t, err)

  out, err := cs.Placeholder("Afro Vibes")
  require.NoError(t, err)
  cfg, format, err := image.DecodeConfig(out)
  require.NoError(t, err)
  assert.Equal(t, "png", format)
  assert.Equal(t, coverSize, cfg.Width)
}

func TestTitleInitials(t *testing.T) {
  assert.Equal(t, "AV", titleInitials("afro vibes vol 3"))
  assert.Equal(t, "S", titleInitials("  (street) "))
  assert.Equal(t, "?", titleInitials("!!!"))
  assert.Equal(t, "?", titleInitials(""))
}

func TestColorIndexStable(t *testing.T) {
  assert.Equal(t, colorIndex("Afro Vibes", 5), colorIndex("Afro Vibes", 5))
  assert.Less(t, colorIndex("anything", 5), 5)
}
