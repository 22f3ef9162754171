package services

import (
  "bytes"
  "fmt"
  "image/color"
  "io"
  "strings"
  "unicode"

  "github.com/disintegration/imaging"
  "github.com/fogleman/gg"
  "github.com/golang/freetype/truetype"
  "golang.org/x/image/font"
  "golang.org/x/image/font/gofont/goregular"

  "github.com/bidex-org/bidex-backend/internal/logger"
)

const coverSize = 512

// CoverService prepares mixtape thumbnails: uploaded artwork is cropped to a
// square PNG, and titles without artwork get a generated placeholder.
type CoverService interface {
  Thumbnail(r io.Reader) (*bytes.Buffer, error)
  Placeholder(title string) (*bytes.Buffer, error)
}

type coverService struct {
  log         *logger.Logger
  fontFace    font.Face
  bgColors    []color.NRGBA
}

func NewCoverService(log *logger.Logger) (CoverService, error) {
  serviceLog := log.With("service", "CoverService")
  face, err := loadFontFace(goregular.TTF, 180)
  if err != nil {
    return nil, fmt.Errorf("could not load cover font: %w", err)
  }
  return &coverService{
    log:      serviceLog,
    fontFace: face,
    bgColors: []color.NRGBA{
      {R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff},
      {R: 0x6a, G: 0x1b, B: 0x9a, A: 0xff},
      {R: 0xc6, G: 0x28, B: 0x28, A: 0xff},
      {R: 0x00, G: 0x69, B: 0x5c, A: 0xff},
      {R: 0xef, G: 0x6c, B: 0x00, A: 0xff},
    },
  }, nil
}

func (cs *coverService) Thumbnail(r io.Reader) (*bytes.Buffer, error) {
  img, err := imaging.Decode(r, imaging.AutoOrientation(true))
  if err != nil {
    return nil, fmt.Errorf("failed to decode thumbnail: %w", err)
  }
  img = imaging.Fill(img, coverSize, coverSize, imaging.Center, imaging.Lanczos)
  var buf bytes.Buffer
  if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
    return nil, fmt.Errorf("failed to encode thumbnail PNG: %w", err)
  }
  return &buf, nil
}

func (cs *coverService) Placeholder(title string) (*bytes.Buffer, error) {
  dc := gg.NewContext(coverSize, coverSize)

  dc.SetColor(cs.bgColors[colorIndex(title, len(cs.bgColors))])
  dc.DrawRectangle(0, 0, coverSize, coverSize)
  dc.Fill()

  initials := titleInitials(title)
  dc.SetFontFace(cs.fontFace)
  dc.SetColor(color.White)
  dc.DrawStringAnchored(initials, coverSize/2, coverSize/2, 0.5, 0.35)

  var buf bytes.Buffer
  if err := dc.EncodePNG(&buf); err != nil {
    return nil, fmt.Errorf("failed to encode PNG: %w", err)
  }
  cs.log.Debug("Generated placeholder cover", "title", title, "initials", initials)
  return &buf, nil
}

//----------------------------------------------------------------------------------------
// Helpers
//----------------------------------------------------------------------------------------
func titleInitials(title string) string {
  var out []rune
  for _, word := range strings.Fields(title) {
    for _, r := range word {
      if unicode.IsLetter(r) || unicode.IsDigit(r) {
        out = append(out, unicode.ToUpper(r))
        break
      }
    }
    if len(out) == 2 {
      break
    }
  }
  if len(out) == 0 {
    return "?"
  }
  return string(out)
}

// colorIndex picks a stable background per title.
func colorIndex(title string, n int) int {
  sum := 0
  for _, r := range title {
    sum += int(r)
  }
  return sum % n
}

func loadFontFace(fontBytes []byte, size float64) (font.Face, error) {
  parsedFont, err := truetype.Parse(fontBytes)
  if err != nil {
    return nil, fmt.Errorf("failed to parse TTF: %w", err)
  }
  face := truetype.NewFace(parsedFont, &truetype.Options{
    Size:     size,
    DPI:      72,
    Hinting:  font.HintingNone,
  })
  return face, nil
}
