package services

import (
  "bytes"
  "context"
  "encoding/base64"
  "encoding/json"
  "errors"
  "fmt"
  "io"
  "net/http"
  "net/url"
  "regexp"
  "strings"

  "github.com/gabriel-vasile/mimetype"

  "github.com/bidex-org/bidex-backend/internal/config"
  "github.com/bidex-org/bidex-backend/internal/logger"
)

// ErrEmptyCompletion is returned when the model answered without any text.
var ErrEmptyCompletion = errors.New("empty completion")

type CompletionService interface {
  // Complete sends a single prompt and an optional image data URL and
  // returns the generated text.
  Complete(ctx context.Context, prompt string, imageDataURL string) (string, error)
}

type geminiService struct {
  log           *logger.Logger
  client        *http.Client
  baseURL       string
  model         string
  apiKey        string
}

type geminiInlineData struct {
  MimeType      string        `json:"mimeType"`
  Data          string        `json:"data"`
}

type geminiPart struct {
  Text          string              `json:"text,omitempty"`
  InlineData    *geminiInlineData   `json:"inlineData,omitempty"`
}

type geminiContent struct {
  Parts         []geminiPart  `json:"parts"`
}

type geminiGenerationConfig struct {
  Temperature       float64   `json:"temperature"`
  MaxOutputTokens   int       `json:"maxOutputTokens"`
}

type geminiRequest struct {
  Contents          []geminiContent         `json:"contents"`
  GenerationConfig  geminiGenerationConfig  `json:"generationConfig"`
}

type geminiResponse struct {
  Candidates []struct {
    Content geminiContent `json:"content"`
  } `json:"candidates"`
}

func NewGeminiService(cfg config.GeminiConfig, log *logger.Logger) CompletionService {
  serviceLog := log.With("service", "GeminiService")
  if cfg.APIKey == "" {
    serviceLog.Warn("GEMINI_API_KEY not set; completions will fail and fall back")
  }
  return &geminiService{
    log:      serviceLog,
    client:   &http.Client{Timeout: cfg.Timeout},
    baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
    model:    cfg.Model,
    apiKey:   cfg.APIKey,
  }
}

func (gs *geminiService) Complete(ctx context.Context, prompt string, imageDataURL string) (string, error) {
  parts := []geminiPart{{Text: prompt}}
  if imageDataURL != "" {
    inline, err := parseImageDataURL(imageDataURL)
    if err != nil {
      gs.log.Warn("Dropping unreadable image attachment", "error", err)
    } else {
      parts = append(parts, geminiPart{InlineData: inline})
    }
  }
  body, err := json.Marshal(geminiRequest{
    Contents:         []geminiContent{{Parts: parts}},
    GenerationConfig: geminiGenerationConfig{Temperature: 0.7, MaxOutputTokens: 1000},
  })
  if err != nil {
    return "", err
  }

  reqURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", gs.baseURL, gs.model, url.QueryEscape(gs.apiKey))
  req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
  if err != nil {
    gs.log.Warn("failed to build new request", "error", err)
    return "", err
  }
  req.Header.Set("Content-Type", "application/json")

  resp, err := gs.client.Do(req)
  if err != nil {
    gs.log.Warn("failed to call gemini", "error", err)
    return "", err
  }
  defer resp.Body.Close()

  respBytes, err := io.ReadAll(resp.Body)
  if err != nil {
    gs.log.Warn("failed to read gemini response body", "error", err)
    return "", err
  }
  if resp.StatusCode != http.StatusOK {
    gs.log.Warn("gemini responded with non-200", "statusCode", resp.StatusCode, "body", string(respBytes))
    return "", fmt.Errorf("gemini HTTP %d: %s", resp.StatusCode, string(respBytes))
  }

  var out geminiResponse
  if err := json.Unmarshal(respBytes, &out); err != nil {
    gs.log.Warn("failed to decode gemini response", "error", err)
    return "", err
  }
  if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 || out.Candidates[0].Content.Parts[0].Text == "" {
    return "", ErrEmptyCompletion
  }
  gs.log.Debug("Gemini call success", "model", gs.model)
  return out.Candidates[0].Content.Parts[0].Text, nil
}

var dataURLMimePattern = regexp.MustCompile(`^data:([^;,]+)[;,]`)

// parseImageDataURL splits a data URL into its payload and MIME type. The
// decoded bytes are sniffed and a detected image type overrides whatever the
// URL declares. The declared type is kept when sniffing finds no image, and
// image/jpeg is assumed when neither is known.
func parseImageDataURL(dataURL string) (*geminiInlineData, error) {
  idx := strings.Index(dataURL, ",")
  if idx < 0 || idx == len(dataURL)-1 {
    return nil, fmt.Errorf("malformed data URL")
  }
  payload := dataURL[idx+1:]
  mime := ""
  if m := dataURLMimePattern.FindStringSubmatch(dataURL); m != nil {
    mime = m[1]
  }
  if raw, err := base64.StdEncoding.DecodeString(payload); err == nil {
    if detected := mimetype.Detect(raw); strings.HasPrefix(detected.String(), "image/") {
      mime = detected.String()
    }
  }
  if mime == "" {
    mime = "image/jpeg"
  }
  return &geminiInlineData{MimeType: mime, Data: payload}, nil
}
