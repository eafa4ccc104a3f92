package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmynk/duosplit/internal/imageproc"
)

// DefaultRemoteURL is the OpenRouter chat-completions endpoint.
const DefaultRemoteURL = "https://openrouter.ai/api/v1/chat/completions"

const (
	transcribePrompt = "Transcribe all text in this receipt image exactly as printed, " +
		"one receipt line per output line. Output only the transcription."
	numericPrompt = "List every price printed in this receipt image, one per line, " +
		"with any label printed on the same line. Output only those lines."
)

// RemoteConfig configures the remote vision engine.
type RemoteConfig struct {
	APIKey     string
	Model      string
	URL        string
	MaxRetries int
	Timeout    time.Duration
}

// Remote asks an OpenAI-compatible vision model to transcribe the image.
// It returns text only; word geometry is never available.
type Remote struct {
	cfg    RemoteConfig
	client *http.Client
}

// NewRemote validates cfg and creates the engine. A missing key or model
// yields ErrUnavailable so callers can treat the fallback as unconfigured.
func NewRemote(cfg RemoteConfig) (*Remote, error) {
	if cfg.APIKey == "" || cfg.Model == "" {
		return nil, fmt.Errorf("%w: remote engine needs an API key and model", ErrUnavailable)
	}
	if cfg.URL == "" {
		cfg.URL = DefaultRemoteURL
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Remote{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}, nil
}

func (r *Remote) Name() string { return "remote" }

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// errPermanent marks responses that retrying cannot fix.
var errPermanent = errors.New("permanent")

// Recognize sends img to the model, retrying transient failures with
// exponential backoff.
func (r *Remote) Recognize(ctx context.Context, img image.Image, opts Options) (Result, error) {
	data, err := imageproc.EncodePNG(img)
	if err != nil {
		return Result{}, err
	}
	prompt := transcribePrompt
	if opts.CharacterWhitelist == NumericWhitelist {
		prompt = numericPrompt
	}
	body, err := json.Marshal(chatRequest{
		Model: r.cfg.Model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)}},
			},
		}},
	})
	if err != nil {
		return Result{}, fmt.Errorf("encode request: %w", err)
	}

	backoff := 500 * time.Millisecond
	var lastErr error
	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		text, err := r.post(ctx, body)
		if err == nil {
			return Result{Text: text}, nil
		}
		lastErr = err
		if errors.Is(err, errPermanent) || ctx.Err() != nil || attempt == r.cfg.MaxRetries {
			break
		}
		slog.Warn("Remote OCR attempt failed", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}
	return Result{}, fmt.Errorf("remote ocr: %w", lastErr)
}

func (r *Remote) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", errPermanent, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", fmt.Errorf("status %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return "", fmt.Errorf("%w: status %d: %s", errPermanent, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", errPermanent, err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("%w: %s", errPermanent, cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", errPermanent)
	}
	return strings.TrimSpace(stripFences(cr.Choices[0].Message.Content)), nil
}

// stripFences removes a surrounding markdown code block some models add.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}
