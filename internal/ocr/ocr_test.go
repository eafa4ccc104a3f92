package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mmynk/duosplit/internal/models"
)

func testImage() image.Image {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	img.SetGray(3, 3, color.Gray{Y: 200})
	return img
}

func TestOffsetWords(t *testing.T) {
	words := []models.Word{{Text: "8.99", Box: models.Region{X: 1, Y: 2, Width: 10, Height: 5}}}
	got := OffsetWords(words, 100, 50)
	if got[0].Box.X != 101 || got[0].Box.Y != 52 || got[0].Box.Width != 10 {
		t.Errorf("unexpected box %+v", got[0].Box)
	}
	if words[0].Box.X != 1 {
		t.Error("expected input words untouched")
	}
	if OffsetWords(nil, 1, 1) != nil {
		t.Error("expected nil for nil input")
	}
}

func TestOptionsKey(t *testing.T) {
	base := Options{Languages: []string{"eng"}}
	if base.Key() == base.Numeric().Key() {
		t.Error("expected whitelist to change the key")
	}
	if base.Numeric().CharacterWhitelist != NumericWhitelist {
		t.Error("expected numeric whitelist")
	}
	if base.CharacterWhitelist != "" {
		t.Error("expected Numeric to copy")
	}
}

func TestCacheKey(t *testing.T) {
	a, err := CacheKey("tesseract", testImage(), Options{})
	if err != nil {
		t.Fatalf("CacheKey failed: %v", err)
	}
	b, _ := CacheKey("tesseract", testImage(), Options{})
	c, _ := CacheKey("remote", testImage(), Options{})
	if a != b {
		t.Error("expected stable key")
	}
	if a == c {
		t.Error("expected engine to change key")
	}
}

type countingRecognizer struct {
	calls atomic.Int32
	res   Result
	err   error
}

func (r *countingRecognizer) Name() string { return "fake" }

func (r *countingRecognizer) Recognize(ctx context.Context, img image.Image, opts Options) (Result, error) {
	r.calls.Add(1)
	return r.res, r.err
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]Result
}

func (m *memCache) Get(ctx context.Context, key string) (Result, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.entries[key]
	return res, ok, nil
}

func (m *memCache) Put(ctx context.Context, key, engine string, res Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = res
	return nil
}

func TestCached(t *testing.T) {
	inner := &countingRecognizer{res: Result{Text: "Burger $8.99"}}
	rec := NewCached(inner, &memCache{entries: map[string]Result{}})

	for i := 0; i < 3; i++ {
		res, err := rec.Recognize(context.Background(), testImage(), Options{})
		if err != nil {
			t.Fatalf("Recognize failed: %v", err)
		}
		if res.Text != "Burger $8.99" {
			t.Errorf("unexpected text %q", res.Text)
		}
	}
	if n := inner.calls.Load(); n != 1 {
		t.Errorf("expected one engine call, got %d", n)
	}

	if _, err := rec.Recognize(context.Background(), testImage(), Options{}.Numeric()); err != nil {
		t.Fatal(err)
	}
	if n := inner.calls.Load(); n != 2 {
		t.Errorf("expected numeric pass to miss cache, got %d calls", n)
	}

	if NewCached(inner, nil) != Recognizer(inner) {
		t.Error("expected nil cache to return inner recognizer")
	}
}

func TestCachedDoesNotStoreFailures(t *testing.T) {
	inner := &countingRecognizer{err: errors.New("boom")}
	cache := &memCache{entries: map[string]Result{}}
	rec := NewCached(inner, cache)
	if _, err := rec.Recognize(context.Background(), testImage(), Options{}); err == nil {
		t.Fatal("expected error")
	}
	if len(cache.entries) != 0 {
		t.Error("expected failure not cached")
	}
}

func TestNewRemoteRequiresConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  RemoteConfig
	}{
		{"no key", RemoteConfig{Model: "m"}},
		{"no model", RemoteConfig{APIKey: "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRemote(tt.cfg); !errors.Is(err, ErrUnavailable) {
				t.Errorf("expected ErrUnavailable, got %v", err)
			}
		})
	}
}

func TestRemoteRecognize(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "vision-model" || len(req.Messages) != 1 || len(req.Messages[0].Content) != 2 {
			t.Errorf("unexpected request %+v", req)
		}
		if !strings.HasPrefix(req.Messages[0].Content[1].ImageURL.URL, "data:image/png;base64,") {
			t.Error("expected inline png")
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"` + "```\\nBurger $8.99\\nTotal $8.99\\n```" + `"}}]}`))
	}))
	defer srv.Close()

	r, err := NewRemote(RemoteConfig{APIKey: "secret", Model: "vision-model", URL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	res, err := r.Recognize(context.Background(), testImage(), Options{})
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if res.Text != "Burger $8.99\nTotal $8.99" {
		t.Errorf("unexpected text %q", res.Text)
	}
	if res.Words != nil {
		t.Error("expected no words from remote engine")
	}
	if calls.Load() != 2 {
		t.Errorf("expected one retry, got %d calls", calls.Load())
	}
}

func TestRemoteClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	r, _ := NewRemote(RemoteConfig{APIKey: "k", Model: "m", URL: srv.URL})
	if _, err := r.Recognize(context.Background(), testImage(), Options{}); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt, got %d", calls.Load())
	}
}

func TestRemoteHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	r, _ := NewRemote(RemoteConfig{APIKey: "k", Model: "m", URL: srv.URL})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Recognize(ctx, testImage(), Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"```\nA 1.00\n```", "A 1.00"},
		{"```text\nA 1.00\nB 2.00\n```", "A 1.00\nB 2.00"},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
