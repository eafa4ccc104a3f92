package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/duosplit/internal/models"
	"github.com/mmynk/duosplit/internal/ocr"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "nested", "cache.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("Get misses unknown key", func(t *testing.T) {
		_, ok, err := store.Get(ctx, "missing")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if ok {
			t.Error("Expected miss")
		}
	})

	t.Run("Put then Get round-trips words", func(t *testing.T) {
		res := ocr.Result{
			Text: "Burger $8.99\nTotal $8.99",
			Words: []models.Word{
				{Text: "$8.99", Box: models.Region{X: 10, Y: 20, Width: 40, Height: 12}, Confidence: 0.91},
			},
		}
		if err := store.Put(ctx, "k1", "tesseract", res); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		got, ok, err := store.Get(ctx, "k1")
		if err != nil || !ok {
			t.Fatalf("Get failed: ok=%v err=%v", ok, err)
		}
		if got.Text != res.Text {
			t.Errorf("Expected text %q, got %q", res.Text, got.Text)
		}
		if len(got.Words) != 1 || got.Words[0] != res.Words[0] {
			t.Errorf("Expected words %+v, got %+v", res.Words, got.Words)
		}
	})

	t.Run("Put replaces existing entry", func(t *testing.T) {
		if err := store.Put(ctx, "k2", "remote", ocr.Result{Text: "old"}); err != nil {
			t.Fatal(err)
		}
		if err := store.Put(ctx, "k2", "remote", ocr.Result{Text: "new"}); err != nil {
			t.Fatal(err)
		}
		got, _, err := store.Get(ctx, "k2")
		if err != nil {
			t.Fatal(err)
		}
		if got.Text != "new" {
			t.Errorf("Expected replaced text, got %q", got.Text)
		}
		if len(got.Words) != 0 {
			t.Errorf("Expected no words, got %d", len(got.Words))
		}
	})
}

func TestPrune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }
	if err := store.Put(ctx, "old", "tesseract", ocr.Result{Text: "a"}); err != nil {
		t.Fatal(err)
	}
	store.now = func() time.Time { return base.Add(48 * time.Hour) }
	if err := store.Put(ctx, "fresh", "tesseract", ocr.Result{Text: "b"}); err != nil {
		t.Fatal(err)
	}

	n, err := store.Prune(ctx, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 pruned entry, got %d", n)
	}
	if _, ok, _ := store.Get(ctx, "old"); ok {
		t.Error("Expected old entry pruned")
	}
	if _, ok, _ := store.Get(ctx, "fresh"); !ok {
		t.Error("Expected fresh entry kept")
	}
}

func TestCachedRecognizerUsesStore(t *testing.T) {
	store := newTestStore(t)
	rec := ocr.NewCached(staticRecognizer{text: "Fries $3.50"}, store)

	img := testGray()
	first, err := rec.Recognize(context.Background(), img, ocr.Options{})
	if err != nil {
		t.Fatal(err)
	}
	key, err := ocr.CacheKey("static", img, ocr.Options{})
	if err != nil {
		t.Fatal(err)
	}
	cached, ok, err := store.Get(context.Background(), key)
	if err != nil || !ok {
		t.Fatalf("Expected cached entry, ok=%v err=%v", ok, err)
	}
	if cached.Text != first.Text {
		t.Errorf("Expected %q cached, got %q", first.Text, cached.Text)
	}
}
