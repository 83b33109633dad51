package kb

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

func TestNilClientNotConfigured(t *testing.T) {
	s := NewRedisSource(nil, "test:")

	if _, err := s.Documents(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if err := s.Put(context.Background(), domain.Document{ID: "d1", Content: "x"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestDocKey(t *testing.T) {
	s := NewRedisSource(nil, "genalima:kb:")
	if got := s.docKey("d1"); got != "genalima:kb:doc:d1" {
		t.Fatalf("unexpected key %q", got)
	}
}

// TestRedisRoundTrip runs against a live server when REDIS_ADDR is set.
func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	prefix := "genalima-test:" + uuid.NewString() + ":"
	s := NewRedisSource(rdb, prefix)
	t.Cleanup(func() {
		keys, _ := rdb.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			rdb.Del(ctx, keys...)
		}
	})

	if err := s.Put(ctx, domain.Document{ID: "d1", Title: "Refunds", Content: "within 14 days"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := rdb.HSet(ctx, prefix+"doc:empty", "title", "no content").Err(); err != nil {
		t.Fatal(err)
	}

	docs, err := s.Documents(ctx)
	if err != nil {
		t.Fatalf("Documents failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].ID != "d1" || docs[0].Title != "Refunds" {
		t.Fatalf("unexpected document %+v", docs[0])
	}
}
