// Package kb reads knowledge-base documents stored in Redis hashes.
package kb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

// ErrNotConfigured is returned when no Redis client is attached.
var ErrNotConfigured = errors.New("knowledge base not configured")

const scanBatch = 100

// RedisSource lists documents stored as hashes under <prefix>doc:<id>,
// each with "content" and optional "title" fields.
type RedisSource struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisSource creates a document source. rdb may be nil.
func NewRedisSource(rdb redis.UniversalClient, prefix string) *RedisSource {
	return &RedisSource{rdb: rdb, prefix: prefix}
}

// Documents returns every stored document.
func (s *RedisSource) Documents(ctx context.Context) ([]domain.Document, error) {
	if s.rdb == nil {
		return nil, ErrNotConfigured
	}

	pattern := s.docKey("*")
	var (
		cursor uint64
		docs   []domain.Document
	)
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", pattern, err)
		}
		for _, key := range keys {
			fields, err := s.rdb.HGetAll(ctx, key).Result()
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", key, err)
			}
			if fields["content"] == "" {
				continue
			}
			docs = append(docs, domain.Document{
				ID:      strings.TrimPrefix(key, s.docKey("")),
				Title:   fields["title"],
				Content: fields["content"],
			})
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return docs, nil
}

// Put stores a document.
func (s *RedisSource) Put(ctx context.Context, doc domain.Document) error {
	if s.rdb == nil {
		return ErrNotConfigured
	}
	key := s.docKey(doc.ID)
	if err := s.rdb.HSet(ctx, key, "title", doc.Title, "content", doc.Content).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (s *RedisSource) docKey(id string) string {
	return s.prefix + "doc:" + id
}
