// Package helpers holds fixtures shared by package tests.
package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/repository"
)

// NewTestSQLiteStore opens a migrated in-memory store closed at test cleanup.
func NewTestSQLiteStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()

	s, err := repository.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// SeedRegistry stores an active model and connector whose ids equal their
// handler names, plus an active template using them.
func SeedRegistry(t *testing.T, s repository.Store, templateID, modelFn, connectorFn string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	if m, _ := s.GetModel(ctx, modelFn); m == nil {
		if err := s.CreateModel(ctx, &domain.ModelRecord{ID: modelFn, Title: modelFn, Function: modelFn, Active: true, CreatedAt: now}); err != nil {
			t.Fatalf("failed to create model: %v", err)
		}
	}
	if c, _ := s.GetConnector(ctx, connectorFn); c == nil {
		if err := s.CreateConnector(ctx, &domain.ConnectorRecord{ID: connectorFn, Name: connectorFn, Function: connectorFn, Active: true, CreatedAt: now}); err != nil {
			t.Fatalf("failed to create connector: %v", err)
		}
	}
	err := s.CreateTemplate(ctx, &domain.PromptTemplate{
		ID:        templateID,
		Title:     templateID,
		Template:  "{query}",
		Model:     modelFn,
		Connector: connectorFn,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("failed to create template: %v", err)
	}
}
