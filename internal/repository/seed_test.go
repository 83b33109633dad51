package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

const seedYAML = `
superuser:
  email: admin@example.com
  password: secret
models:
  - id: mock
    title: Mock
    function: mock
    rank: 1
connectors:
  - id: none
    name: No context
    function: none
templates:
  - id: default
    title: Default
    template: "{query}"
    model: mock
    connector: none
  - id: draft
    title: Draft
    model: mock
    connector: none
    active: false
`

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(seedYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	data, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFile failed: %v", err)
	}

	hash := func(p string) (string, error) { return "hashed:" + p, nil }
	for i := 0; i < 2; i++ {
		if err := Seed(ctx, store, data, hash, zerolog.Nop()); err != nil {
			t.Fatalf("Seed run %d failed: %v", i, err)
		}
	}

	_, users, _ := store.ListUsers(ctx, domain.Page{})
	if users != 1 {
		t.Errorf("expected one seeded user, got %d", users)
	}
	admin, _ := store.GetUserByEmail(ctx, "admin@example.com")
	if admin == nil || !admin.IsSuperuser || admin.HashedPassword != "hashed:secret" {
		t.Errorf("unexpected superuser: %+v", admin)
	}

	draft, _ := store.GetTemplate(ctx, "draft")
	if draft == nil || draft.Active {
		t.Errorf("draft template should be seeded inactive: %+v", draft)
	}
	def, _ := store.GetTemplate(ctx, "default")
	if def == nil || !def.Active || def.Model != "mock" {
		t.Errorf("unexpected default template: %+v", def)
	}
}

func TestLoadSeedFileMissing(t *testing.T) {
	data, err := LoadSeedFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing seed file should not fail: %v", err)
	}
	if data.Superuser != nil || len(data.Models) != 0 {
		t.Errorf("expected empty seed data, got %+v", data)
	}
}
