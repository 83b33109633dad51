package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createUser(t *testing.T, store *SQLiteStore, id, email string) *domain.User {
	t.Helper()
	u := &domain.User{ID: id, Email: email, HashedPassword: "x", IsActive: true, CreatedAt: time.Now().UTC()}
	if err := store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return u
}

func TestSQLiteStoreUsers(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	createUser(t, store, "u1", "Alice@Example.com")

	got, err := store.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got == nil || got.ID != "u1" || !got.IsActive {
		t.Fatalf("unexpected user: %+v", got)
	}

	err = store.CreateUser(ctx, &domain.User{ID: "u2", Email: "Alice@Example.com", HashedPassword: "x", CreatedAt: time.Now()})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email, got %v", err)
	}

	got.FullName = "Alice"
	got.IsSuperuser = true
	if err := store.UpdateUser(ctx, got); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	again, _ := store.GetUser(ctx, "u1")
	if again.FullName != "Alice" || !again.IsSuperuser {
		t.Errorf("update not persisted: %+v", again)
	}

	missing, err := store.GetUser(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("expected (nil, nil) for a missing user, got %+v, %v", missing, err)
	}
	if err := store.DeleteUser(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting a missing user, got %v", err)
	}
}

func TestSQLiteStoreRegistryRecords(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	now := time.Now().UTC()

	for i, id := range []string{"gpt", "mock"} {
		m := &domain.ModelRecord{ID: id, Title: id, Function: id, Rank: 2 - i, Active: true, CreatedAt: now}
		if err := store.CreateModel(ctx, m); err != nil {
			t.Fatalf("CreateModel failed: %v", err)
		}
	}
	models, count, err := store.ListModels(ctx, domain.Page{})
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if count != 2 || models[0].ID != "mock" {
		t.Errorf("expected rank order with mock first, got %+v", models)
	}

	conn := &domain.ConnectorRecord{ID: "kb", Name: "Knowledge base", Function: "redis_kb", Active: true, CreatedAt: now}
	if err := store.CreateConnector(ctx, conn); err != nil {
		t.Fatalf("CreateConnector failed: %v", err)
	}
	conn.Active = false
	if err := store.UpdateConnector(ctx, conn); err != nil {
		t.Fatalf("UpdateConnector failed: %v", err)
	}
	gotConn, _ := store.GetConnector(ctx, "kb")
	if gotConn == nil || gotConn.Active || gotConn.Function != "redis_kb" {
		t.Errorf("unexpected connector: %+v", gotConn)
	}

	tmpl := &domain.PromptTemplate{
		ID: "t1", Title: "Support", Template: "Q: {query}", Model: "gpt", Connector: "kb",
		Active: true, CreatedAt: now, UpdatedAt: now,
	}
	if err := store.CreateTemplate(ctx, tmpl); err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}
	gotTmpl, _ := store.GetTemplate(ctx, "t1")
	if gotTmpl == nil || gotTmpl.OwnerID != "" || gotTmpl.Model != "gpt" || gotTmpl.Connector != "kb" {
		t.Errorf("unexpected template: %+v", gotTmpl)
	}

	if err := store.CreateModel(ctx, &domain.ModelRecord{ID: "gpt", Title: "dup", Function: "x", CreatedAt: now}); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate model id, got %v", err)
	}
	if err := store.DeleteModel(ctx, "gpt"); err != nil {
		t.Fatalf("DeleteModel failed: %v", err)
	}
	if m, _ := store.GetModel(ctx, "gpt"); m != nil {
		t.Error("model should be gone")
	}
}

func TestSQLiteStoreOwnerScopedPaging(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	createUser(t, store, "u1", "a@example.com")
	createUser(t, store, "u2", "b@example.com")

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		owner := "u1"
		if i%2 == 1 {
			owner = "u2"
		}
		org := &domain.Organization{ID: string(rune('a' + i)), Title: "org", OwnerID: owner, CreatedAt: base.Add(time.Duration(i) * time.Second)}
		if err := store.CreateOrganization(ctx, org); err != nil {
			t.Fatalf("CreateOrganization failed: %v", err)
		}
	}

	orgs, count, err := store.ListOrganizations(ctx, domain.Page{OwnerID: "u1", Skip: 1, Limit: 1})
	if err != nil {
		t.Fatalf("ListOrganizations failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 orgs owned by u1, got %d", count)
	}
	if len(orgs) != 1 || orgs[0].ID != "c" {
		t.Errorf("expected second page to hold org c, got %+v", orgs)
	}

	_, all, _ := store.ListOrganizations(ctx, domain.Page{})
	if all != 5 {
		t.Errorf("expected 5 orgs unscoped, got %d", all)
	}
}

func TestSQLiteStoreChatsAndMessages(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	createUser(t, store, "u1", "a@example.com")
	now := time.Now().UTC()

	chat := &domain.Chat{ID: "c1", Title: "hello", TemplateID: "t1", OwnerID: "u1", CreatedAt: now, UpdatedAt: now}
	if err := store.CreateChat(ctx, chat); err != nil {
		t.Fatalf("CreateChat failed: %v", err)
	}

	msgs := []domain.Message{
		{ID: "m1", ChatID: "c1", OwnerID: "u1", Role: domain.RoleUser, Content: "hi", CreatedAt: now.Add(time.Second)},
		{ID: "m2", ChatID: "c1", OwnerID: "u1", Role: domain.RoleAssistant, Content: "hello", CreatedAt: now.Add(time.Second)},
	}
	if err := store.CreateMessages(ctx, msgs); err != nil {
		t.Fatalf("CreateMessages failed: %v", err)
	}

	history, err := store.ListChatMessages(ctx, "c1")
	if err != nil {
		t.Fatalf("ListChatMessages failed: %v", err)
	}
	if len(history) != 2 || history[0].ID != "m1" || history[1].Role != domain.RoleAssistant {
		t.Fatalf("unexpected history: %+v", history)
	}

	gotChat, _ := store.GetChat(ctx, "c1")
	if !gotChat.UpdatedAt.After(now) {
		t.Errorf("chat updated_at should advance with new messages")
	}

	err = store.CreateMessage(ctx, &domain.Message{ID: "m3", ChatID: "nochat", OwnerID: "u1", Role: domain.RoleUser, Content: "x", CreatedAt: now})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for a message on a missing chat, got %v", err)
	}

	if err := store.DeleteChat(ctx, "c1"); err != nil {
		t.Fatalf("DeleteChat failed: %v", err)
	}
	if m, _ := store.GetMessage(ctx, "m1"); m != nil {
		t.Error("messages should be deleted with their chat")
	}
}
