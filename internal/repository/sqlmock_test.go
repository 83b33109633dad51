package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db), mock
}

func TestGetTemplateQueryError(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("disk I/O error")
	mock.ExpectQuery(`SELECT .* FROM templates WHERE id = \?`).WithArgs("t1").WillReturnError(boom)

	tmpl, err := store.GetTemplate(context.Background(), "t1")
	if !errors.Is(err, boom) || tmpl != nil {
		t.Fatalf("expected the driver error, got %+v, %v", tmpl, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpdateModelNoRows(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`UPDATE models SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateModel(context.Background(), &domain.ModelRecord{ID: "gone"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateMessagesRollsBackOnError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO messages`)
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err := store.CreateMessages(context.Background(), []domain.Message{
		{ID: "m1", ChatID: "c1"},
		{ID: "m2", ChatID: "c1"},
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListChatsCountError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM chats WHERE owner_id = \?`).
		WithArgs("u1").
		WillReturnError(errors.New("locked"))

	if _, _, err := store.ListChats(context.Background(), domain.Page{OwnerID: "u1"}); err == nil {
		t.Fatal("expected count error to surface")
	}
}
