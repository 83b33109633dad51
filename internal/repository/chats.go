package repository

import (
	"context"
	"fmt"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

const (
	chatColumns    = `id, title, template_id, owner_id, created_at, updated_at`
	messageColumns = `id, chat_id, owner_id, role, content, created_at`
)

func scanChat(row scanner) (domain.Chat, error) {
	var c domain.Chat
	err := row.Scan(&c.ID, &c.Title, &c.TemplateID, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanMessage(row scanner) (domain.Message, error) {
	var m domain.Message
	err := row.Scan(&m.ID, &m.ChatID, &m.OwnerID, &m.Role, &m.Content, &m.CreatedAt)
	return m, err
}

// CreateChat inserts a chat.
func (s *SQLiteStore) CreateChat(ctx context.Context, chat *domain.Chat) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chats (`+chatColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		chat.ID, chat.Title, chat.TemplateID, chat.OwnerID, chat.CreatedAt, chat.UpdatedAt)
	return mapWriteError(err)
}

// GetChat retrieves a chat by ID.
func (s *SQLiteStore) GetChat(ctx context.Context, id string) (*domain.Chat, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+chatColumns+` FROM chats WHERE id = ?`, id)
	return getOne(row, scanChat)
}

// ListChats pages through chats, newest first.
func (s *SQLiteStore) ListChats(ctx context.Context, page domain.Page) ([]domain.Chat, int, error) {
	return list(ctx, s.db, "chats", chatColumns, "updated_at DESC, id ASC", page, scanChat)
}

// UpdateChat overwrites the chat title and template and bumps updated_at.
func (s *SQLiteStore) UpdateChat(ctx context.Context, chat *domain.Chat) error {
	return s.execAffecting(ctx,
		`UPDATE chats SET title = ?, template_id = ?, updated_at = ? WHERE id = ?`,
		chat.Title, chat.TemplateID, chat.UpdatedAt, chat.ID)
}

// DeleteChat removes a chat and its messages.
func (s *SQLiteStore) DeleteChat(ctx context.Context, id string) error {
	return s.execAffecting(ctx, `DELETE FROM chats WHERE id = ?`, id)
}

// CreateMessage inserts a message.
func (s *SQLiteStore) CreateMessage(ctx context.Context, msg *domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (`+messageColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ChatID, msg.OwnerID, msg.Role, msg.Content, msg.CreatedAt)
	return mapWriteError(err)
}

// CreateMessages inserts msgs in one transaction and touches their chats' updated_at.
func (s *SQLiteStore) CreateMessages(ctx context.Context, msgs []domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO messages (`+messageColumns+`) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	touched := make(map[string]struct{})
	for _, m := range msgs {
		if _, err := stmt.ExecContext(ctx, m.ID, m.ChatID, m.OwnerID, m.Role, m.Content, m.CreatedAt); err != nil {
			return mapWriteError(err)
		}
		touched[m.ChatID] = struct{}{}
	}
	last := msgs[len(msgs)-1].CreatedAt
	for chatID := range touched {
		if _, err := tx.ExecContext(ctx, `UPDATE chats SET updated_at = ? WHERE id = ?`, last, chatID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetMessage retrieves a message by ID.
func (s *SQLiteStore) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id)
	return getOne(row, scanMessage)
}

// ListMessages pages through messages in creation order.
func (s *SQLiteStore) ListMessages(ctx context.Context, page domain.Page) ([]domain.Message, int, error) {
	return list(ctx, s.db, "messages", messageColumns, "created_at ASC, rowid ASC", page, scanMessage)
}

// ListChatMessages returns every message of a chat in conversation order.
func (s *SQLiteStore) ListChatMessages(ctx context.Context, chatID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE chat_id = ? ORDER BY created_at ASC, rowid ASC`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]domain.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// UpdateMessage overwrites the message content.
func (s *SQLiteStore) UpdateMessage(ctx context.Context, msg *domain.Message) error {
	return s.execAffecting(ctx, `UPDATE messages SET role = ?, content = ? WHERE id = ?`, msg.Role, msg.Content, msg.ID)
}

// DeleteMessage removes a message.
func (s *SQLiteStore) DeleteMessage(ctx context.Context, id string) error {
	return s.execAffecting(ctx, `DELETE FROM messages WHERE id = ?`, id)
}
