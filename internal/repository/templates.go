package repository

import (
	"context"
	"database/sql"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

const templateColumns = `id, title, description, instructions, template, placeholder, model_id, connector_id, active, owner_id, created_at, updated_at`

func scanTemplate(row scanner) (domain.PromptTemplate, error) {
	var t domain.PromptTemplate
	var ownerID sql.NullString
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Instructions, &t.Template, &t.Placeholder,
		&t.Model, &t.Connector, &t.Active, &ownerID, &t.CreatedAt, &t.UpdatedAt)
	t.OwnerID = ownerID.String
	return t, err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateTemplate inserts a prompt template. An empty OwnerID stores a shared template.
func (s *SQLiteStore) CreateTemplate(ctx context.Context, tmpl *domain.PromptTemplate) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO templates (`+templateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tmpl.ID, tmpl.Title, tmpl.Description, tmpl.Instructions, tmpl.Template, tmpl.Placeholder,
		tmpl.Model, tmpl.Connector, tmpl.Active, nullable(tmpl.OwnerID), tmpl.CreatedAt, tmpl.UpdatedAt)
	return mapWriteError(err)
}

// GetTemplate retrieves a prompt template by ID.
func (s *SQLiteStore) GetTemplate(ctx context.Context, id string) (*domain.PromptTemplate, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = ?`, id)
	return getOne(row, scanTemplate)
}

// ListTemplates pages through templates ordered by creation.
func (s *SQLiteStore) ListTemplates(ctx context.Context, page domain.Page) ([]domain.PromptTemplate, int, error) {
	return list(ctx, s.db, "templates", templateColumns, "created_at ASC, id ASC", page, scanTemplate)
}

// UpdateTemplate overwrites the template's editable fields and bumps updated_at.
func (s *SQLiteStore) UpdateTemplate(ctx context.Context, tmpl *domain.PromptTemplate) error {
	return s.execAffecting(ctx,
		`UPDATE templates SET title = ?, description = ?, instructions = ?, template = ?, placeholder = ?,
			model_id = ?, connector_id = ?, active = ?, updated_at = ? WHERE id = ?`,
		tmpl.Title, tmpl.Description, tmpl.Instructions, tmpl.Template, tmpl.Placeholder,
		tmpl.Model, tmpl.Connector, tmpl.Active, tmpl.UpdatedAt, tmpl.ID)
}

// DeleteTemplate removes a prompt template.
func (s *SQLiteStore) DeleteTemplate(ctx context.Context, id string) error {
	return s.execAffecting(ctx, `DELETE FROM templates WHERE id = ?`, id)
}
