package repository

import (
	"context"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

const organizationColumns = `id, title, description, owner_id, created_at`

func scanOrganization(row scanner) (domain.Organization, error) {
	var o domain.Organization
	err := row.Scan(&o.ID, &o.Title, &o.Description, &o.OwnerID, &o.CreatedAt)
	return o, err
}

func (s *SQLiteStore) CreateOrganization(ctx context.Context, org *domain.Organization) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO organizations (`+organizationColumns+`) VALUES (?, ?, ?, ?, ?)`,
		org.ID, org.Title, org.Description, org.OwnerID, org.CreatedAt)
	return mapWriteError(err)
}

func (s *SQLiteStore) GetOrganization(ctx context.Context, id string) (*domain.Organization, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = ?`, id)
	return getOne(row, scanOrganization)
}

func (s *SQLiteStore) ListOrganizations(ctx context.Context, page domain.Page) ([]domain.Organization, int, error) {
	return list(ctx, s.db, "organizations", organizationColumns, "created_at ASC, id ASC", page, scanOrganization)
}

func (s *SQLiteStore) UpdateOrganization(ctx context.Context, org *domain.Organization) error {
	return s.execAffecting(ctx,
		`UPDATE organizations SET title = ?, description = ? WHERE id = ?`,
		org.Title, org.Description, org.ID)
}

func (s *SQLiteStore) DeleteOrganization(ctx context.Context, id string) error {
	return s.execAffecting(ctx, `DELETE FROM organizations WHERE id = ?`, id)
}
