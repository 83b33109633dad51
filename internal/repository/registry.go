package repository

import (
	"context"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

const (
	modelColumns     = `id, title, description, provider, function, rank, active, created_at`
	connectorColumns = `id, name, description, function, active, created_at`
)

func scanModel(row scanner) (domain.ModelRecord, error) {
	var m domain.ModelRecord
	err := row.Scan(&m.ID, &m.Title, &m.Description, &m.Provider, &m.Function, &m.Rank, &m.Active, &m.CreatedAt)
	return m, err
}

func scanConnector(row scanner) (domain.ConnectorRecord, error) {
	var c domain.ConnectorRecord
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Function, &c.Active, &c.CreatedAt)
	return c, err
}

// CreateModel inserts a model record.
func (s *SQLiteStore) CreateModel(ctx context.Context, model *domain.ModelRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO models (`+modelColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		model.ID, model.Title, model.Description, model.Provider, model.Function, model.Rank, model.Active, model.CreatedAt)
	return mapWriteError(err)
}

// GetModel retrieves a model record by ID.
func (s *SQLiteStore) GetModel(ctx context.Context, id string) (*domain.ModelRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+modelColumns+` FROM models WHERE id = ?`, id)
	return getOne(row, scanModel)
}

// ListModels pages through model records by rank.
func (s *SQLiteStore) ListModels(ctx context.Context, page domain.Page) ([]domain.ModelRecord, int, error) {
	page.OwnerID = ""
	return list(ctx, s.db, "models", modelColumns, "rank ASC, id ASC", page, scanModel)
}

// UpdateModel overwrites the model record's fields.
func (s *SQLiteStore) UpdateModel(ctx context.Context, model *domain.ModelRecord) error {
	return s.execAffecting(ctx,
		`UPDATE models SET title = ?, description = ?, provider = ?, function = ?, rank = ?, active = ? WHERE id = ?`,
		model.Title, model.Description, model.Provider, model.Function, model.Rank, model.Active, model.ID)
}

// DeleteModel removes a model record. Templates pointing at it fail dispatch with a not-found error.
func (s *SQLiteStore) DeleteModel(ctx context.Context, id string) error {
	return s.execAffecting(ctx, `DELETE FROM models WHERE id = ?`, id)
}

// CreateConnector inserts a connector record.
func (s *SQLiteStore) CreateConnector(ctx context.Context, conn *domain.ConnectorRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO connectors (`+connectorColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		conn.ID, conn.Name, conn.Description, conn.Function, conn.Active, conn.CreatedAt)
	return mapWriteError(err)
}

// GetConnector retrieves a connector record by ID.
func (s *SQLiteStore) GetConnector(ctx context.Context, id string) (*domain.ConnectorRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+connectorColumns+` FROM connectors WHERE id = ?`, id)
	return getOne(row, scanConnector)
}

// ListConnectors pages through connector records by name.
func (s *SQLiteStore) ListConnectors(ctx context.Context, page domain.Page) ([]domain.ConnectorRecord, int, error) {
	page.OwnerID = ""
	return list(ctx, s.db, "connectors", connectorColumns, "name ASC, id ASC", page, scanConnector)
}

// UpdateConnector overwrites the connector record's fields.
func (s *SQLiteStore) UpdateConnector(ctx context.Context, conn *domain.ConnectorRecord) error {
	return s.execAffecting(ctx,
		`UPDATE connectors SET name = ?, description = ?, function = ?, active = ? WHERE id = ?`,
		conn.Name, conn.Description, conn.Function, conn.Active, conn.ID)
}

// DeleteConnector removes a connector record.
func (s *SQLiteStore) DeleteConnector(ctx context.Context, id string) error {
	return s.execAffecting(ctx, `DELETE FROM connectors WHERE id = ?`, id)
}
