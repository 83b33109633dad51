package repository

import (
	"context"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

const userColumns = `id, email, full_name, hashed_password, is_active, is_superuser, created_at`

func scanUser(row scanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.IsActive, &u.IsSuperuser, &u.CreatedAt)
	return u, err
}

// CreateUser inserts a user. A taken email yields ErrConflict.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.FullName, user.HashedPassword, user.IsActive, user.IsSuperuser, user.CreatedAt)
	return mapWriteError(err)
}

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return getOne(row, scanUser)
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email)
	return getOne(row, scanUser)
}

// ListUsers pages through users ordered by creation.
func (s *SQLiteStore) ListUsers(ctx context.Context, page domain.Page) ([]domain.User, int, error) {
	page.OwnerID = ""
	return list(ctx, s.db, "users", userColumns, "created_at ASC, id ASC", page, scanUser)
}

// UpdateUser overwrites the mutable user fields.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *domain.User) error {
	return s.execAffecting(ctx,
		`UPDATE users SET email = ?, full_name = ?, hashed_password = ?, is_active = ?, is_superuser = ? WHERE id = ?`,
		user.Email, user.FullName, user.HashedPassword, user.IsActive, user.IsSuperuser, user.ID)
}

// DeleteUser removes a user and, by cascade, everything they own.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	return s.execAffecting(ctx, `DELETE FROM users WHERE id = ?`, id)
}
