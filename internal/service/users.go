package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKRNaqeebi/GenAlima/internal/auth"
	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/policy"
)

// Register creates a regular, active account.
func (s *Service) Register(ctx context.Context, in domain.UserRegister) (*domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := s.check(in); err != nil {
		return nil, err
	}
	return s.createUser(ctx, in.Email, in.Password, in.FullName, true, false)
}

// CreateUser creates an account on behalf of a superuser.
func (s *Service) CreateUser(ctx context.Context, in domain.UserCreate) (*domain.User, error) {
	if _, err := s.authorize(ctx, policy.ActionCreate, policy.Resource{Kind: policy.KindUser}); err != nil {
		return nil, err
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := s.check(in); err != nil {
		return nil, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return s.createUser(ctx, in.Email, in.Password, in.FullName, active, in.IsSuperuser)
}

func (s *Service) createUser(ctx context.Context, email, password, fullName string, active, superuser bool) (*domain.User, error) {
	email = strings.ToLower(email)
	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: a user with this email already exists", domain.ErrConflict)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:             newID(),
		Email:          email,
		FullName:       strings.TrimSpace(fullName),
		HashedPassword: hashed,
		IsActive:       active,
		IsSuperuser:    superuser,
		CreatedAt:      s.now(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Info().Str("user_id", user.ID).Bool("superuser", superuser).Msg("user created")
	return user, nil
}

// Login checks credentials and issues an access token.
func (s *Service) Login(ctx context.Context, in domain.LoginRequest) (domain.Token, error) {
	if err := s.check(in); err != nil {
		return domain.Token{}, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Username))
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.Token{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.HashedPassword, in.Password) {
		return domain.Token{}, fmt.Errorf("%w: incorrect email or password", domain.ErrInvalidInput)
	}
	if !user.IsActive {
		return domain.Token{}, fmt.Errorf("%w: inactive user", domain.ErrInvalidInput)
	}
	return s.issuer.Issue(user)
}

// Me returns the caller's account.
func (s *Service) Me(ctx context.Context) (*domain.User, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// UpdateMe changes the caller's name or email.
func (s *Service) UpdateMe(ctx context.Context, in domain.UserUpdateMe) (*domain.User, error) {
	user, err := s.Me(ctx)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		trimmed := strings.TrimSpace(*in.Email)
		in.Email = &trimmed
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := strings.ToLower(*in.Email)
		if email != user.Email {
			other, err := s.store.GetUserByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("failed to look up user: %w", err)
			}
			if other != nil {
				return nil, fmt.Errorf("%w: a user with this email already exists", domain.ErrConflict)
			}
			user.Email = email
		}
	}
	if in.FullName != nil {
		user.FullName = strings.TrimSpace(*in.FullName)
	}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// UpdatePassword changes the caller's password after checking the current one.
func (s *Service) UpdatePassword(ctx context.Context, in domain.UpdatePassword) error {
	user, err := s.Me(ctx)
	if err != nil {
		return err
	}
	if err := s.check(in); err != nil {
		return err
	}
	if !auth.CheckPassword(user.HashedPassword, in.CurrentPassword) {
		return fmt.Errorf("%w: incorrect password", domain.ErrInvalidInput)
	}
	if in.CurrentPassword == in.NewPassword {
		return fmt.Errorf("%w: new password cannot be the same as the current one", domain.ErrInvalidInput)
	}
	hashed, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	user.HashedPassword = hashed
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// DeleteMe removes the caller's account. Superusers cannot delete themselves.
func (s *Service) DeleteMe(ctx context.Context) error {
	user, err := s.Me(ctx)
	if err != nil {
		return err
	}
	if user.IsSuperuser {
		return fmt.Errorf("%w: superusers are not allowed to delete themselves", domain.ErrForbidden)
	}
	return s.store.DeleteUser(ctx, user.ID)
}

// ListUsers pages through all accounts. Superuser only.
func (s *Service) ListUsers(ctx context.Context, skip, limit int) (*domain.ListResponse[domain.User], error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if !id.IsSuperuser {
		return nil, domain.ErrForbidden
	}
	users, count, err := s.store.ListUsers(ctx, sharedPage(skip, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &domain.ListResponse[domain.User]{Data: users, Count: count}, nil
}

// GetUser returns an account. Users may read themselves; superusers anyone.
func (s *Service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if _, err := s.authorize(ctx, policy.ActionRead, policy.Resource{Kind: policy.KindUser, OwnerID: userID}); err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// DeleteUser removes an account. Superuser only, and not their own.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	id, err := s.authorize(ctx, policy.ActionDelete, policy.Resource{Kind: policy.KindUser})
	if err != nil {
		return err
	}
	if id.UserID == userID {
		return fmt.Errorf("%w: superusers are not allowed to delete themselves", domain.ErrForbidden)
	}
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
