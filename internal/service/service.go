// Package service implements the backend's use cases on top of the store,
// the dispatch pipeline and the authorization policy.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MKRNaqeebi/GenAlima/internal/adapter/llm"
	"github.com/MKRNaqeebi/GenAlima/internal/auth"
	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/policy"
	"github.com/MKRNaqeebi/GenAlima/internal/repository"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

// Dispatcher runs one completion request.
type Dispatcher interface {
	Execute(ctx context.Context, req domain.CompletionRequest) ([]domain.Message, error)
}

// HandlerCatalog lists the handler names compiled into the process.
type HandlerCatalog interface {
	Has(ns domain.Namespace, name string) bool
	Names(ns domain.Namespace) []string
}

// ModelCatalog lists the models the upstream provider serves.
type ModelCatalog interface {
	ListModels(ctx context.Context) ([]llm.Model, error)
}

// Options tunes the service.
type Options struct {
	// CompletionRate and CompletionBurst bound completions per user. Zero disables limiting.
	CompletionRate  float64
	CompletionBurst int
	// Provider, when set, adds the upstream model ids to the handler listing.
	Provider ModelCatalog
}

type Service struct {
	store      repository.Store
	dispatcher Dispatcher
	handlers   HandlerCatalog
	provider   ModelCatalog
	policy     *policy.Engine
	issuer     *auth.Issuer
	limiter    *userLimiter
	validate   *validator.Validate
	logger     zerolog.Logger
	now        func() time.Time
}

func New(store repository.Store, dispatcher Dispatcher, handlers HandlerCatalog, policyEngine *policy.Engine, issuer *auth.Issuer, opts Options, logger zerolog.Logger) *Service {
	return &Service{
		store:      store,
		dispatcher: dispatcher,
		handlers:   handlers,
		provider:   opts.Provider,
		policy:     policyEngine,
		issuer:     issuer,
		limiter:    newUserLimiter(opts.CompletionRate, opts.CompletionBurst),
		validate:   newValidator(),
		logger:     logger.With().Str("component", "service").Logger(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Ping checks the store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// caller returns the authenticated identity of ctx.
func caller(ctx context.Context) (auth.Identity, error) {
	id, ok := auth.FromContext(ctx)
	if !ok {
		return auth.Identity{}, domain.ErrUnauthorized
	}
	return id, nil
}

// authorize checks action on res for the caller of ctx.
func (s *Service) authorize(ctx context.Context, action string, res policy.Resource) (auth.Identity, error) {
	id, err := caller(ctx)
	if err != nil {
		return id, err
	}
	allowed, err := s.policy.Allow(ctx, action, policy.Subject{ID: id.UserID, IsSuperuser: id.IsSuperuser}, res)
	if err != nil {
		return id, err
	}
	if !allowed {
		return id, fmt.Errorf("%w: cannot %s %s", domain.ErrForbidden, action, res.Kind)
	}
	return id, nil
}

// ownedPage normalizes paging and scopes it to the caller unless they are a superuser.
func ownedPage(id auth.Identity, skip, limit int) domain.Page {
	p := sharedPage(skip, limit)
	if !id.IsSuperuser {
		p.OwnerID = id.UserID
	}
	return p
}

func sharedPage(skip, limit int) domain.Page {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return domain.Page{Skip: skip, Limit: limit}
}

func notFound(kind domain.RecordKind, id string) error {
	return &domain.NotFoundError{Kind: kind, ID: id}
}

func newID() string {
	return uuid.NewString()
}
