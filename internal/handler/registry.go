// Package handler holds the named connector and model handlers that prompt
// templates dispatch to.
package handler

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

// ConnectorFunc retrieves context for a query.
type ConnectorFunc func(ctx context.Context, query string) (domain.RetrievedContext, error)

// ModelFunc produces completion messages from a query, its template and the
// context returned by the template's connector.
type ModelFunc func(ctx context.Context, in ModelInput) ([]domain.Message, error)

// ModelInput is the argument set passed to a model handler.
type ModelInput struct {
	Query    string
	Template domain.PromptTemplate
	Model    domain.ModelRecord
	Context  domain.RetrievedContext
	History  []domain.Message
}

// Binding is one row of the static handler table.
type Binding struct {
	Namespace domain.Namespace
	Name      string
	Connector ConnectorFunc
	Model     ModelFunc
}

// Registry stores handlers keyed by namespace and name. It is filled at
// startup and frozen before the server accepts traffic.
type Registry struct {
	mu         sync.RWMutex
	frozen     bool
	connectors map[string]ConnectorFunc
	models     map[string]ModelFunc
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{
		connectors: make(map[string]ConnectorFunc),
		models:     make(map[string]ModelFunc),
	}
}

// Register binds b.Name in b.Namespace. An existing binding is never replaced.
func (r *Registry) Register(b Binding) error {
	if b.Name == "" {
		return fmt.Errorf("%w: handler name is required", domain.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("%w: cannot register %s handler %q", domain.ErrRegistryFrozen, b.Namespace, b.Name)
	}

	switch b.Namespace {
	case domain.NamespaceConnector:
		if b.Connector == nil {
			return fmt.Errorf("%w: connector handler %q is nil", domain.ErrInvalidInput, b.Name)
		}
		if _, exists := r.connectors[b.Name]; exists {
			return &domain.DuplicateHandlerError{Namespace: b.Namespace, Name: b.Name}
		}
		r.connectors[b.Name] = b.Connector
	case domain.NamespaceModel:
		if b.Model == nil {
			return fmt.Errorf("%w: model handler %q is nil", domain.ErrInvalidInput, b.Name)
		}
		if _, exists := r.models[b.Name]; exists {
			return &domain.DuplicateHandlerError{Namespace: b.Namespace, Name: b.Name}
		}
		r.models[b.Name] = b.Model
	default:
		return fmt.Errorf("%w: unknown namespace %q", domain.ErrInvalidInput, b.Namespace)
	}
	return nil
}

// RegisterConnector binds a connector handler.
func (r *Registry) RegisterConnector(name string, fn ConnectorFunc) error {
	return r.Register(Binding{Namespace: domain.NamespaceConnector, Name: name, Connector: fn})
}

// RegisterModel binds a model handler.
func (r *Registry) RegisterModel(name string, fn ModelFunc) error {
	return r.Register(Binding{Namespace: domain.NamespaceModel, Name: name, Model: fn})
}

// RegisterAll registers every binding, stopping at the first failure.
func (r *Registry) RegisterAll(bindings []Binding) error {
	for _, b := range bindings {
		if err := r.Register(b); err != nil {
			return err
		}
	}
	return nil
}

// Freeze closes the registry for further registration.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// ResolveConnector returns the connector handler bound to name.
func (r *Registry) ResolveConnector(name string) (ConnectorFunc, error) {
	r.mu.RLock()
	fn := r.connectors[name]
	r.mu.RUnlock()
	if fn == nil {
		return nil, &domain.UnknownHandlerError{Namespace: domain.NamespaceConnector, Name: name}
	}
	return fn, nil
}

// ResolveModel returns the model handler bound to name.
func (r *Registry) ResolveModel(name string) (ModelFunc, error) {
	r.mu.RLock()
	fn := r.models[name]
	r.mu.RUnlock()
	if fn == nil {
		return nil, &domain.UnknownHandlerError{Namespace: domain.NamespaceModel, Name: name}
	}
	return fn, nil
}

// Has reports whether name is bound in ns.
func (r *Registry) Has(ns domain.Namespace, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch ns {
	case domain.NamespaceConnector:
		return r.connectors[name] != nil
	case domain.NamespaceModel:
		return r.models[name] != nil
	}
	return false
}

// Names lists the handler names bound in ns, sorted.
func (r *Registry) Names(ns domain.Namespace) []string {
	r.mu.RLock()
	var names []string
	switch ns {
	case domain.NamespaceConnector:
		for name := range r.connectors {
			names = append(names, name)
		}
	case domain.NamespaceModel:
		for name := range r.models {
			names = append(names, name)
		}
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
