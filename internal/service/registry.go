package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/policy"
)

// checkFunction rejects handler names that are not compiled in.
func (s *Service) checkFunction(ns domain.Namespace, name string) error {
	if !s.handlers.Has(ns, name) {
		return fmt.Errorf("%w: no %s handler named %q (available: %s)",
			domain.ErrInvalidInput, ns, name, strings.Join(s.handlers.Names(ns), ", "))
	}
	return nil
}

// ListHandlers returns the registered handler names per namespace.
func (s *Service) ListHandlers(ctx context.Context) (*domain.HandlerList, error) {
	if _, err := s.authorize(ctx, policy.ActionRead, policy.Resource{Kind: policy.KindHandler}); err != nil {
		return nil, err
	}
	list := &domain.HandlerList{
		Connectors: s.handlers.Names(domain.NamespaceConnector),
		Models:     s.handlers.Names(domain.NamespaceModel),
	}
	if s.provider != nil {
		// The provider listing is informational; an outage must not hide the handlers.
		models, err := s.provider.ListModels(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to list provider models")
			return list, nil
		}
		for _, m := range models {
			list.ProviderModels = append(list.ProviderModels, m.ID)
		}
	}
	return list, nil
}

func (s *Service) CreateModel(ctx context.Context, in domain.ModelInput) (*domain.ModelRecord, error) {
	if _, err := s.authorize(ctx, policy.ActionCreate, policy.Resource{Kind: policy.KindModel}); err != nil {
		return nil, err
	}
	if err := s.requireAll("title", in.Title, "function", in.Function); err != nil {
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	model := &domain.ModelRecord{ID: in.ID, Active: true, CreatedAt: s.now()}
	if model.ID == "" {
		model.ID = newID()
	}
	applyModelInput(model, in)
	if err := s.checkFunction(domain.NamespaceModel, model.Function); err != nil {
		return nil, err
	}
	if err := s.store.CreateModel(ctx, model); err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	s.logger.Info().Str("model_id", model.ID).Str("function", model.Function).Msg("model record created")
	return model, nil
}

func (s *Service) GetModel(ctx context.Context, modelID string) (*domain.ModelRecord, error) {
	if _, err := s.authorize(ctx, policy.ActionRead, policy.Resource{Kind: policy.KindModel}); err != nil {
		return nil, err
	}
	model, err := s.store.GetModel(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	if model == nil {
		return nil, notFound(domain.KindModel, modelID)
	}
	return model, nil
}

func (s *Service) ListModels(ctx context.Context, skip, limit int) (*domain.ListResponse[domain.ModelRecord], error) {
	if _, err := s.authorize(ctx, policy.ActionList, policy.Resource{Kind: policy.KindModel}); err != nil {
		return nil, err
	}
	models, count, err := s.store.ListModels(ctx, sharedPage(skip, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return &domain.ListResponse[domain.ModelRecord]{Data: models, Count: count}, nil
}

func (s *Service) UpdateModel(ctx context.Context, modelID string, in domain.ModelInput) (*domain.ModelRecord, error) {
	if _, err := s.authorize(ctx, policy.ActionUpdate, policy.Resource{Kind: policy.KindModel}); err != nil {
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	model, err := s.store.GetModel(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	if model == nil {
		return nil, notFound(domain.KindModel, modelID)
	}
	applyModelInput(model, in)
	if in.Function != nil {
		if err := s.checkFunction(domain.NamespaceModel, model.Function); err != nil {
			return nil, err
		}
	}
	if err := s.store.UpdateModel(ctx, model); err != nil {
		return nil, fmt.Errorf("failed to update model: %w", err)
	}
	return model, nil
}

func (s *Service) DeleteModel(ctx context.Context, modelID string) error {
	if _, err := s.authorize(ctx, policy.ActionDelete, policy.Resource{Kind: policy.KindModel}); err != nil {
		return err
	}
	if err := s.store.DeleteModel(ctx, modelID); err != nil {
		return fmt.Errorf("failed to delete model %q: %w", modelID, err)
	}
	return nil
}

func applyModelInput(m *domain.ModelRecord, in domain.ModelInput) {
	if in.Title != nil {
		m.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.Provider != nil {
		m.Provider = *in.Provider
	}
	if in.Function != nil {
		m.Function = strings.TrimSpace(*in.Function)
	}
	if in.Rank != nil {
		m.Rank = *in.Rank
	}
	if in.Active != nil {
		m.Active = *in.Active
	}
}

func (s *Service) CreateConnector(ctx context.Context, in domain.ConnectorInput) (*domain.ConnectorRecord, error) {
	if _, err := s.authorize(ctx, policy.ActionCreate, policy.Resource{Kind: policy.KindConnector}); err != nil {
		return nil, err
	}
	if err := s.requireAll("name", in.Name, "function", in.Function); err != nil {
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	conn := &domain.ConnectorRecord{ID: in.ID, Active: true, CreatedAt: s.now()}
	if conn.ID == "" {
		conn.ID = newID()
	}
	applyConnectorInput(conn, in)
	if err := s.checkFunction(domain.NamespaceConnector, conn.Function); err != nil {
		return nil, err
	}
	if err := s.store.CreateConnector(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}
	s.logger.Info().Str("connector_id", conn.ID).Str("function", conn.Function).Msg("connector record created")
	return conn, nil
}

func (s *Service) GetConnector(ctx context.Context, connectorID string) (*domain.ConnectorRecord, error) {
	if _, err := s.authorize(ctx, policy.ActionRead, policy.Resource{Kind: policy.KindConnector}); err != nil {
		return nil, err
	}
	conn, err := s.store.GetConnector(ctx, connectorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get connector: %w", err)
	}
	if conn == nil {
		return nil, notFound(domain.KindConnector, connectorID)
	}
	return conn, nil
}

func (s *Service) ListConnectors(ctx context.Context, skip, limit int) (*domain.ListResponse[domain.ConnectorRecord], error) {
	if _, err := s.authorize(ctx, policy.ActionList, policy.Resource{Kind: policy.KindConnector}); err != nil {
		return nil, err
	}
	conns, count, err := s.store.ListConnectors(ctx, sharedPage(skip, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list connectors: %w", err)
	}
	return &domain.ListResponse[domain.ConnectorRecord]{Data: conns, Count: count}, nil
}

func (s *Service) UpdateConnector(ctx context.Context, connectorID string, in domain.ConnectorInput) (*domain.ConnectorRecord, error) {
	if _, err := s.authorize(ctx, policy.ActionUpdate, policy.Resource{Kind: policy.KindConnector}); err != nil {
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	conn, err := s.store.GetConnector(ctx, connectorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get connector: %w", err)
	}
	if conn == nil {
		return nil, notFound(domain.KindConnector, connectorID)
	}
	applyConnectorInput(conn, in)
	if in.Function != nil {
		if err := s.checkFunction(domain.NamespaceConnector, conn.Function); err != nil {
			return nil, err
		}
	}
	if err := s.store.UpdateConnector(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to update connector: %w", err)
	}
	return conn, nil
}

func (s *Service) DeleteConnector(ctx context.Context, connectorID string) error {
	if _, err := s.authorize(ctx, policy.ActionDelete, policy.Resource{Kind: policy.KindConnector}); err != nil {
		return err
	}
	if err := s.store.DeleteConnector(ctx, connectorID); err != nil {
		return fmt.Errorf("failed to delete connector %q: %w", connectorID, err)
	}
	return nil
}

func applyConnectorInput(c *domain.ConnectorRecord, in domain.ConnectorInput) {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Function != nil {
		c.Function = strings.TrimSpace(*in.Function)
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
}
