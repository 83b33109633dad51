package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/policy"
)

// CreateTemplate stores a prompt template owned by the caller. The model
// and connector it references must exist.
func (s *Service) CreateTemplate(ctx context.Context, in domain.TemplateInput) (*domain.PromptTemplate, error) {
	id, err := s.authorize(ctx, policy.ActionCreate, policy.Resource{Kind: policy.KindTemplate})
	if err != nil {
		return nil, err
	}
	if err := s.requireAll("title", in.Title, "model", in.Model, "connector", in.Connector); err != nil {
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}

	now := s.now()
	tmpl := &domain.PromptTemplate{
		ID:        newID(),
		Active:    true,
		OwnerID:   id.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyTemplateInput(tmpl, in)
	if err := s.checkTemplateRefs(ctx, tmpl); err != nil {
		return nil, err
	}
	if err := s.store.CreateTemplate(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return tmpl, nil
}

// GetTemplate loads a template and checks action on it.
func (s *Service) GetTemplate(ctx context.Context, templateID string, action string) (*domain.PromptTemplate, error) {
	tmpl, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if tmpl == nil {
		return nil, notFound(domain.KindTemplate, templateID)
	}
	if _, err := s.authorize(ctx, action, policy.Resource{Kind: policy.KindTemplate, OwnerID: tmpl.OwnerID}); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// ListTemplates pages through the caller's templates and the unowned ones.
// Superusers see every template.
func (s *Service) ListTemplates(ctx context.Context, skip, limit int) (*domain.ListResponse[domain.PromptTemplate], error) {
	id, err := s.authorize(ctx, policy.ActionList, policy.Resource{Kind: policy.KindTemplate})
	if err != nil {
		return nil, err
	}
	page := ownedPage(id, skip, limit)
	page.IncludeShared = true
	tmpls, count, err := s.store.ListTemplates(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return &domain.ListResponse[domain.PromptTemplate]{Data: tmpls, Count: count}, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, templateID string, in domain.TemplateInput) (*domain.PromptTemplate, error) {
	tmpl, err := s.GetTemplate(ctx, templateID, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	applyTemplateInput(tmpl, in)
	if in.Model != nil || in.Connector != nil {
		if err := s.checkTemplateRefs(ctx, tmpl); err != nil {
			return nil, err
		}
	}
	tmpl.UpdatedAt = s.now()
	if err := s.store.UpdateTemplate(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return tmpl, nil
}

func (s *Service) DeleteTemplate(ctx context.Context, templateID string) error {
	if _, err := s.GetTemplate(ctx, templateID, policy.ActionDelete); err != nil {
		return err
	}
	return s.store.DeleteTemplate(ctx, templateID)
}

func applyTemplateInput(tmpl *domain.PromptTemplate, in domain.TemplateInput) {
	if in.Title != nil {
		tmpl.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		tmpl.Description = *in.Description
	}
	if in.Instructions != nil {
		tmpl.Instructions = *in.Instructions
	}
	if in.Template != nil {
		tmpl.Template = *in.Template
	}
	if in.Placeholder != nil {
		tmpl.Placeholder = *in.Placeholder
	}
	if in.Model != nil {
		tmpl.Model = *in.Model
	}
	if in.Connector != nil {
		tmpl.Connector = *in.Connector
	}
	if in.Active != nil {
		tmpl.Active = *in.Active
	}
}

// checkTemplateRefs rejects templates pointing at records that do not exist.
// Inactive records are accepted; dispatch reports them.
func (s *Service) checkTemplateRefs(ctx context.Context, tmpl *domain.PromptTemplate) error {
	model, err := s.store.GetModel(ctx, tmpl.Model)
	if err != nil {
		return fmt.Errorf("failed to get model: %w", err)
	}
	if model == nil {
		return fmt.Errorf("%w: model %q does not exist", domain.ErrInvalidInput, tmpl.Model)
	}
	conn, err := s.store.GetConnector(ctx, tmpl.Connector)
	if err != nil {
		return fmt.Errorf("failed to get connector: %w", err)
	}
	if conn == nil {
		return fmt.Errorf("%w: connector %q does not exist", domain.ErrInvalidInput, tmpl.Connector)
	}
	return nil
}
