package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/policy"
)

func (s *Service) CreateOrganization(ctx context.Context, in domain.OrganizationInput) (*domain.Organization, error) {
	id, err := s.authorize(ctx, policy.ActionCreate, policy.Resource{Kind: policy.KindOrganization})
	if err != nil {
		return nil, err
	}
	if err := s.requireAll("title", in.Title); err != nil {
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	org := &domain.Organization{
		ID:        newID(),
		Title:     strings.TrimSpace(*in.Title),
		OwnerID:   id.UserID,
		CreatedAt: s.now(),
	}
	if in.Description != nil {
		org.Description = *in.Description
	}
	if err := s.store.CreateOrganization(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return org, nil
}

func (s *Service) GetOrganization(ctx context.Context, orgID string, action string) (*domain.Organization, error) {
	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return nil, fmt.Errorf("%w: organization %q", domain.ErrNotFound, orgID)
	}
	if _, err := s.authorize(ctx, action, policy.Resource{Kind: policy.KindOrganization, OwnerID: org.OwnerID}); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *Service) ListOrganizations(ctx context.Context, skip, limit int) (*domain.ListResponse[domain.Organization], error) {
	id, err := s.authorize(ctx, policy.ActionList, policy.Resource{Kind: policy.KindOrganization})
	if err != nil {
		return nil, err
	}
	orgs, count, err := s.store.ListOrganizations(ctx, ownedPage(id, skip, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return &domain.ListResponse[domain.Organization]{Data: orgs, Count: count}, nil
}

func (s *Service) UpdateOrganization(ctx context.Context, orgID string, in domain.OrganizationInput) (*domain.Organization, error) {
	org, err := s.GetOrganization(ctx, orgID, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	if in.Title != nil {
		org.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		org.Description = *in.Description
	}
	if err := s.store.UpdateOrganization(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return org, nil
}

func (s *Service) DeleteOrganization(ctx context.Context, orgID string) error {
	if _, err := s.GetOrganization(ctx, orgID, policy.ActionDelete); err != nil {
		return err
	}
	return s.store.DeleteOrganization(ctx, orgID)
}
