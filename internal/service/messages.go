package service

import (
	"context"
	"fmt"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/policy"
)

// CreateMessage appends a message to a chat the caller owns.
func (s *Service) CreateMessage(ctx context.Context, in domain.MessageInput) (*domain.Message, error) {
	id, err := s.authorize(ctx, policy.ActionCreate, policy.Resource{Kind: policy.KindMessage})
	if err != nil {
		return nil, err
	}
	if err := s.requireAll("chat_id", in.ChatID, "content", in.Content); err != nil {
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	role := domain.RoleUser
	if in.Role != nil {
		role = *in.Role
	}
	if _, err := s.GetChat(ctx, *in.ChatID, policy.ActionUpdate); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:        newID(),
		ChatID:    *in.ChatID,
		OwnerID:   id.UserID,
		Role:      role,
		Content:   *in.Content,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return msg, nil
}

// GetMessage loads a message and checks action on it.
func (s *Service) GetMessage(ctx context.Context, messageID string, action string) (*domain.Message, error) {
	msg, err := s.store.GetMessage(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: message %q", domain.ErrNotFound, messageID)
	}
	if _, err := s.authorize(ctx, action, policy.Resource{Kind: policy.KindMessage, OwnerID: msg.OwnerID}); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Service) ListMessages(ctx context.Context, skip, limit int) (*domain.ListResponse[domain.Message], error) {
	id, err := s.authorize(ctx, policy.ActionList, policy.Resource{Kind: policy.KindMessage})
	if err != nil {
		return nil, err
	}
	msgs, count, err := s.store.ListMessages(ctx, ownedPage(id, skip, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return &domain.ListResponse[domain.Message]{Data: msgs, Count: count}, nil
}

func (s *Service) UpdateMessage(ctx context.Context, messageID string, in domain.MessageInput) (*domain.Message, error) {
	msg, err := s.GetMessage(ctx, messageID, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	if in.Content != nil {
		msg.Content = *in.Content
	}
	if in.Role != nil {
		msg.Role = *in.Role
	}
	if err := s.store.UpdateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}
	return msg, nil
}

func (s *Service) DeleteMessage(ctx context.Context, messageID string) error {
	if _, err := s.GetMessage(ctx, messageID, policy.ActionDelete); err != nil {
		return err
	}
	return s.store.DeleteMessage(ctx, messageID)
}
