package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/policy"
)

const defaultChatTitle = "New chat"

func (s *Service) CreateChat(ctx context.Context, in domain.ChatInput) (*domain.Chat, error) {
	id, err := s.authorize(ctx, policy.ActionCreate, policy.Resource{Kind: policy.KindChat})
	if err != nil {
		return nil, err
	}
	if err := s.requireAll("template_id", in.TemplateID); err != nil {
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	if _, err := s.GetTemplate(ctx, *in.TemplateID, policy.ActionDispatch); err != nil {
		return nil, err
	}

	now := s.now()
	chat := &domain.Chat{
		ID:         newID(),
		Title:      defaultChatTitle,
		TemplateID: *in.TemplateID,
		OwnerID:    id.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		chat.Title = strings.TrimSpace(*in.Title)
	}
	if err := s.store.CreateChat(ctx, chat); err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return chat, nil
}

// GetChat loads a chat and checks action on it.
func (s *Service) GetChat(ctx context.Context, chatID string, action string) (*domain.Chat, error) {
	chat, err := s.store.GetChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	if chat == nil {
		return nil, fmt.Errorf("%w: chat %q", domain.ErrNotFound, chatID)
	}
	if _, err := s.authorize(ctx, action, policy.Resource{Kind: policy.KindChat, OwnerID: chat.OwnerID}); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *Service) ListChats(ctx context.Context, skip, limit int) (*domain.ListResponse[domain.Chat], error) {
	id, err := s.authorize(ctx, policy.ActionList, policy.Resource{Kind: policy.KindChat})
	if err != nil {
		return nil, err
	}
	chats, count, err := s.store.ListChats(ctx, ownedPage(id, skip, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	return &domain.ListResponse[domain.Chat]{Data: chats, Count: count}, nil
}

func (s *Service) UpdateChat(ctx context.Context, chatID string, in domain.ChatInput) (*domain.Chat, error) {
	chat, err := s.GetChat(ctx, chatID, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	if in.Title != nil {
		chat.Title = strings.TrimSpace(*in.Title)
	}
	if in.TemplateID != nil && *in.TemplateID != chat.TemplateID {
		if _, err := s.GetTemplate(ctx, *in.TemplateID, policy.ActionDispatch); err != nil {
			return nil, err
		}
		chat.TemplateID = *in.TemplateID
	}
	chat.UpdatedAt = s.now()
	if err := s.store.UpdateChat(ctx, chat); err != nil {
		return nil, fmt.Errorf("failed to update chat: %w", err)
	}
	return chat, nil
}

func (s *Service) DeleteChat(ctx context.Context, chatID string) error {
	if _, err := s.GetChat(ctx, chatID, policy.ActionDelete); err != nil {
		return err
	}
	return s.store.DeleteChat(ctx, chatID)
}

// ChatMessages returns the conversation of a chat the caller may read.
func (s *Service) ChatMessages(ctx context.Context, chatID string) (*domain.ListResponse[domain.Message], error) {
	if _, err := s.GetChat(ctx, chatID, policy.ActionRead); err != nil {
		return nil, err
	}
	msgs, err := s.store.ListChatMessages(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return &domain.ListResponse[domain.Message]{Data: msgs, Count: len(msgs)}, nil
}
