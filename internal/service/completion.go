package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/policy"
)

// Complete runs a completion for the caller. With a chat id the chat's
// template and history are used and the exchange is appended to the chat.
// Dispatch errors are returned unwrapped.
func (s *Service) Complete(ctx context.Context, in domain.CompletionInput) (*domain.CompletionResponse, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	// Malformed requests do not spend a token.
	if err := s.check(in); err != nil {
		return nil, err
	}
	if !s.limiter.Allow(id.UserID) {
		return nil, domain.ErrRateLimited
	}
	query := strings.TrimSpace(in.Query)

	req := domain.CompletionRequest{Query: query, TemplateID: in.TemplateID, History: in.History}
	var chat *domain.Chat
	if in.ChatID != "" {
		chat, err = s.GetChat(ctx, in.ChatID, policy.ActionDispatch)
		if err != nil {
			return nil, err
		}
		if req.TemplateID == "" {
			req.TemplateID = chat.TemplateID
		}
		history, err := s.store.ListChatMessages(ctx, chat.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load chat history: %w", err)
		}
		req.History = history
	}
	if _, err := s.authorize(ctx, policy.ActionDispatch, policy.Resource{Kind: policy.KindTemplate}); err != nil {
		return nil, err
	}

	asked := s.now()
	msgs, err := s.dispatcher.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := &domain.CompletionResponse{Messages: msgs}
	if chat == nil {
		return resp, nil
	}

	resp.ChatID = chat.ID
	stored := make([]domain.Message, 0, len(msgs)+1)
	stored = append(stored, domain.Message{
		ID:        newID(),
		ChatID:    chat.ID,
		OwnerID:   id.UserID,
		Role:      domain.RoleUser,
		Content:   query,
		CreatedAt: asked,
	})
	for i, m := range msgs {
		m.ID = newID()
		m.ChatID = chat.ID
		m.OwnerID = id.UserID
		// Replies sort after the question even when the handler left the timestamp unset.
		if !m.CreatedAt.After(asked) {
			m.CreatedAt = asked.Add(time.Duration(i+1) * time.Microsecond)
		}
		stored = append(stored, m)
	}
	if err := s.store.CreateMessages(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to save chat messages: %w", err)
	}
	resp.Messages = stored[1:]
	return resp, nil
}
