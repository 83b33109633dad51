// Package repository persists users, tenants, the prompt registry and chats.
package repository

import (
	"context"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

// Store defines the interface for data persistence. Getters return
// (nil, nil) when the record does not exist.
type Store interface {
	// User operations
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, page domain.Page) ([]domain.User, int, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error

	// Organization operations
	CreateOrganization(ctx context.Context, org *domain.Organization) error
	GetOrganization(ctx context.Context, id string) (*domain.Organization, error)
	ListOrganizations(ctx context.Context, page domain.Page) ([]domain.Organization, int, error)
	UpdateOrganization(ctx context.Context, org *domain.Organization) error
	DeleteOrganization(ctx context.Context, id string) error

	// Prompt template operations
	CreateTemplate(ctx context.Context, tmpl *domain.PromptTemplate) error
	GetTemplate(ctx context.Context, id string) (*domain.PromptTemplate, error)
	ListTemplates(ctx context.Context, page domain.Page) ([]domain.PromptTemplate, int, error)
	UpdateTemplate(ctx context.Context, tmpl *domain.PromptTemplate) error
	DeleteTemplate(ctx context.Context, id string) error

	// Model record operations
	CreateModel(ctx context.Context, model *domain.ModelRecord) error
	GetModel(ctx context.Context, id string) (*domain.ModelRecord, error)
	ListModels(ctx context.Context, page domain.Page) ([]domain.ModelRecord, int, error)
	UpdateModel(ctx context.Context, model *domain.ModelRecord) error
	DeleteModel(ctx context.Context, id string) error

	// Connector record operations
	CreateConnector(ctx context.Context, conn *domain.ConnectorRecord) error
	GetConnector(ctx context.Context, id string) (*domain.ConnectorRecord, error)
	ListConnectors(ctx context.Context, page domain.Page) ([]domain.ConnectorRecord, int, error)
	UpdateConnector(ctx context.Context, conn *domain.ConnectorRecord) error
	DeleteConnector(ctx context.Context, id string) error

	// Chat operations
	CreateChat(ctx context.Context, chat *domain.Chat) error
	GetChat(ctx context.Context, id string) (*domain.Chat, error)
	ListChats(ctx context.Context, page domain.Page) ([]domain.Chat, int, error)
	UpdateChat(ctx context.Context, chat *domain.Chat) error
	DeleteChat(ctx context.Context, id string) error

	// Message operations
	CreateMessage(ctx context.Context, msg *domain.Message) error
	CreateMessages(ctx context.Context, msgs []domain.Message) error
	GetMessage(ctx context.Context, id string) (*domain.Message, error)
	ListMessages(ctx context.Context, page domain.Page) ([]domain.Message, int, error)
	ListChatMessages(ctx context.Context, chatID string) ([]domain.Message, error)
	UpdateMessage(ctx context.Context, msg *domain.Message) error
	DeleteMessage(ctx context.Context, id string) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
