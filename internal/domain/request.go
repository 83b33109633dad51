package domain

import "time"

// ListResponse is the paged list envelope returned by collection routes.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

// Page bounds a collection query. OwnerID scopes the query when non-empty;
// IncludeShared also matches rows without an owner.
type Page struct {
	OwnerID       string
	IncludeShared bool
	Skip          int
	Limit         int
}

// UserRegister is the signup payload.
type UserRegister struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=40"`
	FullName string `json:"full_name,omitempty" validate:"max=255"`
}

// UserCreate is the superuser payload for creating accounts.
type UserCreate struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=40"`
	FullName    string `json:"full_name,omitempty" validate:"max=255"`
	IsActive    *bool  `json:"is_active,omitempty"`
	IsSuperuser bool   `json:"is_superuser"`
}

// UserUpdateMe holds the fields a user may change on their own account.
type UserUpdateMe struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
}

// UpdatePassword changes the caller's password.
type UpdatePassword struct {
	CurrentPassword string `json:"current_password" validate:"required,max=40"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=40"`
}

// LoginRequest carries credentials for the access-token route.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Token is the access token response.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// OrganizationInput is used for both create and update; nil fields are left alone on update.
type OrganizationInput struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,notblank,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
}

// TemplateInput is used for both create and update.
type TemplateInput struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,notblank,max=255"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=255"`
	Instructions *string `json:"instructions,omitempty"`
	Template     *string `json:"template,omitempty"`
	Placeholder  *string `json:"placeholder,omitempty" validate:"omitempty,max=255"`
	Model        *string `json:"model,omitempty" validate:"omitempty,notblank,max=255"`
	Connector    *string `json:"connector,omitempty" validate:"omitempty,notblank,max=255"`
	Active       *bool   `json:"active,omitempty"`
}

// ModelInput is used for both create and update of model records.
type ModelInput struct {
	ID          string  `json:"id,omitempty" validate:"max=255"`
	Title       *string `json:"title,omitempty" validate:"omitempty,notblank,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
	Provider    *string `json:"provider,omitempty" validate:"omitempty,max=255"`
	Function    *string `json:"function,omitempty" validate:"omitempty,notblank,max=255"`
	Rank        *int    `json:"rank,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// ConnectorInput is used for both create and update of connector records.
type ConnectorInput struct {
	ID          string  `json:"id,omitempty" validate:"max=255"`
	Name        *string `json:"name,omitempty" validate:"omitempty,notblank,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
	Function    *string `json:"function,omitempty" validate:"omitempty,notblank,max=255"`
	Active      *bool   `json:"active,omitempty"`
}

// ChatInput is used for both create and update of chats.
type ChatInput struct {
	Title      *string `json:"title,omitempty" validate:"omitempty,max=255"`
	TemplateID *string `json:"template_id,omitempty" validate:"omitempty,notblank"`
}

// MessageInput is used for both create and update of messages.
type MessageInput struct {
	ChatID  *string `json:"chat_id,omitempty" validate:"omitempty,notblank"`
	Role    *Role   `json:"role,omitempty" validate:"omitempty,oneof=system user assistant"`
	Content *string `json:"content,omitempty" validate:"omitempty,notblank"`
}

// CompletionInput is the inbound completion payload. When ChatID is set the
// chat's history is used and the exchange is appended to it.
type CompletionInput struct {
	Query      string    `json:"query" validate:"notblank"`
	TemplateID string    `json:"template_id,omitempty" validate:"required_without=ChatID"`
	ChatID     string    `json:"chat_id,omitempty"`
	History    []Message `json:"history,omitempty"`
}

// CompletionResponse is returned by the completion routes.
type CompletionResponse struct {
	ChatID   string    `json:"chat_id,omitempty"`
	Messages []Message `json:"messages"`
}

// HandlerList lists the handler names compiled into the process, plus the
// model ids the upstream provider reports when one is configured.
type HandlerList struct {
	Connectors     []string `json:"connectors"`
	Models         []string `json:"models"`
	ProviderModels []string `json:"provider_models,omitempty"`
}
