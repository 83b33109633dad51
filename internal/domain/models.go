package domain

import "time"

// User is an account that can authenticate against the API.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name,omitempty"`
	HashedPassword string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	CreatedAt      time.Time `json:"created_at"`
}

// Organization groups users under a tenant.
type Organization struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// PromptTemplate selects the model and connector used to answer a query.
// Model and Connector hold record ids, not handler names.
type PromptTemplate struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Instructions string    `json:"instructions,omitempty"`
	Template     string    `json:"template,omitempty"`
	Placeholder  string    `json:"placeholder,omitempty"`
	Model        string    `json:"model"`
	Connector    string    `json:"connector"`
	Active       bool      `json:"active"`
	OwnerID      string    `json:"owner_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ModelRecord describes a completion provider. Function names the model handler.
type ModelRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Provider    string    `json:"provider,omitempty"`
	Function    string    `json:"function"`
	Rank        int       `json:"rank"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ConnectorRecord describes a context source. Function names the connector handler.
type ConnectorRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Function    string    `json:"function"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Chat is a conversation bound to a prompt template.
type Chat struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	TemplateID string    `json:"template_id"`
	OwnerID    string    `json:"owner_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Message is a single turn. ID, ChatID and OwnerID are empty for messages
// that only live in memory.
type Message struct {
	ID        string    `json:"id,omitempty"`
	ChatID    string    `json:"chat_id,omitempty"`
	OwnerID   string    `json:"owner_id,omitempty"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Document is one retrieved item returned by a connector.
type Document struct {
	ID      string  `json:"id,omitempty"`
	Title   string  `json:"title,omitempty"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// RetrievedContext is what a connector hands to the model handler.
type RetrievedContext struct {
	Text      string     `json:"text,omitempty"`
	Documents []Document `json:"documents,omitempty"`
}

// Empty reports whether the context carries nothing usable.
func (c RetrievedContext) Empty() bool {
	return c.Text == "" && len(c.Documents) == 0
}

// CompletionRequest is one dispatch input. It is never persisted.
type CompletionRequest struct {
	Query      string    `json:"query"`
	TemplateID string    `json:"template_id"`
	History    []Message `json:"history,omitempty"`
}
