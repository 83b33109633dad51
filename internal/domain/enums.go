// Package domain defines the core domain models for the completion backend.
package domain

// Role represents the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Namespace separates connector handlers from model handlers.
type Namespace string

const (
	NamespaceConnector Namespace = "connector"
	NamespaceModel     Namespace = "model"
)

// RecordKind names the registry record types read during dispatch.
type RecordKind string

const (
	KindTemplate  RecordKind = "template"
	KindModel     RecordKind = "model"
	KindConnector RecordKind = "connector"
)

// Dispatch outcomes, used as metric labels and in logs.
const (
	OutcomeSuccess        = "success"
	OutcomeNotFound       = "not_found"
	OutcomeInactive       = "inactive"
	OutcomeUnknownHandler = "unknown_handler"
	OutcomeConnectorError = "connector_error"
	OutcomeModelError     = "model_error"
	OutcomeCancelled      = "cancelled"
	OutcomeInternal       = "internal"
)
