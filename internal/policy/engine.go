// Package policy evaluates authorization decisions with OPA.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Actions checked against the policy.
const (
	ActionRead     = "read"
	ActionList     = "list"
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionDispatch = "dispatch"
)

// Resource kinds checked against the policy.
const (
	KindUser         = "user"
	KindOrganization = "organization"
	KindTemplate     = "template"
	KindModel        = "model"
	KindConnector    = "connector"
	KindHandler      = "handler"
	KindChat         = "chat"
	KindMessage      = "message"
)

// Subject is the caller of a checked action.
type Subject struct {
	ID          string
	IsSuperuser bool
}

// Resource is the target of a checked action. OwnerID is empty for shared resources.
type Resource struct {
	Kind    string
	OwnerID string
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine prepares the given rego module. It must define data.genalima.authz.allow.
func NewEngine(ctx context.Context, module string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.genalima.authz.allow"),
		rego.Module("authz.rego", module),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}
	return &Engine{query: query}, nil
}

// Allow evaluates whether sub may perform action on res. An undefined
// decision is a deny.
func (e *Engine) Allow(ctx context.Context, action string, sub Subject, res Resource) (bool, error) {
	input := map[string]any{
		"action": action,
		"user": map[string]any{
			"id":           sub.ID,
			"is_superuser": sub.IsSuperuser,
		},
		"resource": map[string]any{
			"kind":     res.Kind,
			"owner_id": res.OwnerID,
		},
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, nil
	}
	allowed, ok := results[0].Expressions[0].Value.(bool)
	return ok && allowed, nil
}

// DefaultPolicy is the built-in authorization policy.
const DefaultPolicy = `
package genalima.authz

default allow := false

shared_kinds := {"model", "connector", "handler"}

creatable_kinds := {"organization", "template", "chat", "message"}

owner_actions := {"read", "update", "delete", "dispatch"}

allow if input.user.is_superuser

allow if {
	input.action in {"read", "dispatch"}
	input.resource.kind in shared_kinds
}

# Any template may be dispatched; only owners read a template's text.
allow if {
	input.action == "dispatch"
	input.resource.kind == "template"
}

# Unowned templates are seeded for everyone.
allow if {
	input.action == "read"
	input.resource.kind == "template"
	input.resource.owner_id == ""
}

allow if {
	input.action == "list"
}

allow if {
	input.action == "create"
	input.resource.kind in creatable_kinds
}

# Registry records are shared and have no owner, so this never opens
# model or connector writes to regular users.
allow if {
	input.action in owner_actions
	input.resource.owner_id != ""
	input.resource.owner_id == input.user.id
}
`
