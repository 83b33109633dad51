package handler

import (
	"strings"

	"github.com/MKRNaqeebi/GenAlima/internal/adapter/llm"
	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

// DefaultPlaceholder marks where the query goes in a template string.
const DefaultPlaceholder = "{query}"

// RenderTemplate substitutes query into the template string. Without a
// template the query is used as is; without a placeholder occurrence the
// query is appended after a blank line.
func RenderTemplate(tmpl domain.PromptTemplate, query string) string {
	if strings.TrimSpace(tmpl.Template) == "" {
		return query
	}
	placeholder := tmpl.Placeholder
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	if !strings.Contains(tmpl.Template, placeholder) {
		return tmpl.Template + "\n\n" + query
	}
	return strings.ReplaceAll(tmpl.Template, placeholder, query)
}

// SystemPrompt joins the template instructions and the retrieved context.
func SystemPrompt(tmpl domain.PromptTemplate, rc domain.RetrievedContext) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(tmpl.Instructions))

	ctxText := contextText(rc)
	if ctxText != "" {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Context:\n")
		b.WriteString(ctxText)
	}
	return b.String()
}

// BuildMessages lays out the provider conversation: system prompt, history,
// then the rendered user turn. The three parts are returned separately so
// callers can trim history alone.
func BuildMessages(in ModelInput) (head, history, tail []llm.ChatMessage) {
	if sys := SystemPrompt(in.Template, in.Context); sys != "" {
		head = append(head, llm.ChatMessage{Role: string(domain.RoleSystem), Content: sys})
	}
	for _, m := range in.History {
		if m.Content == "" || !m.Role.Valid() {
			continue
		}
		history = append(history, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	tail = []llm.ChatMessage{{Role: string(domain.RoleUser), Content: RenderTemplate(in.Template, in.Query)}}
	return head, history, tail
}

func contextText(rc domain.RetrievedContext) string {
	if rc.Text != "" {
		return strings.TrimSpace(rc.Text)
	}
	parts := make([]string, 0, len(rc.Documents))
	for _, d := range rc.Documents {
		if d.Content == "" {
			continue
		}
		if d.Title != "" {
			parts = append(parts, d.Title+": "+d.Content)
		} else {
			parts = append(parts, d.Content)
		}
	}
	return strings.Join(parts, "\n---\n")
}
