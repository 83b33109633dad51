package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name string
		tmpl domain.PromptTemplate
		want string
	}{
		{"no template", domain.PromptTemplate{}, "what is go"},
		{"default placeholder", domain.PromptTemplate{Template: "Answer: {query}"}, "Answer: what is go"},
		{"custom placeholder", domain.PromptTemplate{Template: "Q=<<q>> again <<q>>", Placeholder: "<<q>>"}, "Q=what is go again what is go"},
		{"placeholder missing", domain.PromptTemplate{Template: "Be brief."}, "Be brief.\n\nwhat is go"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderTemplate(tt.tmpl, "what is go"))
		})
	}
}

func TestBuildMessages(t *testing.T) {
	in := ModelInput{
		Query:    "hello",
		Template: domain.PromptTemplate{Instructions: "You are helpful.", Template: "User says: {query}"},
		Context: domain.RetrievedContext{Documents: []domain.Document{
			{Title: "Doc", Content: "alpha"},
			{Content: "beta"},
		}},
		History: []domain.Message{
			{Role: domain.RoleUser, Content: "earlier"},
			{Role: "bogus", Content: "dropped"},
			{Role: domain.RoleAssistant, Content: ""},
			{Role: domain.RoleAssistant, Content: "reply"},
		},
	}

	head, history, tail := BuildMessages(in)

	if assert.Len(t, head, 1) {
		assert.Equal(t, "system", head[0].Role)
		assert.Equal(t, "You are helpful.\n\nContext:\nDoc: alpha\n---\nbeta", head[0].Content)
	}
	if assert.Len(t, history, 2) {
		assert.Equal(t, "earlier", history[0].Content)
		assert.Equal(t, "reply", history[1].Content)
	}
	if assert.Len(t, tail, 1) {
		assert.Equal(t, "user", tail[0].Role)
		assert.Equal(t, "User says: hello", tail[0].Content)
	}
}

func TestBuildMessages_NoSystemPrompt(t *testing.T) {
	head, _, tail := BuildMessages(ModelInput{Query: "q"})
	assert.Empty(t, head)
	assert.Equal(t, "q", tail[0].Content)
}

func TestSystemPrompt_PrefersContextText(t *testing.T) {
	rc := domain.RetrievedContext{Text: " summary ", Documents: []domain.Document{{Content: "ignored"}}}
	assert.Equal(t, "Context:\nsummary", SystemPrompt(domain.PromptTemplate{}, rc))
}
