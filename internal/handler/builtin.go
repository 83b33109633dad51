package handler

import (
	"github.com/rs/zerolog"

	"github.com/MKRNaqeebi/GenAlima/internal/adapter/llm"
	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

// Built-in handler names, as stored in model and connector records.
const (
	ConnectorNone          = "none"
	ConnectorHTTPRetrieval = "http_retrieval"
	ConnectorRedisKB       = "redis_kb"

	ModelMock       = "mock"
	ModelOpenAIChat = "openai_chat"
)

// Deps carries the clients the built-in handlers close over.
type Deps struct {
	LLM              llm.LLMClient
	Retriever        Retriever
	KnowledgeBase    DocumentSource
	KnowledgeBaseTop int
	Temperature      float32
	MaxHistoryTokens int
	Logger           zerolog.Logger
}

// Builtins is the static handler table compiled into the binary.
func Builtins(deps Deps) []Binding {
	return []Binding{
		{Namespace: domain.NamespaceConnector, Name: ConnectorNone, Connector: NoneConnector},
		{Namespace: domain.NamespaceConnector, Name: ConnectorHTTPRetrieval, Connector: RetrieverConnector(deps.Retriever)},
		{Namespace: domain.NamespaceConnector, Name: ConnectorRedisKB, Connector: KnowledgeBaseConnector(deps.KnowledgeBase, deps.KnowledgeBaseTop)},

		{Namespace: domain.NamespaceModel, Name: ModelMock, Model: ChatModel(llm.NewMockClient(), ChatModelOptions{
			DefaultModel: "mock",
			Logger:       deps.Logger,
		})},
		{Namespace: domain.NamespaceModel, Name: ModelOpenAIChat, Model: ChatModel(deps.LLM, ChatModelOptions{
			DefaultModel:     "gpt-4o-mini",
			Temperature:      deps.Temperature,
			MaxHistoryTokens: deps.MaxHistoryTokens,
			Counter:          llm.TiktokenCounter,
			Logger:           deps.Logger,
		})},
	}
}

// RegisterBuiltins registers the static table and freezes the registry.
func RegisterBuiltins(r *Registry, deps Deps) error {
	if err := r.RegisterAll(Builtins(deps)); err != nil {
		return err
	}
	r.Freeze()
	return nil
}
