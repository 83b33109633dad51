package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/MKRNaqeebi/GenAlima/internal/adapter/llm"
	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

// errNoModelClient is returned by model handlers built without a client.
var errNoModelClient = errors.New("model client not configured")

// ChatModelOptions configures a chat-completion model handler.
type ChatModelOptions struct {
	// DefaultModel is used when the model record has no title.
	DefaultModel     string
	Temperature      float32
	MaxHistoryTokens int
	// Counter counts prompt tokens for history trimming; nil disables trimming.
	Counter func(model string) llm.TokenCounter
	Logger  zerolog.Logger
}

// ChatModel returns a model handler that sends the built conversation to
// client and returns the assistant choices. The model record title names
// the provider model.
func ChatModel(client llm.LLMClient, opts ChatModelOptions) ModelFunc {
	return func(ctx context.Context, in ModelInput) ([]domain.Message, error) {
		if client == nil {
			return nil, errNoModelClient
		}
		modelName := in.Model.Title
		if modelName == "" {
			modelName = opts.DefaultModel
		}

		head, history, tail := BuildMessages(in)
		var counter llm.TokenCounter
		if opts.Counter != nil {
			counter = opts.Counter(modelName)
		}
		msgs, trimmed, err := llm.TrimHistory(head, history, tail, opts.MaxHistoryTokens, counter)
		if err != nil {
			opts.Logger.Warn().Err(err).Str("model", modelName).Msg("token count failed, sending untrimmed history")
		}
		if trimmed {
			opts.Logger.Debug().Str("model", modelName).Msg("history trimmed due to token limit")
		}

		resp, err := client.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
			Model:       modelName,
			Messages:    msgs,
			Temperature: opts.Temperature,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("model %s returned no choices", modelName)
		}

		now := time.Now().UTC()
		out := make([]domain.Message, 0, len(resp.Choices))
		for _, ch := range resp.Choices {
			role := domain.Role(ch.Message.Role)
			if !role.Valid() {
				role = domain.RoleAssistant
			}
			out = append(out, domain.Message{Role: role, Content: ch.Message.Content, CreatedAt: now})
		}
		return out, nil
	}
}
