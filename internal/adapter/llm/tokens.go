package llm

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const (
	// Per-message overhead used by OpenAI chat models.
	tokensPerMessage = 3
	// Every reply is primed with <|start|>assistant<|message|>.
	tokensReplyPrimer = 3

	fallbackEncoding = "cl100k_base"
)

// TokenCounter counts the prompt tokens of a message list.
type TokenCounter func(messages []ChatMessage) (int, error)

// TiktokenCounter returns a counter using the encoding of model, falling
// back to cl100k_base for models tiktoken does not know.
func TiktokenCounter(model string) TokenCounter {
	return func(messages []ChatMessage) (int, error) {
		enc, err := tiktoken.EncodingForModel(model)
		if err != nil {
			enc, err = tiktoken.GetEncoding(fallbackEncoding)
			if err != nil {
				return 0, fmt.Errorf("load encoding: %w", err)
			}
		}
		total := tokensReplyPrimer
		for _, m := range messages {
			total += tokensPerMessage
			total += len(enc.Encode(m.Role, nil, nil))
			total += len(enc.Encode(m.Content, nil, nil))
		}
		return total, nil
	}
}

// TrimHistory drops the oldest history entries until head+history+tail fits
// maxTokens. head and tail are always kept. It reports whether anything was dropped.
// A counting error stops trimming and is returned with what was kept so far.
func TrimHistory(head, history, tail []ChatMessage, maxTokens int, count TokenCounter) ([]ChatMessage, bool, error) {
	if maxTokens <= 0 || count == nil {
		return join(head, history, tail), false, nil
	}
	trimmed := false
	for {
		msgs := join(head, history, tail)
		n, err := count(msgs)
		if err != nil {
			return msgs, trimmed, err
		}
		if n <= maxTokens || len(history) == 0 {
			return msgs, trimmed, nil
		}
		history = history[1:]
		trimmed = true
	}
}

func join(parts ...[]ChatMessage) []ChatMessage {
	size := 0
	for _, p := range parts {
		size += len(p)
	}
	out := make([]ChatMessage, 0, size)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
