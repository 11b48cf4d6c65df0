// Package companion implements the emotion-aware AI chat partner and its
// scripted fallback.
package companion

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"moodmatch/backend/internal/config"
	"moodmatch/backend/internal/emotion"
	"moodmatch/backend/internal/logger"
	"moodmatch/backend/internal/models"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// ErrNotConfigured is returned when no chat model is available.
var ErrNotConfigured = errors.New("AI provider not configured")

// NewArkModel builds the Ark chat model from cfg.
func NewArkModel(ctx context.Context, cfg config.AIConfig) (model.BaseChatModel, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	cm, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:   cfg.BaseURL,
		Region:    cfg.Region,
		APIKey:    cfg.APIKey,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Model:     cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return cm, nil
}

// Service runs system prompt, recent history and the user's message through
// the chat model.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the chat chain around chatModel.
func NewService(ctx context.Context, chatModel model.BaseChatModel) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile companion chain: %w", err)
	}
	return &Service{chain: runnable}, nil
}

// Reply answers message in the persona of label. A nil Service yields ErrNotConfigured.
func (s *Service) Reply(ctx context.Context, label emotion.Label, history []models.CompanionMessage, message string) (string, error) {
	if s == nil {
		return "", ErrNotConfigured
	}

	input := map[string]any{
		"system":  emotion.SystemPrompt(label),
		"history": historyMessages(history),
		"query":   message,
	}
	resp, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run companion chain: %w", err)
	}

	logger.Get().Debug().Str("emotion", string(label)).Int("length", len(resp.Content)).Msg("companion replied")
	return resp.Content, nil
}

// historyMessages keeps the last config.CompanionPromptTurns entries.
func historyMessages(history []models.CompanionMessage) []*schema.Message {
	start := 0
	if len(history) > config.CompanionPromptTurns {
		start = len(history) - config.CompanionPromptTurns
	}

	out := make([]*schema.Message, 0, len(history)-start)
	for _, m := range history[start:] {
		switch m.Role {
		case models.RoleUser:
			out = append(out, schema.UserMessage(m.Content))
		case models.RoleAssistant:
			out = append(out, schema.AssistantMessage(m.Content, nil))
		}
	}
	return out
}

// CannedBot replies with a random scripted line for the emotion.
type CannedBot struct {
	pick func(n int) int
}

func NewCannedBot() *CannedBot {
	return &CannedBot{pick: rand.Intn}
}

func (b *CannedBot) Reply(label emotion.Label) string {
	responses := emotion.CannedResponses(label)
	return responses[b.pick(len(responses))]
}
