package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/soundfloor/crowdmix/backend/internal/config"
	"github.com/soundfloor/crowdmix/backend/internal/model/session"
)

// MoodContext is the aggregate view of the room handed to the model so the
// suggestion fits the current vibe.
type MoodContext struct {
	TopWords  []string
	AvgTempo  int
	AvgEnergy float64
}

// Service wraps the chat model behind a single-shot suggestion call. It is
// stateless and never touches the session store; generated text re-enters
// the engine only when a client submits it as an ordinary suggestion.
type Service struct {
	cfg   config.AIConfig
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the suggestion chain against the configured model.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("You are helping a music producer in a live crowd-sourced music session."),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile suggestion chain: %w", err)
	}

	return &Service{cfg: cfg, chain: runnable}, nil
}

// Suggest asks the model for one short idea in the given category.
func (s *Service) Suggest(ctx context.Context, category session.Category, mood MoodContext) (string, error) {
	input := map[string]any{"query": buildQuery(category, mood)}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run suggestion chain: %w", err)
	}

	text := strings.TrimSpace(response.Content)
	if text == "" {
		return "", errors.New("model returned an empty suggestion")
	}

	log.Printf("[ai] generated %s suggestion, length=%d", category, len(text))
	return text, nil
}

func buildQuery(category session.Category, mood MoodContext) string {
	words := mood.TopWords
	if len(words) > 10 {
		words = words[:10]
	}
	return fmt.Sprintf(
		"Crowd mood words: %s. Average tempo: %d BPM. Average energy: %g/10. Suggest a short %s idea that fits this vibe. Keep it under 20 words.",
		strings.Join(words, ", "), mood.AvgTempo, mood.AvgEnergy, category,
	)
}
