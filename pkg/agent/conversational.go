package agent

import (
	"context"
	"fmt"
	"log"

	"tubemind-be/pkg/llm"
)

const conversationalSystemPrompt = `You are a friendly assistant for a video learning app.
Keep replies short and warm. If the user asks about video content, invite them
to ask about the video directly instead of guessing.`

// ConversationalAgent handles small talk without touching retrieval or the web.
type ConversationalAgent struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

var _ Node = &ConversationalAgent{}

func NewConversationalAgent(provider llm.LLMProvider, logger *log.Logger) *ConversationalAgent {
	return &ConversationalAgent{provider: provider, logger: logger}
}

func (a *ConversationalAgent) Name() string {
	return "chat_agent"
}

func (a *ConversationalAgent) Run(ctx context.Context, s State) (State, error) {
	messages := []llm.Message{{Role: llm.RoleSystem, Content: conversationalSystemPrompt}}
	messages = append(messages, s.RecentHistory(5)...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: s.Query})

	answer, err := a.provider.Chat(ctx, messages)
	if err != nil {
		return s, fmt.Errorf("failed to generate conversational answer: %w", err)
	}

	s.Answer = answer
	s.Metadata = map[string]interface{}{
		"score":  float64(100),
		"reason": "General Conversation",
	}
	return s.WithReasoning("Generating a friendly response."), nil
}
