package agent

import (
	"context"
	"fmt"
	"log"
	"unicode/utf8"

	"tubemind-be/pkg/llm"
)

const suggestionPrompt = `Based on the assistant's answer below, propose up to 3 short follow-up
questions the user might ask next.

ANSWER:
%s

Respond with JSON: {"questions": ["...", "..."]}`

// answerExcerptLimit bounds how much of the answer the suggestion prompt
// carries. Long answers add cost without improving the follow-ups.
const answerExcerptLimit = 1000

const maxSuggestions = 3

type suggestionPayload struct {
	Questions []string `json:"questions"`
}

// SuggestionNode proposes follow-up questions from the final answer. It is
// best-effort: every failure collapses to an empty suggestion list.
type SuggestionNode struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

var _ Node = &SuggestionNode{}

func NewSuggestionNode(provider llm.LLMProvider, logger *log.Logger) *SuggestionNode {
	return &SuggestionNode{provider: provider, logger: logger}
}

func (n *SuggestionNode) Name() string {
	return "suggestion_engine"
}

func (n *SuggestionNode) Run(ctx context.Context, s State) (State, error) {
	if s.Answer == "" {
		s.Suggestions = []string{}
		return s, nil
	}

	excerpt := s.Answer
	if len(excerpt) > answerExcerptLimit {
		cut := answerExcerptLimit
		// Back up to a rune boundary so the excerpt stays valid UTF-8.
		for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
			cut--
		}
		excerpt = excerpt[:cut]
	}

	raw, err := n.provider.Generate(ctx, fmt.Sprintf(suggestionPrompt, excerpt), llm.WithJSONMode())
	if err != nil {
		n.logger.Printf("suggestion_engine: generation failed: %v", err)
		s.Suggestions = []string{}
		return s, nil
	}

	var payload suggestionPayload
	if err := decodeStrict(raw, &payload); err != nil {
		n.logger.Printf("suggestion_engine: payload undecodable: %v", err)
		s.Suggestions = []string{}
		return s, nil
	}

	if len(payload.Questions) > maxSuggestions {
		payload.Questions = payload.Questions[:maxSuggestions]
	}
	s.Suggestions = payload.Questions
	return s, nil
}
