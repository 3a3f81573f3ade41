package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"tubemind-be/pkg/llm"
)

const routerPrompt = `You are the orchestrator of a video learning assistant.
Classify the user's latest message into exactly one route:

- VIDEO_GROUNDED: the question is about the video's content, or is ambiguous.
- WEB_SEARCH: the user explicitly asks for external, current, or web information.
- CONVERSATIONAL: greetings, thanks, small talk, or questions about the assistant itself.

Rules:
1. Any message mentioning "this video", a summary, or the transcript is VIDEO_GROUNDED, never WEB_SEARCH.
2. A compound request mixing video content with outside information (e.g. "summarize the video and find related articles") is VIDEO_GROUNDED; that agent handles the outside part itself.
3. Pick WEB_SEARCH only when the message has no plausible connection to the video, such as current events or unrelated general knowledge.
4. When in doubt, prefer VIDEO_GROUNDED.

Recent conversation:
%s

User message: %s

Respond with JSON: {"thought": "<one sentence>", "decision": "<route>"}`

type routerDecision struct {
	Thought  string `json:"thought"`
	Decision string `json:"decision"`
}

// RouterNode classifies each query into a route. It never fails the
// pipeline: any decode or provider error falls back to VIDEO_GROUNDED.
type RouterNode struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

var _ Node = &RouterNode{}

func NewRouterNode(provider llm.LLMProvider, logger *log.Logger) *RouterNode {
	return &RouterNode{provider: provider, logger: logger}
}

func (r *RouterNode) Name() string {
	return "orchestrator"
}

func (r *RouterNode) Run(ctx context.Context, s State) (State, error) {
	prompt := fmt.Sprintf(routerPrompt, formatHistory(s.RecentHistory(3)), s.Query)

	raw, err := r.provider.Generate(ctx, prompt, llm.WithTemperature(0), llm.WithJSONMode())
	if err != nil {
		r.logger.Printf("router: generation failed, defaulting to video context: %v", err)
		s.Route = RouteVideoGrounded
		return s.WithReasoning("Routing failed, defaulting to video context."), nil
	}

	var decision routerDecision
	if err := decodeStrict(raw, &decision); err != nil {
		r.logger.Printf("router: undecodable decision, defaulting to video context: %v", err)
		s.Route = RouteVideoGrounded
		return s.WithReasoning("Routing failed, defaulting to video context."), nil
	}

	s.Route = coerceRoute(decision.Decision)
	return s.WithReasoning(decision.Thought), nil
}

// coerceRoute maps free-form model output onto a valid route. Anything
// unrecognized lands on VIDEO_GROUNDED.
func coerceRoute(decision string) Route {
	upper := strings.ToUpper(decision)
	switch {
	case strings.Contains(upper, "SEARCH"):
		return RouteWebSearch
	case strings.Contains(upper, "CHAT") || strings.Contains(upper, "CONVERSATION"):
		return RouteConversational
	default:
		return RouteVideoGrounded
	}
}

func formatHistory(history []llm.Message) string {
	if len(history) == 0 {
		return "(no prior messages)"
	}
	var sb strings.Builder
	for _, msg := range history {
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
