package agent

import "tubemind-be/pkg/llm"

// Route is the agent-selection decision made once per query.
type Route string

const (
	RouteVideoGrounded  Route = "VIDEO_GROUNDED"
	RouteWebSearch      Route = "WEB_SEARCH"
	RouteConversational Route = "CONVERSATIONAL"
)

// State carries one query through the orchestration graph. Nodes receive a
// State by value and return a new one; nothing is merged behind the caller's
// back, so two nodes can never collide on a key.
type State struct {
	Query   string
	Context string // Retrieved video passages, empty when no grounding exists
	History []llm.Message

	Route       Route  // Set once by the router, immutable afterwards
	Answer      string // Empty until an agent node sets it
	Reasoning   string // Single trace line for the node that just ran
	Suggestions []string
	Metadata    map[string]interface{}
}

// WithReasoning returns a copy of the state with the per-node trace line set.
func (s State) WithReasoning(line string) State {
	s.Reasoning = line
	return s
}

// RecentHistory returns the last n messages, most recent last.
func (s State) RecentHistory(n int) []llm.Message {
	if len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}
