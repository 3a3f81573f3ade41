package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type scriptedNode struct {
	name   string
	route  Route
	answer string
	line   string
	err    error
}

func (n *scriptedNode) Name() string { return n.name }

func (n *scriptedNode) Run(ctx context.Context, s State) (State, error) {
	if n.err != nil {
		return s, n.err
	}
	if n.route != "" {
		s.Route = n.route
	}
	if n.answer != "" {
		s.Answer = n.answer
	}
	return s.WithReasoning(n.line), nil
}

func newTestGraph(router, grounded, webSearch, conversational, suggester Node) *Graph {
	return NewGraph(router, grounded, webSearch, conversational, suggester, quietLogger())
}

func TestGraphRunsRouterThenAgentThenSuggester(t *testing.T) {
	router := &scriptedNode{name: "orchestrator", route: RouteWebSearch, line: "needs the web"}
	grounded := &scriptedNode{name: "video_agent", answer: "grounded", line: "grounded ran"}
	webSearch := &scriptedNode{name: "search_agent", answer: "from the web", line: "searched"}
	conversational := &scriptedNode{name: "chat_agent", answer: "hi", line: "chatted"}
	suggester := &scriptedNode{name: "suggestion_engine"}

	var trace []string
	final, err := newTestGraph(router, grounded, webSearch, conversational, suggester).
		Run(context.Background(), State{Query: "q"}, func(node, line string) {
			trace = append(trace, line)
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if final.Answer != "from the web" {
		t.Errorf("Answer = %q, routed to wrong agent", final.Answer)
	}
	if len(trace) != 2 {
		t.Fatalf("trace = %v, want router line then agent line", trace)
	}
	if !strings.HasPrefix(trace[0], "ORCHESTRATOR: ") {
		t.Errorf("first trace line = %q, want orchestrator prefix", trace[0])
	}
	if !strings.HasPrefix(trace[1], "SEARCH_AGENT: ") {
		t.Errorf("second trace line = %q, want agent prefix", trace[1])
	}
}

func TestGraphAgentFailureStopsRun(t *testing.T) {
	router := &scriptedNode{name: "orchestrator", route: RouteVideoGrounded, line: "video question"}
	grounded := &scriptedNode{name: "video_agent", err: errors.New("llm timeout")}
	suggester := &scriptedNode{name: "suggestion_engine"}

	_, err := newTestGraph(router, grounded, &scriptedNode{name: "search_agent"}, &scriptedNode{name: "chat_agent"}, suggester).
		Run(context.Background(), State{Query: "q"}, nil)
	if err == nil {
		t.Fatal("expected agent failure to surface")
	}
	if !strings.Contains(err.Error(), "video_agent") {
		t.Errorf("error should name the failing node, got: %v", err)
	}
}

func TestGraphSuggesterSilenceKeepsTraceClean(t *testing.T) {
	router := &scriptedNode{name: "orchestrator", route: RouteConversational, line: "small talk"}
	conversational := &scriptedNode{name: "chat_agent", answer: "hello!", line: "friendly reply"}
	suggester := &scriptedNode{name: "suggestion_engine"} // no reasoning line

	var trace []string
	final, err := newTestGraph(router, &scriptedNode{name: "video_agent"}, &scriptedNode{name: "search_agent"}, conversational, suggester).
		Run(context.Background(), State{Query: "hi"}, func(node, line string) {
			trace = append(trace, node)
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if final.Answer != "hello!" {
		t.Errorf("Answer = %q", final.Answer)
	}
	for _, node := range trace {
		if node == "suggestion_engine" {
			t.Error("suggester emitted a trace line despite empty reasoning")
		}
	}
}
