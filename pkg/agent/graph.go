package agent

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Node is one step of the orchestration graph. A node transforms the state
// and sets State.Reasoning to a single human-readable trace line.
type Node interface {
	Name() string
	Run(ctx context.Context, s State) (State, error)
}

// TraceFunc receives one trace line per executed node, in execution order.
// It is called synchronously before the next node starts.
type TraceFunc func(node string, line string)

// Graph wires the router, the three answer agents and the suggestion engine
// into a fixed pipeline: route, answer, suggest.
type Graph struct {
	router    Node
	agents    map[Route]Node
	suggester Node
	logger    *log.Logger
}

func NewGraph(router, grounded, webSearch, conversational, suggester Node, logger *log.Logger) *Graph {
	return &Graph{
		router: router,
		agents: map[Route]Node{
			RouteVideoGrounded:  grounded,
			RouteWebSearch:      webSearch,
			RouteConversational: conversational,
		},
		suggester: suggester,
		logger:    logger,
	}
}

// Run drives one query through the graph. Router and suggester failures are
// absorbed by the nodes themselves; only the answer agent can fail the run.
func (g *Graph) Run(ctx context.Context, initial State, trace TraceFunc) (State, error) {
	s, err := g.step(ctx, g.router, initial, trace)
	if err != nil {
		return s, err
	}

	agent, ok := g.agents[s.Route]
	if !ok {
		// coerceRoute only ever yields a known route.
		agent = g.agents[RouteVideoGrounded]
	}

	s, err = g.step(ctx, agent, s, trace)
	if err != nil {
		return s, fmt.Errorf("failed to run %s: %w", agent.Name(), err)
	}

	s, err = g.step(ctx, g.suggester, s, trace)
	if err != nil {
		return s, fmt.Errorf("failed to run %s: %w", g.suggester.Name(), err)
	}

	return s, nil
}

func (g *Graph) step(ctx context.Context, node Node, s State, trace TraceFunc) (State, error) {
	next, err := node.Run(ctx, s)
	if err != nil {
		return s, err
	}
	if next.Reasoning != "" && trace != nil {
		trace(node.Name(), fmt.Sprintf("%s: %s", strings.ToUpper(node.Name()), next.Reasoning))
	}
	return next, nil
}
