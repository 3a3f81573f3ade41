package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCoerceRoute(t *testing.T) {
	tests := []struct {
		name     string
		decision string
		want     Route
	}{
		{name: "exact video", decision: "VIDEO_GROUNDED", want: RouteVideoGrounded},
		{name: "exact search", decision: "WEB_SEARCH", want: RouteWebSearch},
		{name: "exact chat", decision: "CONVERSATIONAL", want: RouteConversational},
		{name: "lowercase search", decision: "web_search", want: RouteWebSearch},
		{name: "verbose search", decision: "I think WEB_SEARCH fits best", want: RouteWebSearch},
		{name: "chat synonym", decision: "just chat", want: RouteConversational},
		{name: "garbage defaults to video", decision: "UNKNOWN_ROUTE", want: RouteVideoGrounded},
		{name: "empty defaults to video", decision: "", want: RouteVideoGrounded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coerceRoute(tt.decision); got != tt.want {
				t.Errorf("coerceRoute(%q) = %q, want %q", tt.decision, got, tt.want)
			}
		})
	}
}

func TestRouterNode(t *testing.T) {
	t.Run("valid decision sets route and reasoning", func(t *testing.T) {
		provider := &fakeProvider{
			generateFn: func(string) (string, error) {
				return `{"thought": "User asks for current news.", "decision": "WEB_SEARCH"}`, nil
			},
		}
		node := NewRouterNode(provider, quietLogger())

		out, err := node.Run(context.Background(), State{Query: "latest news about Go releases"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Route != RouteWebSearch {
			t.Errorf("Route = %q, want %q", out.Route, RouteWebSearch)
		}
		if out.Reasoning != "User asks for current news." {
			t.Errorf("Reasoning = %q", out.Reasoning)
		}
	})

	t.Run("prompt carries the decision policy", func(t *testing.T) {
		var prompt string
		provider := &fakeProvider{
			generateFn: func(p string) (string, error) {
				prompt = p
				return `{"thought": "ok", "decision": "VIDEO_GROUNDED"}`, nil
			},
		}
		node := NewRouterNode(provider, quietLogger())

		if _, err := node.Run(context.Background(), State{Query: "summarize the video and find related articles"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, rule := range []string{
			`"this video"`,
			"never WEB_SEARCH",
			"compound request",
			"prefer VIDEO_GROUNDED",
		} {
			if !strings.Contains(prompt, rule) {
				t.Errorf("router prompt missing the %q rule", rule)
			}
		}
	})

	t.Run("provider failure falls back to video grounding", func(t *testing.T) {
		provider := &fakeProvider{
			generateFn: func(string) (string, error) {
				return "", errors.New("backend down")
			},
		}
		node := NewRouterNode(provider, quietLogger())

		out, err := node.Run(context.Background(), State{Query: "what does the speaker say?"})
		if err != nil {
			t.Fatalf("router must never fail the run, got: %v", err)
		}
		if out.Route != RouteVideoGrounded {
			t.Errorf("Route = %q, want fallback %q", out.Route, RouteVideoGrounded)
		}
	})

	t.Run("undecodable output falls back to video grounding", func(t *testing.T) {
		provider := &fakeProvider{
			generateFn: func(string) (string, error) {
				return "sure, I'd route this to the video agent", nil
			},
		}
		node := NewRouterNode(provider, quietLogger())

		out, err := node.Run(context.Background(), State{Query: "hello"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Route != RouteVideoGrounded {
			t.Errorf("Route = %q, want fallback %q", out.Route, RouteVideoGrounded)
		}
	})
}
