package agent

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSuggestionNode(t *testing.T) {
	t.Run("caps suggestions at three", func(t *testing.T) {
		provider := &fakeProvider{
			generateFn: func(string) (string, error) {
				return `{"questions": ["a?", "b?", "c?", "d?", "e?"]}`, nil
			},
		}
		n := NewSuggestionNode(provider, quietLogger())

		out, err := n.Run(context.Background(), State{Answer: "some answer"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := []string{"a?", "b?", "c?"}; !reflect.DeepEqual(out.Suggestions, want) {
			t.Errorf("Suggestions = %v, want %v", out.Suggestions, want)
		}
	})

	t.Run("generation failure yields empty suggestions", func(t *testing.T) {
		provider := &fakeProvider{
			generateFn: func(string) (string, error) { return "", errors.New("down") },
		}
		n := NewSuggestionNode(provider, quietLogger())

		out, err := n.Run(context.Background(), State{Answer: "some answer"})
		if err != nil {
			t.Fatalf("suggester must never fail the run: %v", err)
		}
		if len(out.Suggestions) != 0 {
			t.Errorf("Suggestions = %v, want empty", out.Suggestions)
		}
	})

	t.Run("undecodable payload yields empty suggestions", func(t *testing.T) {
		provider := &fakeProvider{
			generateFn: func(string) (string, error) { return "how about asking more?", nil },
		}
		n := NewSuggestionNode(provider, quietLogger())

		out, err := n.Run(context.Background(), State{Answer: "some answer"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Suggestions) != 0 {
			t.Errorf("Suggestions = %v, want empty", out.Suggestions)
		}
	})

	t.Run("skips empty answers", func(t *testing.T) {
		called := false
		provider := &fakeProvider{
			generateFn: func(string) (string, error) {
				called = true
				return `{"questions": ["a?"]}`, nil
			},
		}
		n := NewSuggestionNode(provider, quietLogger())

		out, err := n.Run(context.Background(), State{Answer: ""})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if called {
			t.Error("empty answers should not reach the model")
		}
		if len(out.Suggestions) != 0 {
			t.Errorf("Suggestions = %v, want empty", out.Suggestions)
		}
	})

	t.Run("long answers are truncated in the prompt", func(t *testing.T) {
		long := make([]byte, answerExcerptLimit*2)
		for i := range long {
			long[i] = 'x'
		}
		provider := &fakeProvider{
			generateFn: func(prompt string) (string, error) {
				if len(prompt) > answerExcerptLimit+200 {
					t.Errorf("prompt length %d, excerpt not truncated", len(prompt))
				}
				return `{"questions": ["a?"]}`, nil
			},
		}
		n := NewSuggestionNode(provider, quietLogger())
		if _, err := n.Run(context.Background(), State{Answer: string(long)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("truncation lands on a rune boundary", func(t *testing.T) {
		// Place a multi-byte rune straddling the excerpt limit.
		answer := strings.Repeat("a", answerExcerptLimit-1) + strings.Repeat("世", 10)

		var prompt string
		provider := &fakeProvider{
			generateFn: func(p string) (string, error) {
				prompt = p
				return `{"questions": ["a?"]}`, nil
			},
		}
		n := NewSuggestionNode(provider, quietLogger())
		if _, err := n.Run(context.Background(), State{Answer: answer}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !utf8.ValidString(prompt) {
			t.Error("prompt contains a split rune")
		}
	})
}
