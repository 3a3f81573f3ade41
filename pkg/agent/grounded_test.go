package agent

import (
	"context"
	"strings"
	"testing"

	"tubemind-be/pkg/llm"
	"tubemind-be/pkg/search"
)

func TestWantsExternalSources(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"can you find articles about this?", true},
		{"show me OTHER SOURCES please", true},
		{"I'd like more info on recursion", true},
		{"search web for benchmarks", true},
		{"any external links?", true},
		{"what does the speaker mean at 03:14?", false},
		{"summarize the video", false},
	}

	for _, tt := range tests {
		if got := wantsExternalSources(tt.query); got != tt.want {
			t.Errorf("wantsExternalSources(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestGroundedAgentJudgeFailureScoresZero(t *testing.T) {
	provider := &fakeProvider{
		chatFn: func([]llm.Message) (string, error) {
			return "The speaker covers goroutines at [02:10].", nil
		},
		generateFn: func(prompt string) (string, error) {
			// Judge pass returns prose the decoder cannot parse.
			return "this looks fine to me", nil
		},
	}
	a := NewGroundedAgent(provider, &fakeSearcher{}, quietLogger())

	out, err := a.Run(context.Background(), State{
		Query:   "what are goroutines?",
		Context: "[02:10] goroutines are lightweight threads",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Answer == "" {
		t.Fatal("answer should survive a judge failure")
	}
	if score, ok := out.Metadata["score"].(float64); !ok || score != 0 {
		t.Errorf("score = %v, want 0 on judge failure", out.Metadata["score"])
	}
	if judge, _ := out.Metadata["judge"].(string); judge != "Evaluation error." {
		t.Errorf("judge = %q, want fixed evaluation error message", judge)
	}
}

func TestGroundedAgentAugmentsOnKeyword(t *testing.T) {
	searcher := &fakeSearcher{
		results: []search.Result{
			{Title: "Go Blog", Snippet: "concurrency", URL: "https://go.dev/blog"},
		},
	}
	provider := &fakeProvider{
		chatFn: func(history []llm.Message) (string, error) {
			// System prompt must carry the fetched link.
			if !strings.Contains(history[0].Content, "go.dev/blog") {
				t.Error("system prompt missing external results")
			}
			return "answer with resources", nil
		},
		generateFn: func(prompt string) (string, error) {
			if strings.Contains(prompt, "Extract the main search topic") {
				return "go concurrency", nil
			}
			return `{"thought": "well grounded", "score": 90}`, nil
		},
	}
	a := NewGroundedAgent(provider, searcher, quietLogger())

	out, err := a.Run(context.Background(), State{
		Query:   "find articles about this topic",
		Context: "[00:30] concurrency basics",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if augmented, _ := out.Metadata["augmented"].(bool); !augmented {
		t.Error("metadata should mark the turn as augmented")
	}
	if len(searcher.queries) != 1 || searcher.queries[0] != "go concurrency" {
		t.Errorf("searcher queries = %v, want extracted topic", searcher.queries)
	}
	if score, _ := out.Metadata["score"].(float64); score != 90 {
		t.Errorf("score = %v, want judge's 90", out.Metadata["score"])
	}
}

func TestGroundedAgentSearchFailureDegradesSilently(t *testing.T) {
	provider := &fakeProvider{
		chatFn: func([]llm.Message) (string, error) { return "plain answer", nil },
		generateFn: func(prompt string) (string, error) {
			if strings.Contains(prompt, "Extract the main search topic") {
				return "topic", nil
			}
			return `{"thought": "ok", "score": 70}`, nil
		},
	}
	a := NewGroundedAgent(provider, &fakeSearcher{err: context.DeadlineExceeded}, quietLogger())

	out, err := a.Run(context.Background(), State{Query: "more info please", Context: "[00:01] intro"})
	if err != nil {
		t.Fatalf("search failure must not fail the turn: %v", err)
	}
	if augmented, _ := out.Metadata["augmented"].(bool); augmented {
		t.Error("failed search must not claim augmentation")
	}
}
