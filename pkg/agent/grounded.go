package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"tubemind-be/pkg/llm"
	"tubemind-be/pkg/search"
)

// augmentationKeywords trigger an external web lookup on top of the video
// context when they appear in the user's message.
var augmentationKeywords = []string{
	"other sources",
	"external links",
	"more info",
	"search web",
	"find articles",
}

const groundedSystemPrompt = `You are a helpful tutor answering questions about a video.

VIDEO CONTEXT:
%s

EXTERNAL WEB RESULTS:
%s

Rules:
1. Ground your answer in the VIDEO CONTEXT and cite timestamps like [MM:SS] where relevant.
2. If EXTERNAL WEB RESULTS are present, append an "External Resources" section listing them.
3. If the context does not cover the question, say so plainly instead of inventing details.`

const judgePrompt = `Rate how well the answer below is supported by the provided context.

CONTEXT:
%s

ANSWER:
%s

Respond with JSON: {"thought": "<one sentence>", "score": <0-100>}`

type judgeVerdict struct {
	Thought string  `json:"thought"`
	Score   float64 `json:"score"`
}

// GroundedAgent answers from retrieved video passages, optionally augmented
// with a small web lookup, then self-scores the answer with a judge pass.
// The judge is observational: its failures never fail the run.
type GroundedAgent struct {
	provider llm.LLMProvider
	searcher search.WebSearcher
	logger   *log.Logger
}

var _ Node = &GroundedAgent{}

func NewGroundedAgent(provider llm.LLMProvider, searcher search.WebSearcher, logger *log.Logger) *GroundedAgent {
	return &GroundedAgent{provider: provider, searcher: searcher, logger: logger}
}

func (a *GroundedAgent) Name() string {
	return "video_agent"
}

func (a *GroundedAgent) Run(ctx context.Context, s State) (State, error) {
	externalResults := ""
	augmented := false
	if wantsExternalSources(s.Query) {
		externalResults = a.fetchExternal(ctx, s.Query)
		augmented = externalResults != ""
	}

	videoContext := s.Context
	if videoContext == "" {
		videoContext = "(no transcript passages were retrieved for this question)"
	}
	if externalResults == "" {
		externalResults = "(none)"
	}

	messages := []llm.Message{{Role: llm.RoleSystem, Content: fmt.Sprintf(groundedSystemPrompt, videoContext, externalResults)}}
	messages = append(messages, s.RecentHistory(5)...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: s.Query})

	answer, err := a.provider.Chat(ctx, messages)
	if err != nil {
		return s, fmt.Errorf("failed to generate grounded answer: %w", err)
	}

	score, thought := a.judge(ctx, s.Context, answer)

	s.Answer = answer
	s.Metadata = map[string]interface{}{
		"score":     score,
		"reason":    "Hybrid RAG Execution",
		"judge":     thought,
		"augmented": augmented,
	}

	line := fmt.Sprintf("Judge: %s", thought)
	if augmented {
		line = "Fetched external sources. " + line
	}
	return s.WithReasoning(line), nil
}

// fetchExternal extracts a search topic from the query and returns up to two
// results as markdown bullets. Any failure degrades to an empty string.
func (a *GroundedAgent) fetchExternal(ctx context.Context, query string) string {
	topic, err := a.provider.Generate(ctx,
		fmt.Sprintf("Extract the main search topic from this request as 2-5 plain words, nothing else: %s", query),
		llm.WithTemperature(0))
	if err != nil {
		a.logger.Printf("video_agent: topic extraction failed: %v", err)
		return ""
	}

	results, err := a.searcher.Search(ctx, strings.TrimSpace(topic), 2)
	if err != nil {
		a.logger.Printf("video_agent: external search failed: %v", err)
		return ""
	}

	var sb strings.Builder
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("- [%s](%s)\n", r.Title, r.URL))
	}
	return sb.String()
}

// judge scores the answer against the context. Evaluation errors collapse to
// a zero score with a fixed explanation.
func (a *GroundedAgent) judge(ctx context.Context, groundingContext, answer string) (float64, string) {
	raw, err := a.provider.Generate(ctx,
		fmt.Sprintf(judgePrompt, groundingContext, answer),
		llm.WithTemperature(0), llm.WithJSONMode())
	if err != nil {
		a.logger.Printf("video_agent: judge generation failed: %v", err)
		return 0, "Evaluation error."
	}

	var verdict judgeVerdict
	if err := decodeStrict(raw, &verdict); err != nil {
		a.logger.Printf("video_agent: judge verdict undecodable: %v", err)
		return 0, "Evaluation error."
	}
	return verdict.Score, verdict.Thought
}

func wantsExternalSources(query string) bool {
	lower := strings.ToLower(query)
	for _, keyword := range augmentationKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
