package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"tubemind-be/pkg/llm"
	"tubemind-be/pkg/search"
)

// NoSourcesMarker is the evidence text handed to generation when every
// external lookup comes back empty. The model is told outright that nothing
// was found instead of being fed an empty block.
const NoSourcesMarker = "No sources found."

const webAnswerPrompt = `Answer the user's question using only the sources below.
Cite sources as [Title](URL) where available and keep the answer concise.
If the sources say nothing was found, say so plainly.

SOURCES:
%s

QUESTION: %s`

// WebSearchAgent answers from live web sources: a planned DuckDuckGo query,
// with a Wikipedia summary as the fallback when the search yields nothing.
type WebSearchAgent struct {
	provider   llm.LLMProvider
	searcher   search.WebSearcher
	summarizer search.Summarizer
	logger     *log.Logger
}

var _ Node = &WebSearchAgent{}

func NewWebSearchAgent(provider llm.LLMProvider, searcher search.WebSearcher, summarizer search.Summarizer, logger *log.Logger) *WebSearchAgent {
	return &WebSearchAgent{provider: provider, searcher: searcher, summarizer: summarizer, logger: logger}
}

func (a *WebSearchAgent) Name() string {
	return "search_agent"
}

func (a *WebSearchAgent) Run(ctx context.Context, s State) (State, error) {
	query := a.planQuery(ctx, s.Query)
	evidence, sourceCount := a.gatherEvidence(ctx, query)

	answer, err := a.provider.Generate(ctx, fmt.Sprintf(webAnswerPrompt, evidence, s.Query))
	if err != nil {
		return s, fmt.Errorf("failed to synthesize web answer: %w", err)
	}

	s.Answer = answer
	s.Metadata = map[string]interface{}{
		"score":  float64(100),
		"reason": "External Web Source",
	}

	if sourceCount == 0 {
		return s.WithReasoning(fmt.Sprintf("Searched the web for '%s' but found no sources.", query)), nil
	}
	return s.WithReasoning(fmt.Sprintf("Searched the web for '%s' and synthesized %d sources.", query, sourceCount)), nil
}

// gatherEvidence runs the primary search, falls back to the encyclopedic
// summary when it yields nothing, and collapses to the no-sources marker
// when both come back empty. Generation always proceeds with whatever this
// returns.
func (a *WebSearchAgent) gatherEvidence(ctx context.Context, query string) (string, int) {
	results, err := a.searcher.Search(ctx, query, 3)
	if err != nil {
		a.logger.Printf("search_agent: web search failed: %v", err)
	}
	if len(results) > 0 {
		lines := make([]string, len(results))
		for i, r := range results {
			lines[i] = fmt.Sprintf("%s: %s (%s)", r.Title, r.Snippet, r.URL)
		}
		return strings.Join(lines, "\n"), len(results)
	}

	summary, err := a.summarizer.Summarize(ctx, query, 3)
	if err != nil {
		a.logger.Printf("search_agent: wikipedia fallback failed: %v", err)
	} else if summary != "" {
		return fmt.Sprintf("Wikipedia: %s", summary), 1
	}

	return NoSourcesMarker, 0
}

// planQuery rewrites the user message into a short search query. Planning
// failures fall back to the raw message.
func (a *WebSearchAgent) planQuery(ctx context.Context, message string) string {
	planned, err := a.provider.Generate(ctx,
		fmt.Sprintf("Rewrite this request as a short web search query, output the query only: %s", message),
		llm.WithTemperature(0))
	if err != nil {
		a.logger.Printf("search_agent: query planning failed, using raw message: %v", err)
		return message
	}
	planned = strings.Trim(strings.TrimSpace(planned), `"`)
	if planned == "" {
		return message
	}
	return planned
}
