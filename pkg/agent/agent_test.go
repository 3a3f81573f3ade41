package agent

import (
	"context"
	"errors"
	"io"
	"log"

	"tubemind-be/pkg/llm"
	"tubemind-be/pkg/search"
)

// fakeProvider scripts LLM responses per call.
type fakeProvider struct {
	generateFn func(prompt string) (string, error)
	chatFn     func(history []llm.Message) (string, error)
}

var _ llm.LLMProvider = &fakeProvider{}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if f.generateFn == nil {
		return "", errors.New("generate not scripted")
	}
	return f.generateFn(prompt)
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if f.chatFn == nil {
		return "", errors.New("chat not scripted")
	}
	return f.chatFn(history)
}

type fakeSearcher struct {
	results []search.Result
	err     error
	queries []string
}

var _ search.WebSearcher = &fakeSearcher{}

func (f *fakeSearcher) Search(ctx context.Context, query string, maxResults int) ([]search.Result, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) > maxResults {
		return f.results[:maxResults], nil
	}
	return f.results, nil
}

type fakeSummarizer struct {
	summary string
	err     error
	calls   int
}

var _ search.Summarizer = &fakeSummarizer{}

func (f *fakeSummarizer) Summarize(ctx context.Context, topic string, sentences int) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
