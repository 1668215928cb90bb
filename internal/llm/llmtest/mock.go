// Package llmtest provides a scriptable llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/jonathan/team-interview/internal/llm"
)

// Call is one recorded generation request
type Call struct {
	Prompt string
	Tier   llm.ModelTier
	JSON   bool
}

// MockClient implements llm.Client for testing. Nil funcs return empty
// text for GenerateContent and "{}" for GenerateJSON.
type MockClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	CloseFunc           func() error

	mu    sync.Mutex
	calls []Call
}

func (m *MockClient) record(prompt string, tier llm.ModelTier, json bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Prompt: prompt, Tier: tier, JSON: json})
}

// GenerateContent records the call and delegates to GenerateContentFunc
func (m *MockClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.record(prompt, tier, false)
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return "", nil
}

// GenerateJSON records the call and delegates to GenerateJSONFunc
func (m *MockClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.record(prompt, tier, true)
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "{}", nil
}

// GetModel returns a fixed model name
func (m *MockClient) GetModel(llm.ModelTier) string {
	return "mock-model"
}

// Close delegates to CloseFunc
func (m *MockClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Calls returns a copy of the recorded requests
func (m *MockClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Script returns a generator func that replies with responses in order,
// repeating the last one once exhausted.
func Script(responses ...string) func(context.Context, string, llm.ModelTier) (string, error) {
	var mu sync.Mutex
	next := 0
	return func(context.Context, string, llm.ModelTier) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(responses) == 0 {
			return "", nil
		}
		r := responses[min(next, len(responses)-1)]
		next++
		return r, nil
	}
}
