package inference

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/microsoft/modelbench/internal/models"
)

// ResponderFunc produces the response of a MockClient call.
type ResponderFunc func(modelID string, messages []Message, params Parameters) (*Response, error)

// Call records one MockClient invocation.
type Call struct {
	ModelID  string
	Messages []Message
	Params   Parameters
}

// MockClient is a synchronous in-process Client for tests and dry runs.
type MockClient struct {
	mu        sync.Mutex
	responder ResponderFunc
	failures  map[string]map[int]error
	counts    map[string]int
	calls     []Call
}

// NewMockClient creates a client that echoes the last message.
func NewMockClient() *MockClient {
	return &MockClient{
		responder: echoResponder,
		failures:  make(map[string]map[int]error),
		counts:    make(map[string]int),
	}
}

// WithResponder replaces the default echo behaviour.
func (m *MockClient) WithResponder(fn ResponderFunc) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responder = fn
	return m
}

// FailOn makes the n-th (1-based) call to modelID return err.
func (m *MockClient) FailOn(modelID string, n int, err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures[modelID] == nil {
		m.failures[modelID] = make(map[int]error)
	}
	m.failures[modelID][n] = err
	return m
}

// Calls returns a copy of all recorded invocations.
func (m *MockClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Invoke implements Client.
func (m *MockClient) Invoke(ctx context.Context, modelID string, messages []Message, params Parameters) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.counts[modelID]++
	n := m.counts[modelID]
	m.calls = append(m.calls, Call{ModelID: modelID, Messages: messages, Params: params})
	failErr := m.failures[modelID][n]
	responder := m.responder
	m.mu.Unlock()

	if failErr != nil {
		return nil, failErr
	}
	return responder(modelID, messages, params)
}

func echoResponder(modelID string, messages []Message, params Parameters) (*Response, error) {
	prompt := ""
	if len(messages) > 0 {
		prompt = messages[len(messages)-1].Content
	}
	text := fmt.Sprintf("Mock response for: %s", prompt)
	in := len(strings.Fields(prompt))
	out := len(strings.Fields(text))
	if params.MaxTokens > 0 && out > params.MaxTokens {
		out = params.MaxTokens
	}
	return &Response{
		Text:  text,
		Usage: models.TokenCounts{Input: in, Output: out, Total: in + out},
	}, nil
}

var _ Client = (*MockClient)(nil)
