package agent

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/hupe1980/agentharness/core"
	"github.com/hupe1980/agentharness/tool"
)

// MockAgent for testing composite agents
type MockAgent struct {
	mock.Mock
	name string
}

func NewMockAgent(name string) *MockAgent {
	return &MockAgent{name: name}
}

func (m *MockAgent) Name() string { return m.name }

func (m *MockAgent) Description() string { return "mock " + m.name }

func (m *MockAgent) Run(rc *core.RunContext) error {
	args := m.Called(rc)
	return args.Error(0)
}

// stubDispatcher returns canned envelopes and records payloads.
type stubDispatcher struct {
	mu       sync.Mutex
	results  map[string]tool.Envelope
	payloads map[string]tool.Payload
}

func newStubDispatcher(results map[string]tool.Envelope) *stubDispatcher {
	return &stubDispatcher{results: results, payloads: map[string]tool.Payload{}}
}

func (d *stubDispatcher) Dispatch(_ context.Context, name string, payload tool.Payload) tool.Envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.payloads[name] = payload
	env, ok := d.results[name]
	if !ok {
		env = tool.Failure(map[string]any{"error": tool.UnknownToolMessage}, "")
	}
	env.Tool = name
	return env
}

func newRunContext(d core.Dispatcher, optFns ...func(o *core.RunContextOptions)) *core.RunContext {
	return core.NewRunContext(context.Background(), d, optFns...)
}
