package core

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/hupe1980/agentharness/logging"
	"github.com/hupe1980/agentharness/tool"
)

// ErrNoDispatcher is returned when a run context has no dispatcher configured.
var ErrNoDispatcher = errors.New("dispatcher not configured")

// RunContext carries execution state & helpers for a pipeline run.
// It aggregates:
//   - The ambient cancellation Context
//   - The RunID and the currently executing agent
//   - The tool Dispatcher and its per-run CallLimiter
//   - An optional SessionLog
//   - Shared key/value state written by agents
//
// State access is safe for concurrent use. Child contexts created with
// WithAgent share state, limiter and dispatcher with their parent.
type RunContext struct {
	Context    context.Context
	RunID      string
	Agent      AgentInfo
	Dispatcher Dispatcher
	Limiter    *CallLimiter
	Log        SessionLog

	state  *runState
	logger logging.Logger
}

type runState struct {
	mu     sync.RWMutex
	values map[string]any
}

// RunContextOptions configures NewRunContext.
type RunContextOptions struct {
	// RunID overrides the generated identifier.
	RunID string
	// MaxToolCalls caps tool dispatches per run (0 = unlimited).
	MaxToolCalls int
	// InitialState seeds the shared state.
	InitialState map[string]any
	// Log receives free-text run events.
	Log SessionLog
	// Logger receives structured diagnostics.
	Logger logging.Logger
}

// NewRunContext constructs a RunContext with a fresh run ID and empty state.
func NewRunContext(ctx context.Context, dispatcher Dispatcher, optFns ...func(o *RunContextOptions)) *RunContext {
	opts := RunContextOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	st := &runState{values: map[string]any{}}
	maps.Copy(st.values, opts.InitialState)

	return &RunContext{
		Context:    ctx,
		RunID:      runID,
		Dispatcher: dispatcher,
		Limiter:    NewCallLimiter(opts.MaxToolCalls),
		Log:        opts.Log,
		state:      st,
		logger:     logger,
	}
}

// Logger returns the run's structured logger (never nil).
func (rc *RunContext) Logger() logging.Logger { return rc.logger }

// LogDebug logs a debug message tagged with the run ID and current agent.
func (rc *RunContext) LogDebug(msg string, args ...any) {
	rc.logger.Debug(msg, append([]any{"run_id", rc.RunID, "current_agent", rc.Agent.Name}, args...)...)
}

// Done returns a channel closed when the underlying context is cancelled.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (rc *RunContext) Err() error { return rc.Context.Err() }

// GetState returns the value stored under k.
func (rc *RunContext) GetState(k string) (any, bool) {
	rc.state.mu.RLock()
	defer rc.state.mu.RUnlock()

	v, ok := rc.state.values[k]
	return v, ok
}

// SetState stores v under k.
func (rc *RunContext) SetState(k string, v any) {
	rc.state.mu.Lock()
	defer rc.state.mu.Unlock()

	rc.state.values[k] = v
}

// ApplyStateDelta merges all pairs from d into the shared state.
func (rc *RunContext) ApplyStateDelta(d map[string]any) {
	rc.state.mu.Lock()
	defer rc.state.mu.Unlock()

	maps.Copy(rc.state.values, d)
}

// State returns a snapshot copy of the shared state.
func (rc *RunContext) State() map[string]any {
	rc.state.mu.RLock()
	defer rc.state.mu.RUnlock()

	out := make(map[string]any, len(rc.state.values))
	maps.Copy(out, rc.state.values)
	return out
}

// Dispatch invokes a tool through the configured Dispatcher after charging
// the call limiter. Tool failures are reported in the envelope; the error is
// reserved for orchestration failures (no dispatcher, limit exceeded,
// cancelled run).
func (rc *RunContext) Dispatch(name string, payload tool.Payload) (tool.Envelope, error) {
	if rc.Dispatcher == nil {
		return tool.Envelope{}, ErrNoDispatcher
	}

	if err := rc.Err(); err != nil {
		return tool.Envelope{}, err
	}

	if err := rc.Limiter.Increment(); err != nil {
		return tool.Envelope{}, fmt.Errorf("dispatch %s: %w", name, err)
	}

	return rc.Dispatcher.Dispatch(rc.Context, name, payload), nil
}

// AppendLog writes line to the session log when one is configured.
func (rc *RunContext) AppendLog(line string) error {
	if rc.Log == nil {
		return nil
	}
	return rc.Log.Append(line)
}

// GetAgentName returns the logical agent name for this invocation.
func (rc *RunContext) GetAgentName() string { return rc.Agent.Name }

// WithAgent returns a child context for agent a. The child shares state,
// limiter, dispatcher and log with rc.
func (rc *RunContext) WithAgent(a AgentInfo) *RunContext {
	c := *rc
	c.Agent = a
	return &c
}
