package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/hupe1980/agentharness/core"
	"github.com/hupe1980/agentharness/logging"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// MaxConcurrentRuns limits concurrent runs (0 = unlimited).
	MaxConcurrentRuns int
	// MaxToolCalls limits the number of tool calls per run (0 = unlimited).
	MaxToolCalls int
	// Log receives free-text run events.
	Log core.SessionLog
	// Logging services.
	Logger logging.Logger
}

// RunOptions configures a single run.
type RunOptions struct {
	// RunID overrides the generated identifier so callers can Cancel by ID.
	RunID string
	// InitialState seeds the run state.
	InitialState map[string]any
}

// Result is the outcome of a completed run.
type Result struct {
	RunID    string
	State    map[string]any
	Duration time.Duration
}

// Runner coordinates agent execution: creates run contexts, bounds
// concurrency and tracks active runs for cancellation. Public methods are
// safe for concurrent use.
type Runner struct {
	agent      core.Agent
	dispatcher core.Dispatcher

	maxToolCalls int
	sem          *semaphore.Weighted
	log          core.SessionLog
	logger       logging.Logger

	activeRuns map[string]context.CancelFunc
	mu         sync.RWMutex
}

// New constructs a Runner with optional overrides.
func New(agent core.Agent, dispatcher core.Dispatcher, optFns ...func(o *Options)) *Runner {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	r := &Runner{
		agent:        agent,
		dispatcher:   dispatcher,
		maxToolCalls: opts.MaxToolCalls,
		log:          opts.Log,
		logger:       opts.Logger,
		activeRuns:   make(map[string]context.CancelFunc),
	}
	if opts.MaxConcurrentRuns > 0 {
		r.sem = semaphore.NewWeighted(int64(opts.MaxConcurrentRuns))
	}

	return r
}

// Run executes the root agent to completion and returns the final state.
// On failure the partial state is still returned alongside the error.
func (r *Runner) Run(ctx context.Context, optFns ...func(o *RunOptions)) (*Result, error) {
	ropts := RunOptions{}
	for _, fn := range optFns {
		fn(&ropts)
	}

	runID := ropts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	if r.sem != nil {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("failed to acquire run slot: %w", err)
		}
		defer r.sem.Release(1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.mu.Lock()
	if _, exists := r.activeRuns[runID]; exists {
		r.mu.Unlock()
		return nil, fmt.Errorf("run %s already active", runID)
	}
	r.activeRuns[runID] = cancel
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.activeRuns, runID)
		r.mu.Unlock()
	}()

	logger := r.logger
	if hl, ok := logger.(*logging.HarnessLogger); ok {
		logger = hl.WithRun(runID)
	}

	rc := core.NewRunContext(ctx, r.dispatcher, func(o *core.RunContextOptions) {
		o.RunID = runID
		o.MaxToolCalls = r.maxToolCalls
		o.InitialState = ropts.InitialState
		o.Log = r.log
		o.Logger = logger
	}).WithAgent(core.AgentInfo{Name: r.agent.Name(), Type: "root"})

	start := time.Now()
	err := r.agent.Run(rc)
	dur := time.Since(start)

	if pl, ok := logger.(logging.PipelineLogger); ok {
		pl.LogPipelineExecution(r.agent.Name(), rc.Limiter.Count(), dur, err)
	} else {
		logger.Debug("Pipeline execution finished", "pipeline", r.agent.Name(), "tool_calls", rc.Limiter.Count(), "duration", dur)
	}

	res := &Result{RunID: runID, State: rc.State(), Duration: dur}
	if err != nil {
		return res, fmt.Errorf("agent execution failed: %w", err)
	}

	return res, nil
}

// Cancel cancels a running run by ID.
func (r *Runner) Cancel(runID string) error {
	r.mu.RLock()
	cancel, exists := r.activeRuns[runID]
	r.mu.RUnlock()

	if !exists {
		return fmt.Errorf("run %s not found", runID)
	}

	cancel()

	return nil
}

// ActiveRuns returns the number of runs currently executing.
func (r *Runner) ActiveRuns() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.activeRuns)
}
