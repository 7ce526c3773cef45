// Package agentharness provides the high-level façade of the harness. Most
// applications interact with this package by:
//  1. Creating a Harness via New() (optionally overriding configuration,
//     session log, registry or logger)
//  2. Calling Bootstrap to load agent manifests and self-check the summary
//     schema, recording both in the session log
//  3. Dispatching tools directly (Dispatch) or running the demo pipeline
//     (Simulate: plan → retrieve → verify)
//
// All defaults come from config.Default() and are safe for local
// development: the session log is a file in the working directory and the
// knowledge base is read from ./kb.
package agentharness

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/agentharness/agent"
	"github.com/hupe1980/agentharness/config"
	"github.com/hupe1980/agentharness/core"
	"github.com/hupe1980/agentharness/internal/util"
	"github.com/hupe1980/agentharness/logging"
	"github.com/hupe1980/agentharness/manifest"
	"github.com/hupe1980/agentharness/runner"
	"github.com/hupe1980/agentharness/schema"
	"github.com/hupe1980/agentharness/session"
	"github.com/hupe1980/agentharness/tool"
	"github.com/hupe1980/agentharness/tool/builtin"
)

// Simulation parameters.
const (
	DemoObjective   = "Demo objective"
	DemoQuery       = "demo"
	DemoMaxSections = 3
)

// State keys written by the simulation pipeline.
const (
	KeyPlan         = "plan"
	KeyRetrieval    = "retrieval"
	KeyVerification = "verification"
)

// summarySample is validated against the summary schema during Bootstrap.
var summarySample = map[string]any{
	"summary": "ok",
	"items":   []any{map[string]any{"id": "1", "text": "x"}},
	"sources": []any{},
}

// SessionLog is an append-only event log that can initialise itself.
// *session.FileLog and *session.MemoryLog satisfy it.
type SessionLog interface {
	core.SessionLog
	Ensure() error
}

// Options configures the Harness.
type Options struct {
	// Config supplies paths and limits (defaults to config.Default()).
	Config config.Config
	// Registry overrides the built-in tool registry.
	Registry *tool.Registry
	// SessionLog overrides the file log at Config.Session.LogPath.
	SessionLog SessionLog
	// Observers are attached to the built-in registry.
	Observers []tool.Observer
	// Clock stamps envelopes of the built-in registry.
	Clock func() time.Time
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// BootstrapState is the outcome of Bootstrap.
type BootstrapState struct {
	Manifests   map[string]manifest.Manifest `json:"specs"`
	SchemaValid bool                         `json:"schema_valid"`
}

// SimulationResult holds the three pipeline envelopes plus the bootstrap state.
type SimulationResult struct {
	Plan         tool.Envelope   `json:"plan"`
	Retrieval    tool.Envelope   `json:"retrieval"`
	Verification tool.Envelope   `json:"verification"`
	Bootstrap    *BootstrapState `json:"bootstrap"`
}

// Harness is the high-level façade aggregating configuration, tool registry
// and session log.
type Harness struct {
	cfg    config.Config
	reg    *tool.Registry
	log    SessionLog
	logger logging.Logger
}

// New creates a Harness with optional overrides.
func New(optFns ...func(o *Options)) (*Harness, error) {
	opts := Options{
		Config: config.Default(),
		Clock:  time.Now,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	opts.Config.ApplyDefaults()

	reg := opts.Registry
	if reg == nil {
		var err error
		reg, err = builtin.NewRegistry(func(o *builtin.Options) {
			o.KBPath = opts.Config.KB.Path
			o.Workers = opts.Config.KB.Workers
			o.Clock = opts.Clock
			o.Logger = opts.Logger
			o.Observers = opts.Observers
		})
		if err != nil {
			return nil, fmt.Errorf("build tool registry: %w", err)
		}
	}

	log := opts.SessionLog
	if log == nil {
		log = session.NewFileLog(opts.Config.Session.LogPath)
	}

	return &Harness{cfg: opts.Config, reg: reg, log: log, logger: opts.Logger}, nil
}

// Registry returns the tool registry.
func (h *Harness) Registry() *tool.Registry { return h.reg }

// Config returns the effective configuration.
func (h *Harness) Config() config.Config { return h.cfg }

// Dispatch invokes a tool by name. It never fails; problems are reported in
// the envelope.
func (h *Harness) Dispatch(ctx context.Context, name string, payload tool.Payload) tool.Envelope {
	return h.reg.Dispatch(ctx, name, payload)
}

// Bootstrap loads agent manifests, initialises the session log and checks
// the summary schema against a fixed sample instance.
func (h *Harness) Bootstrap(_ context.Context) (*BootstrapState, error) {
	specs, err := manifest.LoadDir(h.cfg.Manifests.Dir)
	if err != nil {
		return nil, fmt.Errorf("load manifests: %w", err)
	}

	if err := h.log.Ensure(); err != nil {
		return nil, err
	}

	ids := manifest.IDs(specs)
	if err := h.log.Append(fmt.Sprintf("[INIT] loaded_manifests=%s", quotedList(ids))); err != nil {
		return nil, err
	}

	doc, err := schema.Load(h.cfg.Schema.Path)
	if err != nil {
		// An unreadable schema makes the check fail instead of aborting bootstrap.
		h.logger.Warn("Summary schema unusable", "path", h.cfg.Schema.Path, "error", err.Error())
	}

	valid := err == nil && schema.IsValid(summarySample, doc)
	if err := h.log.Append(fmt.Sprintf("[SCHEMA_CHECK] summary_schema_valid=%t", valid)); err != nil {
		return nil, err
	}

	h.logger.Info("Bootstrap complete", "manifests", len(ids), "schema_valid", valid)

	return &BootstrapState{Manifests: specs, SchemaValid: valid}, nil
}

// Pipeline returns the demo plan → retrieve → verify agent.
func (h *Harness) Pipeline() core.Agent {
	plan := agent.NewToolAgent("planner", builtin.PlanTasks, func(o *agent.ToolAgentOptions) {
		o.OutputKey = KeyPlan
		o.Payload = agent.StaticPayload(tool.Payload{"objective": DemoObjective})
	})

	retrieve := agent.NewToolAgent("retriever", builtin.MDLookup, func(o *agent.ToolAgentOptions) {
		o.OutputKey = KeyRetrieval
		o.Payload = agent.StaticPayload(tool.Payload{
			"query":        DemoQuery,
			"kb_path":      h.cfg.KB.Path,
			"max_sections": DemoMaxSections,
		})
	})

	verify := agent.NewToolAgent("verifier", builtin.CrossCheck, func(o *agent.ToolAgentOptions) {
		o.OutputKey = KeyVerification
		o.Payload = agent.PayloadFromFunc(evidenceFromRetrieval)
	})

	return agent.NewSequentialAgent("simulation", plan, retrieve, verify)
}

// evidenceFromRetrieval hands the retrieval data, in its JSON form, to
// cross_check.
func evidenceFromRetrieval(rc *core.RunContext) (tool.Payload, error) {
	env, ok := agent.EnvelopeFromState(rc, KeyRetrieval)
	if !ok {
		return tool.Payload{"evidence": []any{}}, nil
	}
	evidence, err := util.Normalize(env.Data)
	if err != nil {
		return nil, fmt.Errorf("normalize retrieval data: %w", err)
	}
	if evidence == nil {
		evidence = []any{}
	}
	return tool.Payload{"evidence": evidence}, nil
}

// Simulate bootstraps, then runs the demo pipeline and returns its envelopes.
func (h *Harness) Simulate(ctx context.Context) (*SimulationResult, error) {
	state, err := h.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}

	r := runner.New(h.Pipeline(), h.reg, func(o *runner.Options) {
		o.MaxToolCalls = h.cfg.Limits.MaxToolCalls
		o.Log = h.log
		o.Logger = h.logger
	})

	res, err := r.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}

	out := &SimulationResult{Bootstrap: state}
	for key, dst := range map[string]*tool.Envelope{
		KeyPlan:         &out.Plan,
		KeyRetrieval:    &out.Retrieval,
		KeyVerification: &out.Verification,
	} {
		env, ok := res.State[key].(tool.Envelope)
		if !ok {
			return nil, fmt.Errorf("simulate: missing %s result", key)
		}
		*dst = env
	}

	return out, nil
}

// quotedList renders ids as ['a', 'b'].
func quotedList(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = "'" + id + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
