package agent

import (
	"errors"
	"fmt"

	"github.com/hupe1980/agentharness/core"
	"github.com/hupe1980/agentharness/tool"
)

// ErrToolFailed is returned by a ToolAgent configured with RequireOK when the
// dispatched tool reports ok=false.
var ErrToolFailed = errors.New("tool failed")

// ToolAgentOptions configures a ToolAgent.
type ToolAgentOptions struct {
	// Description overrides the generated description.
	Description string
	// OutputKey is the state key receiving the envelope (default: agent name).
	OutputKey string
	// Payload builds the tool input (default: empty payload).
	Payload Payload
	// RequireOK turns an ok=false envelope into a step error.
	RequireOK bool
}

// ToolAgent dispatches a single tool and stores the resulting envelope in
// the run state.
type ToolAgent struct {
	BaseAgent
	toolName  string
	outputKey string
	payload   Payload
	requireOK bool
}

// NewToolAgent creates a step invoking toolName.
func NewToolAgent(name, toolName string, optFns ...func(o *ToolAgentOptions)) *ToolAgent {
	opts := ToolAgentOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	a := &ToolAgent{
		BaseAgent: NewBaseAgent(name, "tool"),
		toolName:  toolName,
		outputKey: opts.OutputKey,
		payload:   opts.Payload,
		requireOK: opts.RequireOK,
	}
	if a.outputKey == "" {
		a.outputKey = name
	}
	if opts.Description != "" {
		a.SetDescription(opts.Description)
	} else {
		a.SetDescription(fmt.Sprintf("Invokes tool %s", toolName))
	}

	return a
}

// ToolName returns the dispatched tool name.
func (a *ToolAgent) ToolName() string { return a.toolName }

// OutputKey returns the state key the envelope is stored under.
func (a *ToolAgent) OutputKey() string { return a.outputKey }

// Run implements core.Agent.
func (a *ToolAgent) Run(rc *core.RunContext) error {
	payload, err := a.payload.Resolve(rc)
	if err != nil {
		return fmt.Errorf("build payload for %s: %w", a.toolName, err)
	}

	env, err := rc.Dispatch(a.toolName, payload)
	if err != nil {
		return err
	}

	rc.SetState(a.outputKey, env)

	if !env.OK {
		rc.LogDebug("Tool reported failure", "agent", a.Name(), "tool", a.toolName, "error", env.ErrorMessage())
		if a.requireOK {
			return fmt.Errorf("%w: %s: %s", ErrToolFailed, a.toolName, env.ErrorMessage())
		}
	}

	return nil
}

// EnvelopeFromState returns the envelope stored under key by an earlier ToolAgent.
func EnvelopeFromState(rc *core.RunContext, key string) (tool.Envelope, bool) {
	v, ok := rc.GetState(key)
	if !ok {
		return tool.Envelope{}, false
	}
	env, ok := v.(tool.Envelope)
	return env, ok
}
