package agent

import (
	"fmt"

	"github.com/hupe1980/agentharness/core"
)

// BaseAgent bundles identity helpers. Embed it in concrete agent
// implementations and supply a Run method to satisfy core.Agent.
type BaseAgent struct {
	name        string
	description string
	kind        string
}

// NewBaseAgent constructs a BaseAgent with generated description (customizable via SetDescription).
func NewBaseAgent(name, kind string) BaseAgent {
	return BaseAgent{
		name:        name,
		description: fmt.Sprintf("Agent %s", name),
		kind:        kind,
	}
}

// Name returns the human-readable name for this agent.
func (b *BaseAgent) Name() string { return b.name }

// Description returns a detailed description of this agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// SetDescription updates the agent's description.
func (b *BaseAgent) SetDescription(desc string) { b.description = desc }

// Info returns the identity recorded in child run contexts.
func (b *BaseAgent) Info() core.AgentInfo { return core.AgentInfo{Name: b.name, Type: b.kind} }

// infoOf returns a's identity, falling back to its name for foreign implementations.
func infoOf(a core.Agent) core.AgentInfo {
	if i, ok := a.(interface{ Info() core.AgentInfo }); ok {
		return i.Info()
	}
	return core.AgentInfo{Name: a.Name()}
}
