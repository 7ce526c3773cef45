package agent

import (
	"fmt"

	"github.com/hupe1980/agentharness/core"
)

// SequentialAgent coordinates the execution of multiple child agents in sequence.
//
// Children share the run context state, so each step can read what earlier
// steps stored. Execution stops at the first error or when the run is
// cancelled.
type SequentialAgent struct {
	BaseAgent
	children []core.Agent
}

// NewSequentialAgent creates a new sequential execution coordinator.
func NewSequentialAgent(name string, children ...core.Agent) *SequentialAgent {
	return &SequentialAgent{
		BaseAgent: NewBaseAgent(name, "sequential"),
		children:  children,
	}
}

// Children returns a copy of the child agents in execution order.
func (s *SequentialAgent) Children() []core.Agent {
	out := make([]core.Agent, len(s.children))
	copy(out, s.children)
	return out
}

// Run implements core.Agent. It executes each child agent in order; errors
// stop further processing immediately.
func (s *SequentialAgent) Run(rc *core.RunContext) error {
	for i, child := range s.children {
		if err := rc.Err(); err != nil {
			return fmt.Errorf("sequential execution cancelled before agent %s: %w", child.Name(), err)
		}

		rc.LogDebug("Running pipeline step", "pipeline", s.Name(), "step", i+1, "agent", child.Name())

		if err := child.Run(rc.WithAgent(infoOf(child))); err != nil {
			return fmt.Errorf("sequential execution failed at agent %s: %w", child.Name(), err)
		}
	}

	return nil
}
