package core

// Agent defines the interface every pipeline step implements.
//
// Agents receive a RunContext, may dispatch tools through it and record their
// outputs in its shared state. Implementations must respect cancellation of
// the run context.
type Agent interface {
	Name() string
	Description() string
	Run(rc *RunContext) error
}

// AgentInfo carries identifying details about the agent currently executing.
type AgentInfo struct{ Name, Type string }
