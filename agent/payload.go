package agent

import (
	"maps"

	"github.com/hupe1980/agentharness/core"
	"github.com/hupe1980/agentharness/tool"
)

// PayloadProvider supplies a tool payload at runtime.
// Implementations can derive payloads from run state, configuration, etc.
type PayloadProvider interface {
	Payload(*core.RunContext) (tool.Payload, error)
}

// PayloadFunc is a functional adapter to allow ordinary functions to be used as PayloadProviders.
type PayloadFunc func(*core.RunContext) (tool.Payload, error)

// Payload implements PayloadProvider.
func (f PayloadFunc) Payload(rc *core.RunContext) (tool.Payload, error) { return f(rc) }

// Payload represents either a static payload or a dynamic provider.
type Payload struct {
	static   tool.Payload
	provider PayloadProvider
}

// StaticPayload creates a Payload from a fixed map. The map is copied on
// every Resolve so tools never share it.
func StaticPayload(p tool.Payload) Payload { return Payload{static: p} }

// PayloadFromProvider creates a Payload from a dynamic provider.
func PayloadFromProvider(p PayloadProvider) Payload { return Payload{provider: p} }

// PayloadFromFunc creates a Payload from a function.
func PayloadFromFunc(f func(*core.RunContext) (tool.Payload, error)) Payload {
	return Payload{provider: PayloadFunc(f)}
}

// IsStatic returns true if the payload is backed by a fixed map.
func (p Payload) IsStatic() bool { return p.provider == nil }

// Resolve returns the payload, invoking the provider if needed.
func (p Payload) Resolve(rc *core.RunContext) (tool.Payload, error) {
	if p.provider != nil {
		return p.provider.Payload(rc)
	}
	out := make(tool.Payload, len(p.static))
	maps.Copy(out, p.static)
	return out, nil
}
