package core

import (
	"context"

	"github.com/hupe1980/agentharness/tool"
)

// Dispatcher invokes a tool by name. *tool.Registry satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, payload tool.Payload) tool.Envelope
}

// SessionLog is an append-only sink of free-text run events.
type SessionLog interface {
	Append(line string) error
}
