package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hupe1980/agentharness/logging"
)

// ToolCall describes one completed dispatch for observers.
type ToolCall struct {
	// Name is the requested tool name.
	Name string
	// Known reports whether Name was registered.
	Known    bool
	Envelope Envelope
	Duration time.Duration
}

// Observer is notified after every dispatch. Implementations must be safe
// for concurrent use.
type Observer interface {
	ObserveToolCall(call ToolCall)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(call ToolCall)

// ObserveToolCall calls f(call).
func (f ObserverFunc) ObserveToolCall(call ToolCall) { f(call) }

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// Clock stamps envelopes produced by the registry itself (unknown tool).
	Clock func() time.Time
	// Logger receives one entry per dispatch.
	Logger logging.Logger
	// Observers are notified after every dispatch, in order.
	Observers []Observer
}

// Registry is an immutable name → Tool mapping with a uniform dispatch
// façade. It is built once and is safe for concurrent reads.
type Registry struct {
	tools     map[string]Tool
	names     []string
	clock     func() time.Time
	logger    logging.Logger
	observers []Observer
}

// NewRegistry builds a Registry from tools. Names must be unique and non-empty.
func NewRegistry(tools []Tool, optFns ...func(o *RegistryOptions)) (*Registry, error) {
	opts := RegistryOptions{
		Clock:  time.Now,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	byName := make(map[string]Tool, len(tools))
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		if t == nil || strings.TrimSpace(t.Name()) == "" {
			return nil, fmt.Errorf("%w: tool must be non-nil and named", ErrInvalidTool)
		}
		if _, exists := byName[t.Name()]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, t.Name())
		}
		byName[t.Name()] = t
		names = append(names, t.Name())
	}
	sort.Strings(names)

	observers := make([]Observer, 0, len(opts.Observers))
	for _, o := range opts.Observers {
		if o != nil {
			observers = append(observers, o)
		}
	}

	return &Registry{
		tools:     byName,
		names:     names,
		clock:     opts.Clock,
		logger:    opts.Logger,
		observers: observers,
	}, nil
}

// Dispatch looks up name and invokes the tool with payload, returning its
// envelope unchanged. Unregistered names yield
// {tool:name, ok:false, data:{error:"unknown tool"}, meta:{t}} without invoking
// anything. Panics raised by a tool are not recovered.
func (r *Registry) Dispatch(ctx context.Context, name string, payload Payload) Envelope {
	start := time.Now()

	t, known := r.tools[name]
	var env Envelope
	if known {
		env = t.Invoke(ctx, payload)
	} else {
		env = Envelope{
			Tool: name,
			OK:   false,
			Data: map[string]any{"error": UnknownToolMessage},
			Meta: Meta{Time: r.clock()},
		}
	}

	call := ToolCall{Name: name, Known: known, Envelope: env, Duration: time.Since(start)}
	r.logCall(call)
	for _, o := range r.observers {
		o.ObserveToolCall(call)
	}

	return env
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t, nil
}

// Names returns the registered tool names in lexical order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Tools returns the registered tools ordered by name.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.tools[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.tools) }

func (r *Registry) logCall(call ToolCall) {
	if tl, ok := r.logger.(logging.ToolCallLogger); ok {
		tl.LogToolCall(call.Name, call.Duration, call.Envelope.OK, call.Envelope.ErrorMessage())
		return
	}
	r.logger.Debug("tool.dispatch", "tool", call.Name, "known", call.Known, "ok", call.Envelope.OK, "duration_ms", call.Duration.Milliseconds())
}
