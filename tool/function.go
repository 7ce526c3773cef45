package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/agentharness/internal/util"
	"github.com/hupe1980/agentharness/logging"
)

// Handler implements a tool over a typed input.
type Handler[In any] func(ctx context.Context, in In) Envelope

// FunctionToolOptions configures a FunctionTool.
type FunctionToolOptions struct {
	// Clock stamps meta.t. Defaults to time.Now.
	Clock func() time.Time
	// Logger receives validation diagnostics.
	Logger logging.Logger
	// InvalidPayloadData builds data for envelopes of rejected payloads.
	// Defaults to null data.
	InvalidPayloadData func() any
}

// FunctionTool is a generic adapter that exposes a plain Go function with a
// typed input struct as a Tool.
//
// Responsibilities:
//   - Derives the parameter schema from In (json tags, description tags)
//   - Checks payload field types against that schema
//   - Decodes the payload into In; optional fields use omitempty or pointers
//   - Stamps the tool name and timestamp onto the handler's envelope
//
// Payloads that fail validation or decoding never reach the handler; they
// produce ok=false with meta.error "invalid payload: ..." and data from
// InvalidPayloadData.
//
// A FunctionTool has no mutable state after construction and is safe for
// concurrent use.
type FunctionTool[In any] struct {
	name        string
	description string
	parameters  map[string]any
	fn          Handler[In]
	clock       func() time.Time
	logger      logging.Logger
	invalidData func() any
}

// NewFunctionTool constructs a FunctionTool.
//
// Example:
//
//	type echoInput struct {
//	  Message string `json:"message,omitempty" description:"Text to echo"`
//	}
//
//	echo := NewFunctionTool("echo", "Echo the message",
//	  func(_ context.Context, in echoInput) Envelope {
//	    return Success(map[string]any{"message": in.Message})
//	  },
//	)
func NewFunctionTool[In any](name, description string, fn Handler[In], optFns ...func(o *FunctionToolOptions)) *FunctionTool[In] {
	opts := FunctionToolOptions{
		Clock:  time.Now,
		Logger: logging.NoOpLogger{},
	}
	for _, f := range optFns {
		f(&opts)
	}

	var zero In
	return &FunctionTool[In]{
		name:        name,
		description: description,
		parameters:  util.CreateSchema(zero),
		fn:          fn,
		clock:       opts.Clock,
		logger:      opts.Logger,
		invalidData: opts.InvalidPayloadData,
	}
}

// Name returns the unique tool name used for dispatch.
func (t *FunctionTool[In]) Name() string { return t.name }

// Description returns the short natural language description.
func (t *FunctionTool[In]) Description() string { return t.description }

// Parameters returns the JSON schema derived from the input struct.
func (t *FunctionTool[In]) Parameters() map[string]any { return t.parameters }

// Invoke validates and decodes payload, runs the handler and stamps the result.
func (t *FunctionTool[In]) Invoke(ctx context.Context, payload Payload) Envelope {
	in, err := t.decode(payload)
	if err != nil {
		t.logger.Warn("tool.payload.invalid", "tool", t.name, "error", err.Error())
		var data any
		if t.invalidData != nil {
			data = t.invalidData()
		}
		return stamp(Failure(data, err.Message), t.name, t.clock())
	}

	return stamp(t.fn(ctx, in), t.name, t.clock())
}

func (t *FunctionTool[In]) decode(payload Payload) (In, *ToolError) {
	var in In
	if err := util.ValidateParameters(payload, t.parameters); err != nil {
		return in, &ToolError{
			Tool:    t.name,
			Message: fmt.Sprintf("invalid payload: %v", err),
			Code:    CodeInvalidPayload,
			Details: err,
		}
	}
	if err := util.DecodePayload(payload, &in); err != nil {
		return in, &ToolError{
			Tool:    t.name,
			Message: fmt.Sprintf("invalid payload: %v", err),
			Code:    CodeInvalidPayload,
		}
	}
	return in, nil
}

var _ Tool = (*FunctionTool[struct{}])(nil)
