package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentharness/internal/util"
)

// Tool is a named capability reachable through the Registry.
//
// Implementations must honor the envelope contract: Invoke always returns an
// Envelope whose Tool field equals Name() and whose Meta.Time is set.
type Tool interface {
	// Name returns the unique identifier for this tool (snake_case).
	Name() string

	// Description returns a human-readable description of what this tool does.
	Description() string

	// Parameters returns a JSON schema describing the accepted payload.
	Parameters() map[string]any

	// Invoke runs the tool with the given payload.
	Invoke(ctx context.Context, payload Payload) Envelope
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// Error codes carried by ToolError.
const (
	CodeInvalidPayload = "INVALID_PAYLOAD"
	CodeUnknownTool    = "UNKNOWN_TOOL"
)

// ToolError describes a failure detected before a tool handler ran.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}
