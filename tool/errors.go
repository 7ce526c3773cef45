package tool

import "errors"

var (
	// ErrDuplicateTool is returned when two tools share a name.
	ErrDuplicateTool = errors.New("duplicate tool")
	// ErrInvalidTool is returned for nil tools or tools without a name.
	ErrInvalidTool = errors.New("invalid tool")
)

// UnknownToolMessage is reported in data.error for unregistered names.
const UnknownToolMessage = "unknown tool"

// ErrUnknownTool is returned by Registry.Get for unregistered names.
var ErrUnknownTool = errors.New(UnknownToolMessage)
