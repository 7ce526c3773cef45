// Package mcpserver exposes a tool registry as a Model Context Protocol
// server. Every registry tool becomes an MCP tool whose input schema is the
// tool's parameter schema; calls are routed through Registry.Dispatch and
// return the envelope both as structured content and as JSON text.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hupe1980/agentharness/logging"
	"github.com/hupe1980/agentharness/tool"
)

// Options configures the MCP bridge.
type Options struct {
	// Logger receives bridge diagnostics.
	Logger logging.Logger
}

// New builds an MCP server publishing every tool of reg.
func New(reg *tool.Registry, impl *mcp.Implementation, optFns ...func(o *Options)) *mcp.Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if impl == nil {
		impl = &mcp.Implementation{Name: "agentharness", Version: "dev"}
	}

	srv := mcp.NewServer(impl, nil)
	for _, t := range reg.Tools() {
		srv.AddTool(&mcp.Tool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Parameters(),
		}, handler(reg, t.Name(), opts.Logger))
	}

	return srv
}

func handler(reg *tool.Registry, name string, logger logging.Logger) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var payload tool.Payload
		if req != nil && req.Params != nil && len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &payload); err != nil {
				logger.Warn("mcp.arguments.invalid", "tool", name, "error", err.Error())
				return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
			}
		}

		env := reg.Dispatch(ctx, name, payload)
		return toResult(env)
	}
}

func toResult(env tool.Envelope) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}

	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: string(raw)}},
		StructuredContent: json.RawMessage(raw),
		IsError:           !env.OK,
	}, nil
}

// ServeStdio runs srv over stdin/stdout until ctx is cancelled or the client
// disconnects.
func ServeStdio(ctx context.Context, srv *mcp.Server) error {
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp stdio: %w", err)
	}
	return nil
}
