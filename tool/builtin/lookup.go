package builtin

import (
	"context"
	"os"

	"github.com/hupe1980/agentharness/kb"
	"github.com/hupe1980/agentharness/tool"
)

type mdLookupInput struct {
	Query       string `json:"query,omitempty" description:"Whitespace-separated search terms (case-insensitive)"`
	KBPath      string `json:"kb_path,omitempty" description:"Directory of markdown files to scan"`
	MaxSections *int   `json:"max_sections,omitempty" description:"Maximum number of sections to return (default 5)"`
}

func newMDLookup(opts Options, fnOpts func(o *tool.FunctionToolOptions)) tool.Tool {
	searcher := opts.Searcher
	defaultPath := opts.KBPath

	return tool.NewFunctionTool(MDLookup,
		"Search markdown files in a knowledge-base directory and return the best matching sections.",
		func(ctx context.Context, in mdLookupInput) tool.Envelope {
			dir := in.KBPath
			if dir == "" {
				dir = defaultKBPath(defaultPath)
			}

			max := kb.DefaultMaxSections
			if in.MaxSections != nil {
				max = *in.MaxSections
			}

			results, err := searcher.Lookup(ctx, in.Query, dir, max)
			if err != nil {
				return tool.Failure([]kb.Result{}, err.Error())
			}

			return tool.Success(results).WithCount(len(results))
		},
		fnOpts,
		func(o *tool.FunctionToolOptions) {
			o.InvalidPayloadData = func() any { return []kb.Result{} }
		},
	)
}

func defaultKBPath(configured string) string {
	if configured != "" {
		return configured
	}
	if v := os.Getenv(EnvKBPath); v != "" {
		return v
	}
	return DefaultKBPath
}
