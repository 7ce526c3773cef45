package builtin

import (
	"time"

	"github.com/hupe1980/agentharness/kb"
	"github.com/hupe1980/agentharness/logging"
	"github.com/hupe1980/agentharness/tool"
)

// Tool names.
const (
	MDLookup         = "md_lookup"
	WebSearch        = "web_search"
	SchemaValidate   = "schema_validate"
	CrossCheck       = "cross_check"
	FactConsistency  = "fact_consistency"
	AggregateResults = "aggregate_results"
	DispatchAgent    = "dispatch_agent"
	PlanTasks        = "plan_tasks"
)

// EnvKBPath names the variable consulted for md_lookup's default directory
// when Options.KBPath is empty.
const EnvKBPath = "KB_PATH"

// DefaultKBPath is used when neither Options.KBPath nor KB_PATH is set.
const DefaultKBPath = "kb"

// Options configures the built-in tools.
type Options struct {
	// KBPath is md_lookup's default kb_path. When empty, KB_PATH is read at
	// call time, falling back to DefaultKBPath.
	KBPath string
	// Searcher runs md_lookup scans. Defaults to kb.NewSearcher with Workers.
	Searcher *kb.Searcher
	// Workers bounds concurrent file scans of the default Searcher.
	Workers int
	// Clock stamps meta.t.
	Clock func() time.Time
	// Logger receives tool and registry diagnostics.
	Logger logging.Logger
	// Observers are attached to the registry.
	Observers []tool.Observer
}

func resolveOptions(optFns ...func(o *Options)) Options {
	opts := Options{
		Clock:  time.Now,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Searcher == nil {
		opts.Searcher = kb.NewSearcher(func(so *kb.SearcherOptions) {
			if opts.Workers > 0 {
				so.Workers = opts.Workers
			}
			so.Logger = opts.Logger
		})
	}
	return opts
}

// Tools returns the eight built-in tools.
func Tools(optFns ...func(o *Options)) []tool.Tool {
	return tools(resolveOptions(optFns...))
}

func tools(opts Options) []tool.Tool {
	fnOpts := func(o *tool.FunctionToolOptions) {
		o.Clock = opts.Clock
		o.Logger = opts.Logger
	}

	return []tool.Tool{
		newMDLookup(opts, fnOpts),
		tool.NewFunctionTool(WebSearch, "Stub web search returning a single synthetic hit for the query.", webSearch, fnOpts),
		tool.NewFunctionTool(SchemaValidate, "Validate an instance against a JSON Schema.", schemaValidate, fnOpts),
		tool.NewFunctionTool(CrossCheck, "Check that every evidence item carries a chunk or text field.", crossCheck, fnOpts),
		tool.NewFunctionTool(FactConsistency, "Stub consistency check reporting how many facts were checked.", factConsistency, fnOpts),
		tool.NewFunctionTool(AggregateResults, "Join result parts into a single summary string.", aggregateResults, fnOpts),
		tool.NewFunctionTool(DispatchAgent, "Stub agent dispatch echoing the agent and task.", dispatchAgent, fnOpts),
		tool.NewFunctionTool(PlanTasks, "Produce the fixed five-step plan for an objective.", planTasks, fnOpts),
	}
}

// NewRegistry builds a tool.Registry holding every built-in tool.
func NewRegistry(optFns ...func(o *Options)) (*tool.Registry, error) {
	opts := resolveOptions(optFns...)

	return tool.NewRegistry(tools(opts), func(ro *tool.RegistryOptions) {
		ro.Clock = opts.Clock
		ro.Logger = opts.Logger
		ro.Observers = opts.Observers
	})
}
