// Package builtin provides the harness's fixed tool set and a constructor
// for a Registry holding all of it.
//
// md_lookup is the only tool with real behavior: it ranks sections of the
// markdown files in a knowledge-base directory by raw query-token counts.
// The remaining tools are deterministic stubs with stable output shapes
// (web_search, schema_validate, cross_check, fact_consistency,
// aggregate_results, dispatch_agent, plan_tasks).
package builtin
