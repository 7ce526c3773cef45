// Package agent contains the pipeline step implementations driven by the
// runner:
//
//  1. Identity plumbing shared by every step (BaseAgent)
//  2. Composition (SequentialAgent)
//  3. Tool invocation (ToolAgent) with static or state-derived payloads
//
// Execution model:
//   - An agent's Run receives a *core.RunContext shared across the pipeline
//   - Steps communicate only through the run context's state
//   - Tools are invoked through RunContext.Dispatch so the per-run call
//     limiter applies
package agent
