// Package core provides the execution contracts shared by the harness
// orchestration layer:
//
//   - Agent: a named unit of pipeline work
//   - RunContext: the per-run scope carrying state, logger and dispatcher
//   - CallLimiter: a per-run cap on tool invocations
//   - Dispatcher / SessionLog: the small interfaces agents depend on
//
// Concrete agents live in package agent; the runner that creates run
// contexts lives in package runner.
package core
