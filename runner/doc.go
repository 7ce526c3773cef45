// Package runner executes a root agent against a tool dispatcher.
//
// A Runner creates one core.RunContext per run (fresh run ID, shared state,
// per-run call limiter), executes the root agent synchronously and returns
// the final state. Runs can be cancelled by ID from other goroutines and the
// number of concurrent runs can be bounded.
package runner
