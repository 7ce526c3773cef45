// Package tool implements the tool dispatch subsystem: a uniform result
// Envelope, the Tool interface, a generic FunctionTool adapter with typed
// inputs and an immutable Registry with a string-keyed Dispatch façade.
//
// Every invocation, successful or not, yields an Envelope. Failures are
// described inside the envelope (ok=false plus meta.error or data.error)
// rather than returned as Go errors, because consumers branch on the ok field.
package tool
