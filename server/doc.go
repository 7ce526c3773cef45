// Package server exposes a tool registry over HTTP using chi.
//
// Routes:
//
//	GET  /healthz            liveness check
//	GET  /v1/tools           registered tools with their parameter schemas
//	POST /v1/tools/{name}    dispatch; the body is the payload, the response the envelope
//	GET  /metrics            Prometheus exposition (when a Gatherer is configured)
//
// Tool outcomes are always reported inside the envelope with HTTP 200; only
// transport problems (malformed JSON, oversized bodies) produce 4xx codes.
package server
