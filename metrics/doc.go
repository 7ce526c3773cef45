// Package metrics exposes Prometheus collectors for tool dispatch and the
// HTTP transport. Collectors are registered on an injected Registerer so
// several harnesses (or tests) can coexist in one process.
package metrics
