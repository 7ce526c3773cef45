// Package session houses implementations of the session log: an append-only
// sequence of free-text lines recording bootstrap and pipeline events.
//
// FileLog persists to a text file initialised with a header line; MemoryLog
// keeps lines in process for tests or ephemeral runs. Both satisfy core.SessionLog.
package session
