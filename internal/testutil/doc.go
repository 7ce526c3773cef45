// Package testutil contains helper builders and utilities used across tests
// to reduce boilerplate when constructing fixtures (knowledge-base
// directories, manifest directories, fixed clocks). These helpers are not
// intended for production usage.
package testutil
