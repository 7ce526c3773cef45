// Package config loads harness settings from an optional .env file, an
// optional YAML file and process environment variables, in increasing order
// of precedence, then applies defaults and validates the result.
package config
