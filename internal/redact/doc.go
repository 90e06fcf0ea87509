// Package redact masks likely secrets in a staged diff before it is sent
// to any generation backend.
package redact
