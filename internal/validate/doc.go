// Package validate normalizes raw AI output into well-formed commit
// message candidates.
//
// Cleanup is best-effort: fence and quote wrappers are stripped, a missing
// conventional-commit type gets a fixed default wrapper, and over-long
// subjects are cut at a word boundary. Only an empty result after cleanup
// is fatal.
package validate
