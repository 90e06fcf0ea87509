// Package prompt builds provider-agnostic generation requests.
//
// Build is a pure function: identical inputs produce byte-identical
// prompts, so backends can be swapped without behavior drift and tests can
// compare output exactly.
package prompt
