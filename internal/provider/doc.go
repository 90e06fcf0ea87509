// Package provider implements the two generation backends: the hosted
// relay (unauthenticated, fixed endpoint) and the direct Anthropic API
// (user-supplied key).
//
// The backend is chosen exactly once per invocation from configuration;
// there is no mid-flight fallback between backends, so a diff never
// routes to a destination the user did not configure. Retry accounting is
// local to a single Generate call.
package provider
