// Package relay implements the hosted relay API that the relay backend
// mode talks to. The server holds the upstream Anthropic credentials so
// client machines never need a key.
package relay
