// Gyst-relay hosts the relay API that gyst's default backend mode talks
// to. It keeps the Anthropic API key server-side so client machines never
// need credentials.
//
// Configuration comes from the environment (a .env file is loaded when
// present): ANTHROPIC_API_KEY (required), GYST_MODEL, HOST, PORT.
package main
