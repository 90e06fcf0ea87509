// Package ui renders styled terminal output and reads interactive
// answers for the commit workflows.
package ui
