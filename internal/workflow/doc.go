// Package workflow drives the interactive commit state machine.
//
// Both workflows run the same spine: Collecting -> Generating ->
// Presenting -> Committing. The repository is only ever mutated inside the
// Committing state; every other state ends in Aborted or Failed without
// side effects. User interrupts are honored up to the moment Committing
// begins.
package workflow
