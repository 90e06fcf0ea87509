// Package gitrepo reads staged repository state and performs the final
// commit mutation.
//
// It shells out to the git binary: categorizes staged paths (with rename
// detection), computes diff statistics, produces a line-bounded unified
// diff with an explicit truncation marker, and exposes stage-all, commit,
// and push operations. An index.lock collision during commit surfaces as
// ErrIndexLocked rather than a generic failure.
package gitrepo
