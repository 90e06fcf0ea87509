// Package logx provides the shared zap logger for the gyst binaries.
//
// The CLI logs nothing unless GYST_DEBUG=1 is set, in which case a
// development logger writes to stderr. The relay server uses a production
// logger unconditionally.
package logx
