package logx

import (
	"context"

	"pkt.systems/agentpane/schema"
	"pkt.systems/pslog"
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithSurface annotates the logger with the surface id if present.
func WithSurface(log pslog.Logger, id schema.SurfaceID) pslog.Logger {
	if id == "" {
		return log
	}
	return log.With("surface", id)
}

// WithPID annotates the logger with a process id when known.
func WithPID(log pslog.Logger, pid schema.ProcessID) pslog.Logger {
	if pid <= 0 {
		return log
	}
	return log.With("pid", pid)
}
