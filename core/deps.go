package core

import (
	"context"
	"time"

	"pkt.systems/agentpane/schema"
	"pkt.systems/pslog"
)

// Host is the display host the bridge drives: it owns surfaces, the
// subprocesses attached to them, and the callbacks that report their
// lifecycle. Implementations must make SendText, DestroySurface, and
// observer delivery safe for surfaces that no longer exist.
type Host interface {
	// Surfaces enumerates the currently open display surfaces in host
	// order.
	Surfaces() ([]schema.Surface, error)
	// CreateSurface opens a new surface running the requested command
	// as its attached subprocess.
	CreateSurface(ctx context.Context, req SpawnRequest) (schema.Surface, error)
	// SendText writes text to the surface subprocess's input stream.
	// Writing to a gone surface returns schema.ErrSurfaceGone.
	SendText(id schema.SurfaceID, text string) error
	// Focus brings the surface forward and requests input focus.
	Focus(id schema.SurfaceID) error
	// DestroySurface tears the surface down and releases its content.
	// Destroying an already gone surface is a no-op.
	DestroySurface(id schema.SurfaceID) error
	// Alive reports whether the surface still exists and hosts a live
	// subprocess.
	Alive(id schema.SurfaceID) bool
	// OnExit registers an observer fired with the subprocess identity
	// whenever a hosted subprocess terminates for any reason.
	OnExit(fn func(schema.ProcessID)) (cancel func())
	// OnFocusGained registers an observer fired when a surface regains
	// focus.
	OnFocusGained(fn func(schema.SurfaceID)) (cancel func())
	// Schedule runs fn once after d. The returned cancel stops a
	// pending fn; canceling after fire is a no-op.
	Schedule(d time.Duration, fn func()) (cancel func())
}

// SpawnRequest describes the subprocess a new surface should host.
type SpawnRequest struct {
	Command    string
	Args       []string
	WorkingDir string
	Title      string
}

// ProcessTable resolves live process identities. Lookups for vanished
// processes return an error; callers treat that as "no match".
type ProcessTable interface {
	ProgramName(pid schema.ProcessID) (string, error)
	Alive(pid schema.ProcessID) bool
}

// EventSink receives session lifecycle events from the controller.
type EventSink interface {
	OnSessionEvent(event schema.SessionEvent)
}

// BridgeDeps captures the dependencies of the core bridge components.
type BridgeDeps struct {
	Host   Host
	Procs  ProcessTable
	Sink   EventSink
	Logger pslog.Logger
}
