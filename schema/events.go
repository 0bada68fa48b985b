package schema

// SessionEventKind identifies the session lifecycle transition an event
// reports.
type SessionEventKind string

const (
	// SessionSpawned fires when a new surface and agent subprocess start.
	SessionSpawned SessionEventKind = "spawned"
	// SessionReused fires when delivery targets an existing session.
	SessionReused SessionEventKind = "reused"
	// SessionDelivered fires after text reaches the agent's input stream.
	SessionDelivered SessionEventKind = "delivered"
	// SessionDropped fires when a scheduled delivery found its surface gone.
	SessionDropped SessionEventKind = "dropped"
	// SessionFocused fires when the agent surface is brought forward.
	SessionFocused SessionEventKind = "focused"
	// SessionExited fires after an exited agent's surface is torn down.
	SessionExited SessionEventKind = "exited"
)

// SessionEvent reports a lifecycle transition of the agent session.
type SessionEvent struct {
	Kind    SessionEventKind
	Surface SurfaceID
	PID     ProcessID
}
