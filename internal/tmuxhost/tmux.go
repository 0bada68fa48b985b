package tmuxhost

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"pkt.systems/agentpane/schema"
)

// ErrNoServer indicates the tmux server on the configured socket is not
// running. Callers treat it as "no surfaces", not a failure.
var ErrNoServer = fmt.Errorf("%w: tmux server not running", schema.ErrHostUnavailable)

// runner abstracts tmux invocation so host logic is testable without a
// tmux binary.
type runner interface {
	run(args ...string) (string, error)
}

// execRunner shells out to tmux on a dedicated socket. The -L socket
// isolates the bridge's server from the user's personal tmux server,
// and -u forces UTF-8 regardless of locale.
type execRunner struct {
	socket string
}

func newExecRunner(socket string) *execRunner {
	return &execRunner{socket: socket}
}

func (r *execRunner) run(args ...string) (string, error) {
	allArgs := []string{"-u"}
	if r.socket != "" {
		allArgs = append(allArgs, "-L", r.socket)
	}
	allArgs = append(allArgs, args...)
	cmd := exec.Command("tmux", allArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", wrapTmuxError(err, stderr.String(), args)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// wrapTmuxError maps tmux stderr text onto sentinel errors so callers
// can distinguish "gone" from real failures.
func wrapTmuxError(err error, stderr string, args []string) error {
	stderr = strings.TrimSpace(stderr)
	if strings.Contains(stderr, "no server running") ||
		strings.Contains(stderr, "error connecting to") ||
		strings.Contains(stderr, "server exited unexpectedly") {
		return ErrNoServer
	}
	if strings.Contains(stderr, "session not found") ||
		strings.Contains(stderr, "can't find session") ||
		strings.Contains(stderr, "can't find window") ||
		strings.Contains(stderr, "can't find pane") ||
		strings.Contains(stderr, "window not found") {
		return schema.ErrSurfaceGone
	}
	if stderr != "" {
		return fmt.Errorf("tmux %s: %s", args[0], stderr)
	}
	return fmt.Errorf("tmux %s: %w", args[0], err)
}

// surfaceGone reports whether err means the target surface or server no
// longer exists.
func surfaceGone(err error) bool {
	return errors.Is(err, schema.ErrSurfaceGone) || errors.Is(err, ErrNoServer)
}
