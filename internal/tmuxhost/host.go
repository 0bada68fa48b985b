package tmuxhost

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"pkt.systems/agentpane/core"
	"pkt.systems/agentpane/schema"
	"pkt.systems/pslog"
)

const paneListFormat = "#{window_id}\t#{pane_pid}\t#{pane_dead}\t#{window_active}\t#{window_name}"

// Options configures the tmux display host.
type Options struct {
	Socket       string
	Session      string
	Debounce     time.Duration
	PollInterval time.Duration
	Logger       pslog.Logger
}

// Host drives a dedicated tmux server as the display surface host.
// Windows are surfaces: the window id is the surface id and the first
// pane's subprocess is the surface subprocess. Exit and focus signals
// are derived by polling the pane list, since a detached tmux server
// pushes no events to us.
type Host struct {
	tmux     runner
	session  string
	debounce time.Duration
	poll     time.Duration
	log      pslog.Logger

	mu       sync.Mutex
	nextObs  int
	exitFns  map[int]func(schema.ProcessID)
	focusFns map[int]func(schema.SurfaceID)

	stopWatch chan struct{}
	watchDone chan struct{}
}

// New builds a Host on the configured socket and session and starts the
// lifecycle watcher when a poll interval is set.
func New(opts Options) *Host {
	logger := opts.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	h := &Host{
		tmux:     newExecRunner(opts.Socket),
		session:  opts.Session,
		debounce: opts.Debounce,
		poll:     opts.PollInterval,
		log:      logger,
		exitFns:  make(map[int]func(schema.ProcessID)),
		focusFns: make(map[int]func(schema.SurfaceID)),
	}
	if h.poll > 0 {
		h.stopWatch = make(chan struct{})
		h.watchDone = make(chan struct{})
		go h.watch()
	}
	return h
}

// Close stops the lifecycle watcher. The tmux server and its surfaces
// stay up; the bridge rediscovers them on the next run.
func (h *Host) Close() {
	if h.stopWatch == nil {
		return
	}
	select {
	case <-h.stopWatch:
	default:
		close(h.stopWatch)
		<-h.watchDone
	}
}

// Surfaces lists the session's windows in tmux order. A missing server
// or session means no surfaces, not an error.
func (h *Host) Surfaces() ([]schema.Surface, error) {
	panes, err := h.listPanes()
	if err != nil {
		if surfaceGone(err) {
			return nil, nil
		}
		return nil, err
	}
	surfaces := make([]schema.Surface, 0, len(panes))
	for _, pane := range panes {
		surfaces = append(surfaces, schema.Surface{
			ID:    pane.WindowID,
			PID:   pane.PID,
			Title: pane.Title,
		})
	}
	return surfaces, nil
}

// CreateSurface opens a new window running the requested command. The
// first surface also creates the detached session.
func (h *Host) CreateSurface(ctx context.Context, req core.SpawnRequest) (schema.Surface, error) {
	if err := ctx.Err(); err != nil {
		return schema.Surface{}, err
	}
	command := quoteCommand(req.Command, req.Args)
	var args []string
	if h.hasSession() {
		args = []string{"new-window", "-t", h.session, "-P", "-F", "#{window_id}"}
	} else {
		args = []string{"new-session", "-d", "-s", h.session, "-P", "-F", "#{window_id}"}
	}
	if req.Title != "" {
		args = append(args, "-n", req.Title)
	}
	if req.WorkingDir != "" {
		args = append(args, "-c", req.WorkingDir)
	}
	args = append(args, command)
	out, err := h.tmux.run(args...)
	if err != nil {
		return schema.Surface{}, err
	}
	id := schema.SurfaceID(strings.TrimSpace(out))
	surface := schema.Surface{ID: id, Title: req.Title}
	if out, err := h.tmux.run("display-message", "-p", "-t", string(id), "#{pane_pid}"); err == nil {
		if pid, perr := strconv.Atoi(strings.TrimSpace(out)); perr == nil {
			surface.PID = schema.ProcessID(pid)
		}
	}
	h.log.Debug("tmuxhost surface created", "surface", id, "pid", surface.PID)
	return surface, nil
}

// SendText delivers text to the window's subprocess. Trailing carriage
// returns and newlines are not typed literally: the body goes through
// send-keys -l, and after a short debounce a separate Enter key press
// confirms it. Interactive agent inputs treat a fast literal newline as
// part of a paste, so the debounced Enter is what actually submits.
func (h *Host) SendText(id schema.SurfaceID, text string) error {
	body, terminated := splitTerminator(text)
	if body != "" {
		if _, err := h.tmux.run("send-keys", "-t", string(id), "-l", "--", body); err != nil {
			return err
		}
	}
	if !terminated {
		return nil
	}
	if h.debounce > 0 {
		time.Sleep(h.debounce)
	}
	_, err := h.tmux.run("send-keys", "-t", string(id), "Enter")
	return err
}

// Focus selects the window and, when a client is attached, switches it
// there. The switch is best effort: a detached server has no client to
// move.
func (h *Host) Focus(id schema.SurfaceID) error {
	if _, err := h.tmux.run("select-window", "-t", string(id)); err != nil {
		return err
	}
	if _, err := h.tmux.run("switch-client", "-t", string(id)); err != nil {
		h.log.Trace("tmuxhost switch-client skipped", "surface", id, "err", err)
	}
	return nil
}

// DestroySurface kills the window. Destroying a window that is already
// gone is a no-op.
func (h *Host) DestroySurface(id schema.SurfaceID) error {
	if _, err := h.tmux.run("kill-window", "-t", string(id)); err != nil && !surfaceGone(err) {
		return err
	}
	return nil
}

// Alive reports whether the window exists and its pane subprocess has
// not exited.
func (h *Host) Alive(id schema.SurfaceID) bool {
	out, err := h.tmux.run("display-message", "-p", "-t", string(id), "#{pane_dead}")
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) != "1"
}

// OnExit registers an observer for subprocess termination.
func (h *Host) OnExit(fn func(schema.ProcessID)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextObs++
	key := h.nextObs
	h.exitFns[key] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.exitFns, key)
	}
}

// OnFocusGained registers an observer for a window becoming active.
func (h *Host) OnFocusGained(fn func(schema.SurfaceID)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextObs++
	key := h.nextObs
	h.focusFns[key] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.focusFns, key)
	}
}

// Schedule runs fn once after d.
func (h *Host) Schedule(d time.Duration, fn func()) func() {
	timer := time.AfterFunc(d, fn)
	return func() { timer.Stop() }
}

func (h *Host) hasSession() bool {
	_, err := h.tmux.run("has-session", "-t", "="+h.session)
	return err == nil
}

type paneInfo struct {
	WindowID schema.SurfaceID
	PID      schema.ProcessID
	Dead     bool
	Active   bool
	Title    string
}

// listPanes returns one entry per window, keeping the first pane of
// each window as the surface subprocess.
func (h *Host) listPanes() ([]paneInfo, error) {
	out, err := h.tmux.run("list-panes", "-s", "-t", h.session, "-F", paneListFormat)
	if err != nil {
		return nil, err
	}
	return parsePaneList(out), nil
}

func parsePaneList(out string) []paneInfo {
	var panes []paneInfo
	seen := make(map[schema.SurfaceID]bool)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 5)
		if len(fields) < 4 {
			continue
		}
		id := schema.SurfaceID(fields[0])
		if seen[id] {
			continue
		}
		seen[id] = true
		pane := paneInfo{
			WindowID: id,
			Dead:     fields[2] == "1",
			Active:   fields[3] == "1",
		}
		if pid, err := strconv.Atoi(fields[1]); err == nil {
			pane.PID = schema.ProcessID(pid)
		}
		if len(fields) == 5 {
			pane.Title = fields[4]
		}
		panes = append(panes, pane)
	}
	return panes
}

// quoteCommand joins argv into a single tmux shell command with each
// word single-quoted.
func quoteCommand(command string, args []string) string {
	words := make([]string, 0, len(args)+1)
	words = append(words, shellQuote(command))
	for _, arg := range args {
		words = append(words, shellQuote(arg))
	}
	return strings.Join(words, " ")
}

func shellQuote(word string) string {
	if word == "" {
		return "''"
	}
	if !strings.ContainsAny(word, " \t\n'\"\\$`!*?[](){}<>;&|~#") {
		return word
	}
	return "'" + strings.ReplaceAll(word, "'", `'\''`) + "'"
}

// splitTerminator strips trailing carriage returns and newlines from
// text and reports whether any were present.
func splitTerminator(text string) (body string, terminated bool) {
	body = strings.TrimRight(text, "\r\n")
	return body, body != text
}
