package tmuxhost

import (
	"time"

	"pkt.systems/agentpane/schema"
)

// watch polls the pane list and turns snapshot differences into exit
// and focus-gained signals. The first snapshot only primes the state so
// surfaces that existed before the watcher started do not fire signals.
func (h *Host) watch() {
	defer close(h.watchDone)
	ticker := time.NewTicker(h.poll)
	defer ticker.Stop()

	var last map[schema.SurfaceID]paneInfo
	var lastActive schema.SurfaceID
	primed := false
	for {
		select {
		case <-h.stopWatch:
			return
		case <-ticker.C:
		}
		panes, err := h.listPanes()
		if err != nil && !surfaceGone(err) {
			h.log.Trace("tmuxhost watch scan failed", "err", err)
			continue
		}
		current, active := snapshotPanes(panes)
		if primed {
			for _, pid := range exitedPIDs(last, current) {
				h.notifyExit(pid)
			}
			if active != "" && active != lastActive {
				h.notifyFocus(active)
			}
		}
		last = current
		lastActive = active
		primed = true
	}
}

// snapshotPanes indexes panes by window and returns the active window.
func snapshotPanes(panes []paneInfo) (map[schema.SurfaceID]paneInfo, schema.SurfaceID) {
	snapshot := make(map[schema.SurfaceID]paneInfo, len(panes))
	var active schema.SurfaceID
	for _, pane := range panes {
		snapshot[pane.WindowID] = pane
		if pane.Active {
			active = pane.WindowID
		}
	}
	return snapshot, active
}

// exitedPIDs returns the subprocess pids that were alive in prev and
// are gone or dead in current. A window that vanished entirely counts:
// its subprocess went with it.
func exitedPIDs(prev, current map[schema.SurfaceID]paneInfo) []schema.ProcessID {
	var exited []schema.ProcessID
	for id, before := range prev {
		if before.Dead || before.PID <= 0 {
			continue
		}
		after, ok := current[id]
		if !ok || after.Dead {
			exited = append(exited, before.PID)
		}
	}
	return exited
}

func (h *Host) notifyExit(pid schema.ProcessID) {
	h.log.Debug("tmuxhost subprocess exited", "pid", pid)
	for _, fn := range h.exitObservers() {
		fn(pid)
	}
}

func (h *Host) notifyFocus(id schema.SurfaceID) {
	h.log.Trace("tmuxhost window activated", "surface", id)
	for _, fn := range h.focusObservers() {
		fn(id)
	}
}

func (h *Host) exitObservers() []func(schema.ProcessID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fns := make([]func(schema.ProcessID), 0, len(h.exitFns))
	for _, fn := range h.exitFns {
		fns = append(fns, fn)
	}
	return fns
}

func (h *Host) focusObservers() []func(schema.SurfaceID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fns := make([]func(schema.SurfaceID), 0, len(h.focusFns))
	for _, fn := range h.focusFns {
		fns = append(fns, fn)
	}
	return fns
}
