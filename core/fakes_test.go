package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pkt.systems/agentpane/schema"
)

// fakeHost is an in-memory Host whose scheduled callbacks fire only
// when the test calls fireScheduled.
type fakeHost struct {
	mu        sync.Mutex
	surfaces  []schema.Surface
	alive     map[schema.SurfaceID]bool
	nextID    int
	createErr error

	created   []SpawnRequest
	sent      map[schema.SurfaceID][]string
	focused   []schema.SurfaceID
	destroyed []schema.SurfaceID

	exitFns  []func(schema.ProcessID)
	focusFns []func(schema.SurfaceID)

	scheduled []*fakeTimer
}

type fakeTimer struct {
	fn       func()
	canceled bool
	fired    bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		alive: make(map[schema.SurfaceID]bool),
		sent:  make(map[schema.SurfaceID][]string),
	}
}

func (h *fakeHost) addSurface(pid schema.ProcessID, title string) schema.Surface {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	surface := schema.Surface{
		ID:    schema.SurfaceID(fmt.Sprintf("@%d", h.nextID)),
		PID:   pid,
		Title: title,
	}
	h.surfaces = append(h.surfaces, surface)
	h.alive[surface.ID] = true
	return surface
}

func (h *fakeHost) Surfaces() ([]schema.Surface, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]schema.Surface(nil), h.surfaces...), nil
}

func (h *fakeHost) CreateSurface(_ context.Context, req SpawnRequest) (schema.Surface, error) {
	if h.createErr != nil {
		return schema.Surface{}, h.createErr
	}
	h.mu.Lock()
	h.created = append(h.created, req)
	h.mu.Unlock()
	return h.addSurface(schema.ProcessID(1000+len(h.created)), req.Title), nil
}

func (h *fakeHost) SendText(id schema.SurfaceID, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.alive[id] {
		return schema.ErrSurfaceGone
	}
	h.sent[id] = append(h.sent[id], text)
	return nil
}

func (h *fakeHost) Focus(id schema.SurfaceID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.focused = append(h.focused, id)
	return nil
}

func (h *fakeHost) DestroySurface(id schema.SurfaceID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = append(h.destroyed, id)
	h.alive[id] = false
	kept := h.surfaces[:0]
	for _, surface := range h.surfaces {
		if surface.ID != id {
			kept = append(kept, surface)
		}
	}
	h.surfaces = kept
	return nil
}

func (h *fakeHost) Alive(id schema.SurfaceID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.alive[id]
}

func (h *fakeHost) OnExit(fn func(schema.ProcessID)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exitFns = append(h.exitFns, fn)
	return func() {}
}

func (h *fakeHost) OnFocusGained(fn func(schema.SurfaceID)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.focusFns = append(h.focusFns, fn)
	return func() {}
}

func (h *fakeHost) Schedule(_ time.Duration, fn func()) func() {
	h.mu.Lock()
	timer := &fakeTimer{fn: fn}
	h.scheduled = append(h.scheduled, timer)
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		timer.canceled = true
		h.mu.Unlock()
	}
}

// fireScheduled runs every pending scheduled callback that was not
// canceled, simulating the spawn delay elapsing.
func (h *fakeHost) fireScheduled() {
	h.mu.Lock()
	pending := append([]*fakeTimer(nil), h.scheduled...)
	h.mu.Unlock()
	for _, timer := range pending {
		h.mu.Lock()
		skip := timer.canceled || timer.fired
		timer.fired = true
		h.mu.Unlock()
		if skip {
			continue
		}
		timer.fn()
	}
}

func (h *fakeHost) sentTo(id schema.SurfaceID) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.sent[id]...)
}

// fakeProcs maps pids to program names.
type fakeProcs struct {
	names map[schema.ProcessID]string
}

func (p *fakeProcs) ProgramName(pid schema.ProcessID) (string, error) {
	name, ok := p.names[pid]
	if !ok {
		return "", fmt.Errorf("no such process %d", pid)
	}
	return name, nil
}

func (p *fakeProcs) Alive(pid schema.ProcessID) bool {
	_, ok := p.names[pid]
	return ok
}

// recordingSink captures session events in order.
type recordingSink struct {
	mu     sync.Mutex
	events []schema.SessionEvent
}

func (s *recordingSink) OnSessionEvent(event schema.SessionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) kinds() []schema.SessionEventKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]schema.SessionEventKind, 0, len(s.events))
	for _, event := range s.events {
		kinds = append(kinds, event.Kind)
	}
	return kinds
}
