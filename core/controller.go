package core

import (
	"context"
	"strings"
	"sync"

	"pkt.systems/agentpane/internal/logx"
	"pkt.systems/agentpane/schema"
	"pkt.systems/pslog"
)

// Controller drives the agent session lifecycle: it reuses the live
// session when the locator finds one, spawns a new surface otherwise,
// and tears surfaces down when their subprocess exits. Session state is
// never stored; it is rederived from host state on every operation.
type Controller struct {
	cfg     schema.BridgeConfig
	host    Host
	locator *Locator
	sink    EventSink
	log     pslog.Logger

	mu      sync.Mutex
	pending map[schema.SurfaceID]func()
	waiters []chan struct{}

	stopExit  func()
	stopFocus func()
}

// NewController wires a controller to the host and registers its exit
// and focus observers.
func NewController(cfg schema.BridgeConfig, deps BridgeDeps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	c := &Controller{
		cfg:     cfg,
		host:    deps.Host,
		locator: NewLocator(cfg, deps.Host, deps.Procs, logger),
		sink:    deps.Sink,
		log:     logger,
		pending: make(map[schema.SurfaceID]func()),
	}
	c.stopExit = deps.Host.OnExit(c.HandleExit)
	c.stopFocus = deps.Host.OnFocusGained(c.handleFocusGained)
	return c
}

// Deliver sends rendered text to the agent session, spawning one when
// none exists. Empty or whitespace-only text is rejected before any
// session action.
func (c *Controller) Deliver(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return schema.ErrEmptyPrompt
	}
	if surface, ok := c.locator.FindSession(ctx); ok {
		log := logx.WithSurface(logx.Ctx(ctx), surface.ID)
		c.emit(schema.SessionEvent{Kind: schema.SessionReused, Surface: surface.ID, PID: surface.PID})
		c.send(surface.ID, text)
		if err := c.host.Focus(surface.ID); err != nil {
			log.Warn("controller focus failed", "err", err)
		}
		return nil
	}
	_, err := c.launch(ctx, text)
	return err
}

// OpenOrFocus brings the agent session forward, spawning one with no
// initial message when none exists.
func (c *Controller) OpenOrFocus(ctx context.Context) error {
	if surface, ok := c.locator.FindSession(ctx); ok {
		if err := c.host.Focus(surface.ID); err != nil {
			logx.WithSurface(c.log, surface.ID).Warn("controller focus failed", "err", err)
			return err
		}
		c.emit(schema.SessionEvent{Kind: schema.SessionFocused, Surface: surface.ID, PID: surface.PID})
		return nil
	}
	_, err := c.launch(ctx, "")
	return err
}

// launch creates a new surface with the agent subprocess attached and,
// when text is present, schedules its delivery after the configured
// spawn delay. A freshly spawned interactive agent needs a moment
// before it accepts input reliably, so delivery is never synchronous on
// this path.
func (c *Controller) launch(ctx context.Context, text string) (schema.Surface, error) {
	args := append(append([]string(nil), c.cfg.AgentArgs...), "agent")
	surface, err := c.host.CreateSurface(ctx, SpawnRequest{
		Command: c.cfg.AgentCommand,
		Args:    args,
		Title:   "agent",
	})
	if err != nil {
		logx.Ctx(ctx).Error("controller spawn failed", "err", err)
		return schema.Surface{}, err
	}
	log := logx.WithPID(logx.WithSurface(logx.Ctx(ctx), surface.ID), surface.PID)
	log.Info("controller session spawned")
	c.emit(schema.SessionEvent{Kind: schema.SessionSpawned, Surface: surface.ID, PID: surface.PID})
	if text == "" {
		return surface, nil
	}

	id := surface.ID
	cancel := c.host.Schedule(c.cfg.SpawnDelay, func() {
		// Clear last so Flush only wakes once the text has landed.
		defer c.clearPending(id)
		if !c.host.Alive(id) {
			// The user already abandoned the session; drop silently.
			log.Debug("controller scheduled delivery dropped")
			c.emit(schema.SessionEvent{Kind: schema.SessionDropped, Surface: id})
			return
		}
		c.send(id, text)
	})
	c.mu.Lock()
	c.pending[id] = cancel
	c.mu.Unlock()
	return surface, nil
}

// send writes text plus the input terminator to the surface subprocess.
// The liveness check runs immediately before the write; a send that
// races surface teardown is a silent no-op, never a user-facing error.
func (c *Controller) send(id schema.SurfaceID, text string) {
	log := logx.WithSurface(c.log, id)
	if !c.host.Alive(id) {
		log.Debug("controller send skipped", "reason", "surface gone")
		return
	}
	if err := c.host.SendText(id, text+c.cfg.InputTerminator); err != nil {
		log.Warn("controller send failed", "err", err)
		return
	}
	log.Info("controller text delivered", "len", len(text))
	c.emit(schema.SessionEvent{Kind: schema.SessionDelivered, Surface: id})
}

// HandleExit tears down the surface hosting the exited subprocess. It
// is idempotent: repeated or stale exit signals, and surfaces already
// destroyed by other means, are no-ops.
func (c *Controller) HandleExit(pid schema.ProcessID) {
	surfaces, err := c.host.Surfaces()
	if err != nil {
		c.log.Warn("controller exit scan failed", "pid", pid, "err", err)
		return
	}
	for _, surface := range surfaces {
		if surface.PID != pid {
			continue
		}
		log := logx.WithPID(logx.WithSurface(c.log, surface.ID), pid)
		c.cancelPending(surface.ID)
		if err := c.host.DestroySurface(surface.ID); err != nil {
			log.Warn("controller teardown failed", "err", err)
			return
		}
		log.Info("controller session torn down")
		c.emit(schema.SessionEvent{Kind: schema.SessionExited, Surface: surface.ID, PID: pid})
		return
	}
	c.log.Trace("controller exit ignored", "pid", pid, "reason", "no surface")
}

// handleFocusGained re-requests input focus when the agent's surface
// comes back to the foreground and still hosts a live subprocess.
func (c *Controller) handleFocusGained(id schema.SurfaceID) {
	surface, ok := c.locator.FindSession(context.Background())
	if !ok || surface.ID != id {
		return
	}
	if err := c.host.Focus(id); err != nil {
		logx.WithSurface(c.log, id).Debug("controller refocus failed", "err", err)
		return
	}
	c.emit(schema.SessionEvent{Kind: schema.SessionFocused, Surface: id, PID: surface.PID})
}

// Flush blocks until every pending scheduled delivery has fired or been
// canceled, or ctx is done. Callers that tear the controller down right
// after Deliver use it to let a spawn-delayed delivery land first.
func (c *Controller) Flush(ctx context.Context) error {
	for {
		c.mu.Lock()
		if len(c.pending) == 0 {
			c.mu.Unlock()
			return nil
		}
		ch := make(chan struct{})
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels the controller's observers and any pending deliveries.
func (c *Controller) Close() {
	if c.stopExit != nil {
		c.stopExit()
	}
	if c.stopFocus != nil {
		c.stopFocus()
	}
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[schema.SurfaceID]func())
	c.wakeWaiters()
	c.mu.Unlock()
	for _, cancel := range pending {
		cancel()
	}
}

func (c *Controller) cancelPending(id schema.SurfaceID) {
	c.mu.Lock()
	cancel := c.pending[id]
	delete(c.pending, id)
	c.wakeWaiters()
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (c *Controller) clearPending(id schema.SurfaceID) {
	c.mu.Lock()
	delete(c.pending, id)
	c.wakeWaiters()
	c.mu.Unlock()
}

// wakeWaiters releases Flush callers once no deliveries are pending.
// Callers must hold c.mu.
func (c *Controller) wakeWaiters() {
	if len(c.pending) != 0 {
		return
	}
	for _, ch := range c.waiters {
		close(ch)
	}
	c.waiters = nil
}

func (c *Controller) emit(event schema.SessionEvent) {
	if c.sink == nil {
		return
	}
	c.sink.OnSessionEvent(event)
}
