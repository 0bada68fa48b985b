package core

import (
	"context"
	"path/filepath"

	"pkt.systems/agentpane/schema"
	"pkt.systems/pslog"
)

// Locator rediscovers the current agent session from live host state.
// There is deliberately no registry of spawned sessions: a registry can
// go stale when a surface is closed by other means or the process is
// killed externally, so liveness is re-derived by scanning surfaces on
// every call. The scan is O(open surfaces), which is small.
type Locator struct {
	agentName string
	host      Host
	procs     ProcessTable
	log       pslog.Logger
}

// NewLocator builds a locator matching surfaces against the configured
// agent command.
func NewLocator(cfg schema.BridgeConfig, host Host, procs ProcessTable, logger pslog.Logger) *Locator {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Locator{
		agentName: filepath.Base(cfg.AgentCommand),
		host:      host,
		procs:     procs,
		log:       logger,
	}
}

// FindSession returns the first open surface whose attached subprocess
// runs the agent command. Ordering among multiple matches is host
// enumeration order; in practice at most one is expected. A failed
// process-identity lookup (the process vanished between enumeration and
// check) is treated as "no match", not an error.
func (l *Locator) FindSession(ctx context.Context) (schema.Surface, bool) {
	_ = ctx
	surfaces, err := l.host.Surfaces()
	if err != nil {
		l.log.Warn("locator surface scan failed", "err", err)
		return schema.Surface{}, false
	}
	for _, surface := range surfaces {
		if surface.PID <= 0 {
			continue
		}
		name, err := l.procs.ProgramName(surface.PID)
		if err != nil {
			l.log.Trace("locator process lookup failed", "surface", surface.ID, "pid", surface.PID, "err", err)
			continue
		}
		if filepath.Base(name) != l.agentName {
			continue
		}
		if !l.procs.Alive(surface.PID) {
			continue
		}
		l.log.Debug("locator session found", "surface", surface.ID, "pid", surface.PID)
		return surface, true
	}
	return schema.Surface{}, false
}
