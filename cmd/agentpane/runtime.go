package main

import (
	"context"
	"time"

	"pkt.systems/agentpane"
	"pkt.systems/agentpane/core"
	"pkt.systems/agentpane/internal/appconfig"
	"pkt.systems/agentpane/internal/eventbus"
	"pkt.systems/agentpane/internal/proctable"
	"pkt.systems/agentpane/internal/tmuxhost"
	"pkt.systems/pslog"
)

// runtime bundles a live bridge with the infrastructure behind it.
type runtime struct {
	bridge *agentpane.Bridge
	bus    *eventbus.Bus
	cfg    appconfig.Config
	close  func()
}

// openBridge loads config and wires the tmux host, process table, and
// event bus into a bridge.
func openBridge(ctx context.Context, cfgPath string) (*runtime, error) {
	logger := pslog.Ctx(ctx)

	cfg, err := appconfig.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	bridgeCfg, err := cfg.Bridge()
	if err != nil {
		return nil, err
	}

	host := tmuxhost.New(tmuxhost.Options{
		Socket:       cfg.Tmux.Socket,
		Session:      cfg.Tmux.Session,
		Debounce:     time.Duration(cfg.Tmux.DebounceMs) * time.Millisecond,
		PollInterval: time.Duration(cfg.Tmux.PollIntervalMs) * time.Millisecond,
		Logger:       logger,
	})
	bus := eventbus.New(logger)
	bridge, err := agentpane.New(bridgeCfg, core.BridgeDeps{
		Host:   host,
		Procs:  proctable.New(),
		Sink:   bus,
		Logger: logger,
	})
	if err != nil {
		host.Close()
		return nil, err
	}
	return &runtime{
		bridge: bridge,
		bus:    bus,
		cfg:    cfg,
		close: func() {
			bridge.Close()
			host.Close()
		},
	}, nil
}
