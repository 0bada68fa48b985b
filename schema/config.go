package schema

import (
	"strings"
	"time"
)

// DefaultSpawnDelay is how long a freshly spawned agent gets to
// initialize before scheduled delivery fires.
const DefaultSpawnDelay = 100 * time.Millisecond

// DefaultInputTerminator is appended to delivered text so the agent's
// line reader submits it.
const DefaultInputTerminator = "\r"

// BridgeConfig is the normalized runtime configuration of the bridge.
// It is constructed once at startup and passed by value; components
// never mutate shared configuration.
type BridgeConfig struct {
	// AgentCommand is the agent executable; AgentArgs precede the
	// "agent" subcommand on spawn.
	AgentCommand string
	AgentArgs    []string
	// SpawnDelay defers delivery to a freshly spawned agent.
	SpawnDelay time.Duration
	// InputTerminator follows delivered text on the input stream.
	InputTerminator string
	// Placeholders maps extra token text to static replacement text,
	// merged over the built-in tokens (last registration wins).
	Placeholders map[string]string
}

// NormalizeBridgeConfig validates cfg and fills defaults.
func NormalizeBridgeConfig(cfg BridgeConfig) (BridgeConfig, error) {
	cfg.AgentCommand = strings.TrimSpace(cfg.AgentCommand)
	if cfg.AgentCommand == "" {
		return BridgeConfig{}, ErrInvalidConfig
	}
	if cfg.SpawnDelay < 0 {
		return BridgeConfig{}, ErrInvalidConfig
	}
	if cfg.SpawnDelay == 0 {
		cfg.SpawnDelay = DefaultSpawnDelay
	}
	if cfg.InputTerminator == "" {
		cfg.InputTerminator = DefaultInputTerminator
	}
	return cfg, nil
}
