package appconfig

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/shlex"

	"pkt.systems/agentpane/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int               `mapstructure:"config_version" yaml:"config_version"`
	Agent         AgentConfig       `mapstructure:"agent" yaml:"agent"`
	Tmux          TmuxConfig        `mapstructure:"tmux" yaml:"tmux"`
	Keys          KeysConfig        `mapstructure:"keys" yaml:"keys"`
	Placeholders  map[string]string `mapstructure:"placeholders" yaml:"placeholders"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// AgentConfig controls how the agent subprocess is spawned and fed.
type AgentConfig struct {
	// Command is the agent invocation; extra arguments may follow the
	// executable and are shell-split.
	Command         string `mapstructure:"command" yaml:"command"`
	SpawnDelayMs    int    `mapstructure:"spawn_delay_ms" yaml:"spawn_delay_ms"`
	InputTerminator string `mapstructure:"input_terminator" yaml:"input_terminator"`
}

// TmuxConfig configures the tmux display host.
type TmuxConfig struct {
	Socket         string `mapstructure:"socket" yaml:"socket"`
	Session        string `mapstructure:"session" yaml:"session"`
	DebounceMs     int    `mapstructure:"debounce_ms" yaml:"debounce_ms"`
	PollIntervalMs int    `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms"`
}

// KeysConfig holds the optional key-binding prefix editors should
// mount the bridge commands under.
type KeysConfig struct {
	LeaderPrefix string `mapstructure:"leader_prefix" yaml:"leader_prefix"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Agent: AgentConfig{
			Command:         "claude",
			SpawnDelayMs:    100,
			InputTerminator: "\r",
		},
		Tmux: TmuxConfig{
			Socket:         "agentpane",
			Session:        "agentpane",
			DebounceMs:     100,
			PollIntervalMs: 500,
		},
		Keys: KeysConfig{
			LeaderPrefix: "<leader>a",
		},
		Placeholders: map[string]string{},
	}
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".agentpane", "config.yaml"), nil
}

// Bridge converts the file config into the normalized runtime bridge
// configuration, shell-splitting the agent command into argv.
func (c Config) Bridge() (schema.BridgeConfig, error) {
	argv, err := shlex.Split(c.Agent.Command)
	if err != nil {
		return schema.BridgeConfig{}, err
	}
	cfg := schema.BridgeConfig{
		SpawnDelay:      time.Duration(c.Agent.SpawnDelayMs) * time.Millisecond,
		InputTerminator: c.Agent.InputTerminator,
		Placeholders:    c.Placeholders,
	}
	if len(argv) > 0 {
		cfg.AgentCommand = argv[0]
		cfg.AgentArgs = argv[1:]
	}
	return schema.NormalizeBridgeConfig(cfg)
}
