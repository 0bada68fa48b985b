package appconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from the provided path. If path is empty, uses DefaultConfigPath.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("agent.command", cfg.Agent.Command)
	v.SetDefault("agent.spawn_delay_ms", cfg.Agent.SpawnDelayMs)
	v.SetDefault("agent.input_terminator", cfg.Agent.InputTerminator)
	v.SetDefault("tmux.socket", cfg.Tmux.Socket)
	v.SetDefault("tmux.session", cfg.Tmux.Session)
	v.SetDefault("tmux.debounce_ms", cfg.Tmux.DebounceMs)
	v.SetDefault("tmux.poll_interval_ms", cfg.Tmux.PollIntervalMs)
	v.SetDefault("keys.leader_prefix", cfg.Keys.LeaderPrefix)
	v.SetDefault("placeholders", cfg.Placeholders)

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.IsSet("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
		if !v.IsSet("agent.command") {
			return Config{}, fmt.Errorf("agent.command is required for config_version %d", CurrentConfigVersion)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	expandConfigEnv(&cfg)
	if cfg.Agent.SpawnDelayMs < 0 {
		return Config{}, fmt.Errorf("agent.spawn_delay_ms must not be negative")
	}
	if cfg.Tmux.Socket == "" || cfg.Tmux.Session == "" {
		return Config{}, fmt.Errorf("tmux.socket and tmux.session must not be empty")
	}
	return cfg, nil
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.Agent.Command = expandEnv(cfg.Agent.Command)
	cfg.Tmux.Socket = expandEnv(cfg.Tmux.Socket)
	cfg.Tmux.Session = expandEnv(cfg.Tmux.Session)
	for key, value := range cfg.Placeholders {
		cfg.Placeholders[key] = expandEnv(value)
	}
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := lookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

func lookupEnv(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	switch key {
	case "UID":
		return fmt.Sprintf("%d", os.Getuid()), true
	case "GID":
		return fmt.Sprintf("%d", os.Getgid()), true
	}
	return "", false
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
