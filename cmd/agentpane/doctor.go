package main

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/agentpane/internal/appconfig"
	"pkt.systems/pslog"
)

func newDoctorCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run agentpane diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())

			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			configPath := cfgPath
			if strings.TrimSpace(configPath) == "" {
				path, err := appconfig.DefaultConfigPath()
				if err != nil {
					return err
				}
				configPath = path
			}
			logger.Info("doctor start", "config", configPath)

			bridgeCfg, err := cfg.Bridge()
			if err != nil {
				return err
			}
			logger.Info("doctor config ok",
				"agent", bridgeCfg.AgentCommand,
				"spawn_delay", bridgeCfg.SpawnDelay,
				"placeholders", len(bridgeCfg.Placeholders))

			tmuxPath, err := exec.LookPath("tmux")
			if err != nil {
				return fmt.Errorf("tmux not found in PATH: %w", err)
			}
			logger.Info("doctor tmux ok", "path", tmuxPath, "socket", cfg.Tmux.Socket, "session", cfg.Tmux.Session)

			agentPath, err := exec.LookPath(bridgeCfg.AgentCommand)
			if err != nil {
				return fmt.Errorf("agent command %q not found in PATH: %w", bridgeCfg.AgentCommand, err)
			}
			logger.Info("doctor agent ok", "path", agentPath)

			if prefix := strings.TrimSpace(cfg.Keys.LeaderPrefix); prefix != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "suggested editor bindings under %s:\n", prefix)
				fmt.Fprintf(cmd.OutOrStdout(), "  %sa  agentpane ask --file <file> --line <line>\n", prefix)
				fmt.Fprintf(cmd.OutOrStdout(), "  %so  agentpane open\n", prefix)
			}
			logger.Info("doctor ok")
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file path")
	return cmd
}
