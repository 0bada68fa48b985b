package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/agentpane/core"
	"pkt.systems/agentpane/internal/appconfig"
)

// newCompleteCmd lists placeholder completions for a partial input
// line. It only needs the config, never the tmux host, so editors can
// call it on every keystroke.
func newCompleteCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "complete [line]",
		Short: "List placeholder completions for a partial input line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			registry := core.NewRegistry()
			registry.RegisterStatic(cfg.Placeholders)

			line := strings.Join(args, " ")
			for _, candidate := range core.Complete(line, registry) {
				fmt.Fprintln(cmd.OutOrStdout(), candidate)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file path")
	return cmd
}
