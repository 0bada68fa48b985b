package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
)

func newAskCmd() *cobra.Command {
	var cfgPath string
	var defaultText string
	var editor editorFlags
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Prompt for input interactively, then send it to the agent",
		Long: "Reads one line of input, expands placeholder tokens against the\n" +
			"editor state, and delivers the result. An empty line accepts the\n" +
			"--default text; end of input cancels without sending anything.",
		RunE: func(cmd *cobra.Command, args []string) error {
			editorCtx, err := editor.context()
			if err != nil {
				return err
			}

			rt, err := openBridge(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			defer rt.close()

			fmt.Fprintf(cmd.OutOrStdout(), "placeholders: %s\n", strings.Join(rt.bridge.Tokens(), " "))
			if defaultText != "" {
				preview := rt.bridge.Render(defaultText, editorCtx)
				fmt.Fprintf(cmd.OutOrStdout(), "default: %s\n", preview)
			}
			fmt.Fprint(cmd.OutOrStdout(), "> ")

			line, err := readLine(cmd.InOrStdin())
			if err != nil {
				if errors.Is(err, io.EOF) {
					// Canceled: the user backed out, nothing is sent.
					pslog.Ctx(cmd.Context()).Debug("ask canceled")
					return nil
				}
				return err
			}
			if strings.TrimSpace(line) == "" && strings.TrimSpace(defaultText) == "" {
				return nil
			}
			if err := rt.bridge.Ask(cmd.Context(), line, defaultText, editorCtx); err != nil {
				return suppressEmptyPrompt(cmd, err)
			}
			return rt.bridge.Flush(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file path")
	cmd.Flags().StringVar(&defaultText, "default", "", "prefilled prompt accepted by an empty line")
	editor.register(cmd)
	return cmd
}

func readLine(in io.Reader) (string, error) {
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
