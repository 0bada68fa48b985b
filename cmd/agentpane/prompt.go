package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/agentpane/internal/editorctx"
	"pkt.systems/agentpane/schema"
	"pkt.systems/pslog"
)

// editorFlags are the editor-state flags shared by prompt and ask.
type editorFlags struct {
	file      string
	line      int
	rangeSpec string
}

func (f *editorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "current file in the editor (or $AGENTPANE_FILE)")
	cmd.Flags().IntVar(&f.line, "line", 0, "cursor line, 1-based (or $AGENTPANE_LINE)")
	cmd.Flags().StringVar(&f.rangeSpec, "range", "", "selection as start-end (or $AGENTPANE_RANGE)")
}

func (f *editorFlags) context() (schema.EditorContext, error) {
	return editorctx.Build(f.file, f.line, f.rangeSpec)
}

func newPromptCmd() *cobra.Command {
	var cfgPath string
	var editor editorFlags
	cmd := &cobra.Command{
		Use:   "prompt [text...]",
		Short: "Render placeholders and send a prompt to the agent session",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "" || text == "-" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = strings.TrimRight(string(raw), "\r\n")
			}
			editorCtx, err := editor.context()
			if err != nil {
				return err
			}

			rt, err := openBridge(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			defer rt.close()

			events, unsubscribe := rt.bus.Subscribe()
			defer unsubscribe()

			if err := rt.bridge.Prompt(cmd.Context(), text, editorCtx); err != nil {
				return suppressEmptyPrompt(cmd, err)
			}
			// A spawn-delayed delivery is still pending here; closing
			// now would cancel it before it fires.
			if err := rt.bridge.Flush(cmd.Context()); err != nil {
				return err
			}
			reportEvents(cmd, events)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file path")
	editor.register(cmd)
	return cmd
}

func newOpenCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Focus the agent session, spawning one when none exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openBridge(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			defer rt.close()

			events, unsubscribe := rt.bus.Subscribe()
			defer unsubscribe()

			if err := rt.bridge.OpenOrFocus(cmd.Context()); err != nil {
				return err
			}
			reportEvents(cmd, events)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file path")
	return cmd
}

// suppressEmptyPrompt turns an all-whitespace rendered prompt into a
// silent no-op: nothing was sent and no session action was taken, so
// the invocation is not a failure.
func suppressEmptyPrompt(cmd *cobra.Command, err error) error {
	if errors.Is(err, schema.ErrEmptyPrompt) {
		pslog.Ctx(cmd.Context()).Debug("prompt empty, nothing sent")
		return nil
	}
	return err
}

// reportEvents drains the session events this invocation produced.
// Emission is synchronous with the bridge call, so everything relevant
// is already buffered.
func reportEvents(cmd *cobra.Command, events <-chan schema.SessionEvent) {
	logger := pslog.Ctx(cmd.Context())
	for {
		select {
		case event := <-events:
			logger.Info("session event", "kind", event.Kind, "surface", event.Surface, "pid", event.PID)
			if event.Kind == schema.SessionSpawned {
				fmt.Fprintf(cmd.OutOrStdout(), "spawned agent session %s\n", event.Surface)
			}
		default:
			return
		}
	}
}
