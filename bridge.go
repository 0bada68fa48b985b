// Package agentpane bridges an editor to an interactive AI agent
// running in a terminal multiplexer. Prompts carry placeholder tokens
// that expand into references to the editor's current file, cursor, and
// selection; delivery reuses the live agent session or spawns one.
package agentpane

import (
	"context"
	"strings"

	"pkt.systems/agentpane/core"
	"pkt.systems/agentpane/schema"
	"pkt.systems/pslog"
)

// Bridge composes the placeholder registry and the session controller
// behind one editor-facing API.
type Bridge struct {
	cfg        schema.BridgeConfig
	registry   *core.Registry
	controller *core.Controller
	log        pslog.Logger
}

// New builds a bridge from a normalized config and its host
// dependencies. Extra sinks receive session events alongside the one in
// deps.
func New(cfg schema.BridgeConfig, deps core.BridgeDeps, sinks ...core.EventSink) (*Bridge, error) {
	cfg, err := schema.NormalizeBridgeConfig(cfg)
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	registry := core.NewRegistry()
	registry.RegisterStatic(cfg.Placeholders)

	deps.Logger = logger
	deps.Sink = eventFanout{sinks: append([]core.EventSink{deps.Sink}, sinks...)}
	return &Bridge{
		cfg:        cfg,
		registry:   registry,
		controller: core.NewController(cfg, deps),
		log:        logger,
	}, nil
}

// Prompt renders the placeholder tokens in text against the editor
// context and delivers the result to the agent session.
func (b *Bridge) Prompt(ctx context.Context, text string, editor schema.EditorContext) error {
	rendered := core.Render(text, b.registry, editor)
	b.log.Debug("bridge prompt", "len", len(rendered))
	return b.controller.Deliver(ctx, rendered)
}

// Render expands placeholder tokens without delivering anything. The
// ask flow uses it to preview the prompt before confirmation.
func (b *Bridge) Render(text string, editor schema.EditorContext) string {
	return core.Render(text, b.registry, editor)
}

// Ask delivers text, substituting defaultText when the answer is blank.
// A blank answer with no default is the empty prompt case.
func (b *Bridge) Ask(ctx context.Context, text, defaultText string, editor schema.EditorContext) error {
	if strings.TrimSpace(text) == "" {
		text = defaultText
	}
	return b.Prompt(ctx, text, editor)
}

// OpenOrFocus brings the agent session forward, spawning one when none
// exists.
func (b *Bridge) OpenOrFocus(ctx context.Context) error {
	return b.controller.OpenOrFocus(ctx)
}

// Flush waits for a pending spawn-delayed delivery to land before the
// caller tears the bridge down.
func (b *Bridge) Flush(ctx context.Context) error {
	return b.controller.Flush(ctx)
}

// Complete returns input-assist candidates for a partial input line.
func (b *Bridge) Complete(line string) []string {
	return core.Complete(line, b.registry)
}

// Tokens lists the registered placeholder tokens.
func (b *Bridge) Tokens() []string {
	return b.registry.Tokens()
}

// Close detaches the bridge from its host observers and cancels any
// pending deliveries.
func (b *Bridge) Close() {
	b.controller.Close()
}
