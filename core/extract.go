package core

import (
	"fmt"

	"pkt.systems/agentpane/schema"
)

// Resolver produces the replacement text for a placeholder token. The
// second return value is false when no value is available for the
// captured editor state; the renderer then leaves the token untouched.
type Resolver interface {
	Resolve(ctx schema.EditorContext) (string, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx schema.EditorContext) (string, bool)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ctx schema.EditorContext) (string, bool) {
	return f(ctx)
}

// FormatReference renders the canonical file reference: @path for the
// whole file, @path:line for a point, @path:start-end for a span. A
// single-line span collapses to the point form.
func FormatReference(path string, rng *schema.LineRange) string {
	if path == "" {
		return ""
	}
	if rng == nil {
		return "@" + path
	}
	normalized := rng.Normalized()
	if normalized.Single() {
		return fmt.Sprintf("@%s:%d", path, normalized.Start)
	}
	return fmt.Sprintf("@%s:%d-%d", path, normalized.Start, normalized.End)
}

// ResolveBuffer renders a reference to the current file.
func ResolveBuffer(ctx schema.EditorContext) (string, bool) {
	if ctx.Path == "" {
		return "", false
	}
	return FormatReference(ctx.Path, nil), true
}

// ResolveCursor renders a reference to the cursor position. An unknown
// cursor line degrades to the whole-file reference.
func ResolveCursor(ctx schema.EditorContext) (string, bool) {
	if ctx.Path == "" {
		return "", false
	}
	if ctx.Line < 1 {
		return FormatReference(ctx.Path, nil), true
	}
	line := schema.LineRange{Start: ctx.Line, End: ctx.Line}
	return FormatReference(ctx.Path, &line), true
}

// ResolveSelection renders a reference to the active selection, or
// resolves absent when no range was captured.
func ResolveSelection(ctx schema.EditorContext) (string, bool) {
	rng := ctx.SelectionRange()
	if ctx.Path == "" || rng == nil {
		return "", false
	}
	return FormatReference(ctx.Path, rng), true
}

// ResolveThis is the computed alias: selection when a range is active,
// cursor otherwise.
func ResolveThis(ctx schema.EditorContext) (string, bool) {
	if ref, ok := ResolveSelection(ctx); ok {
		return ref, true
	}
	return ResolveCursor(ctx)
}

// StaticResolver always resolves to the given text. Used for
// user-configured placeholder tokens.
func StaticResolver(text string) Resolver {
	return ResolverFunc(func(schema.EditorContext) (string, bool) {
		return text, true
	})
}
