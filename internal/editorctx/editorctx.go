// Package editorctx captures the invoking editor's state. Editors hand
// the bridge their current file, cursor line, and selection through
// command flags or environment variables; this package turns those into
// the context placeholders resolve against.
package editorctx

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pkt.systems/agentpane/schema"
)

// Environment variables editors may export instead of passing flags.
const (
	EnvFile  = "AGENTPANE_FILE"
	EnvLine  = "AGENTPANE_LINE"
	EnvRange = "AGENTPANE_RANGE"
)

// Build assembles an editor context from explicit values. Flag values
// win over environment variables; either source may be partial. An
// empty file means no editor context, which is valid: placeholders then
// resolve absent and stay literal.
func Build(file string, line int, rangeSpec string) (schema.EditorContext, error) {
	if file == "" {
		file = os.Getenv(EnvFile)
	}
	if line == 0 {
		if raw := os.Getenv(EnvLine); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return schema.EditorContext{}, fmt.Errorf("%s: %w", EnvLine, err)
			}
			line = parsed
		}
	}
	if rangeSpec == "" {
		rangeSpec = os.Getenv(EnvRange)
	}

	ctx := schema.EditorContext{
		Path: cleanPath(file),
		Line: line,
	}
	if rangeSpec != "" {
		rng, err := ParseRange(rangeSpec)
		if err != nil {
			return schema.EditorContext{}, err
		}
		ctx.Range = rng
	}
	return ctx, nil
}

// ParseRange parses "a-b" or "a" into a normalized line range.
func ParseRange(spec string) (*schema.LineRange, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	start, end, found := strings.Cut(spec, "-")
	if !found {
		end = start
	}
	first, err := parseLine(start)
	if err != nil {
		return nil, err
	}
	last, err := parseLine(end)
	if err != nil {
		return nil, err
	}
	rng := schema.NewLineRange(first, last)
	return &rng, nil
}

func parseLine(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", schema.ErrInvalidRange, raw)
	}
	if value < 1 {
		return 0, fmt.Errorf("%w: line %d", schema.ErrInvalidRange, value)
	}
	return value, nil
}

// cleanPath normalizes the file path. References should read the way
// the editor shows the file, so relative paths stay relative and an
// absolute path under the working directory is shortened to one.
func cleanPath(path string) string {
	if path == "" {
		return ""
	}
	path = filepath.Clean(path)
	if !filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
