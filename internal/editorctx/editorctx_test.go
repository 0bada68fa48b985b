package editorctx

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pkt.systems/agentpane/schema"
)

func TestBuildFromFlags(t *testing.T) {
	ctx, err := Build("src/main.go", 42, "10-20")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if ctx.Path != "src/main.go" || ctx.Line != 42 {
		t.Fatalf("unexpected context %+v", ctx)
	}
	if ctx.Range == nil || ctx.Range.Start != 10 || ctx.Range.End != 20 {
		t.Fatalf("unexpected range %+v", ctx.Range)
	}
}

func TestBuildFallsBackToEnv(t *testing.T) {
	t.Setenv(EnvFile, "lib/util.go")
	t.Setenv(EnvLine, "7")
	t.Setenv(EnvRange, "3-5")

	ctx, err := Build("", 0, "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if ctx.Path != "lib/util.go" || ctx.Line != 7 {
		t.Fatalf("unexpected context %+v", ctx)
	}
	if ctx.Range == nil || ctx.Range.Start != 3 || ctx.Range.End != 5 {
		t.Fatalf("unexpected range %+v", ctx.Range)
	}
}

func TestBuildFlagsWinOverEnv(t *testing.T) {
	t.Setenv(EnvFile, "env.go")
	ctx, err := Build("flag.go", 0, "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if ctx.Path != "flag.go" {
		t.Fatalf("expected flag path, got %q", ctx.Path)
	}
}

func TestBuildEmptyContextIsValid(t *testing.T) {
	ctx, err := Build("", 0, "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if ctx.Path != "" || ctx.Line != 0 || ctx.Range != nil {
		t.Fatalf("expected empty context, got %+v", ctx)
	}
}

func TestParseRangeSingleLine(t *testing.T) {
	rng, err := ParseRange("7")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rng.Start != 7 || rng.End != 7 {
		t.Fatalf("unexpected range %+v", rng)
	}
}

func TestParseRangeNormalizesReversed(t *testing.T) {
	rng, err := ParseRange("20-10")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rng.Start != 10 || rng.End != 20 {
		t.Fatalf("expected normalized range, got %+v", rng)
	}
}

func TestParseRangeRejectsGarbage(t *testing.T) {
	for _, spec := range []string{"x", "1-y", "0", "3-0", "-2"} {
		if _, err := ParseRange(spec); !errors.Is(err, schema.ErrInvalidRange) {
			t.Fatalf("expected ErrInvalidRange for %q, got %v", spec, err)
		}
	}
}

func TestCleanPathKeepsRelative(t *testing.T) {
	if got := cleanPath("./src/../src/main.go"); got != "src/main.go" {
		t.Fatalf("expected cleaned relative path, got %q", got)
	}
}

func TestCleanPathShortensUnderWorkingDir(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if got := cleanPath(filepath.Join(cwd, "pkg", "x.go")); got != filepath.Join("pkg", "x.go") {
		t.Fatalf("expected relative path, got %q", got)
	}
	if got := cleanPath("/nonexistent-root/y.go"); got != "/nonexistent-root/y.go" {
		t.Fatalf("expected absolute path kept, got %q", got)
	}
}

func TestSelectionRangeNormalized(t *testing.T) {
	ctx := schema.EditorContext{Range: &schema.LineRange{Start: 9, End: 3}}
	rng := ctx.SelectionRange()
	if rng == nil || rng.Start != 3 || rng.End != 9 {
		t.Fatalf("unexpected range %+v", rng)
	}
	if (schema.EditorContext{}).SelectionRange() != nil {
		t.Fatalf("expected nil range without selection")
	}
}
