package core

import (
	"context"
	"testing"

	"pkt.systems/agentpane/schema"
)

func testBridgeConfig() schema.BridgeConfig {
	cfg, err := schema.NormalizeBridgeConfig(schema.BridgeConfig{
		AgentCommand: "/usr/local/bin/claude",
	})
	if err != nil {
		panic(err)
	}
	return cfg
}

func TestFindSessionMatchesProgramName(t *testing.T) {
	host := newFakeHost()
	host.addSurface(100, "shell")
	agent := host.addSurface(200, "agent")
	procs := &fakeProcs{names: map[schema.ProcessID]string{
		100: "bash",
		200: "/usr/bin/claude",
	}}
	locator := NewLocator(testBridgeConfig(), host, procs, nil)

	surface, ok := locator.FindSession(context.Background())
	if !ok {
		t.Fatalf("expected session to be found")
	}
	if surface.ID != agent.ID {
		t.Fatalf("expected surface %s, got %s", agent.ID, surface.ID)
	}
}

func TestFindSessionNoMatch(t *testing.T) {
	host := newFakeHost()
	host.addSurface(100, "shell")
	procs := &fakeProcs{names: map[schema.ProcessID]string{100: "bash"}}
	locator := NewLocator(testBridgeConfig(), host, procs, nil)

	if _, ok := locator.FindSession(context.Background()); ok {
		t.Fatalf("expected no session")
	}
}

func TestFindSessionSkipsVanishedProcess(t *testing.T) {
	host := newFakeHost()
	host.addSurface(100, "stale")
	agent := host.addSurface(200, "agent")
	procs := &fakeProcs{names: map[schema.ProcessID]string{200: "claude"}}
	locator := NewLocator(testBridgeConfig(), host, procs, nil)

	surface, ok := locator.FindSession(context.Background())
	if !ok || surface.ID != agent.ID {
		t.Fatalf("expected vanished pid to be skipped, got %v ok=%v", surface, ok)
	}
}

func TestFindSessionSkipsInvalidPID(t *testing.T) {
	host := newFakeHost()
	host.addSurface(0, "weird")
	procs := &fakeProcs{names: map[schema.ProcessID]string{}}
	locator := NewLocator(testBridgeConfig(), host, procs, nil)

	if _, ok := locator.FindSession(context.Background()); ok {
		t.Fatalf("expected no session")
	}
}

func TestFindSessionFirstMatchWins(t *testing.T) {
	host := newFakeHost()
	first := host.addSurface(100, "agent")
	host.addSurface(200, "agent")
	procs := &fakeProcs{names: map[schema.ProcessID]string{
		100: "claude",
		200: "claude",
	}}
	locator := NewLocator(testBridgeConfig(), host, procs, nil)

	surface, ok := locator.FindSession(context.Background())
	if !ok || surface.ID != first.ID {
		t.Fatalf("expected first surface %s, got %v", first.ID, surface)
	}
}
