// Package proctable resolves live process identities from the host's
// process table.
package proctable

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"pkt.systems/agentpane/schema"
)

// Table inspects the live process table. The zero value is ready.
type Table struct{}

// New returns a process table.
func New() Table { return Table{} }

// ProgramName returns the program name of pid. It reads
// /proc/<pid>/comm and falls back to ps(1) where procfs is absent. A
// vanished process yields an error; callers treat that as "no match".
func (Table) ProgramName(pid schema.ProcessID) (string, error) {
	if pid <= 0 {
		return "", fmt.Errorf("invalid pid %d", pid)
	}
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err == nil {
		name := strings.TrimSpace(string(data))
		if name != "" {
			return name, nil
		}
	}
	out, psErr := exec.Command("ps", "-o", "comm=", "-p", fmt.Sprintf("%d", pid)).Output()
	if psErr != nil {
		if err != nil {
			return "", err
		}
		return "", psErr
	}
	name := strings.TrimSpace(string(out))
	if name == "" {
		return "", fmt.Errorf("process %d not found", pid)
	}
	return name, nil
}

// Alive reports whether pid refers to a live process. EPERM counts as
// alive: the process exists but belongs to someone else.
func (Table) Alive(pid schema.ProcessID) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(int(pid), 0)
	return err == nil || err == unix.EPERM
}
