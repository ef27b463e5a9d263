package mcp

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubProcesses(t *testing.T, byPattern map[string][]int, cmds map[int]string, failKill map[int]bool) *[]int {
	t.Helper()
	origPgrep, origPs, origTerm := pgrep, commandLine, terminate
	t.Cleanup(func() {
		pgrep, commandLine, terminate = origPgrep, origPs, origTerm
	})

	var signalled []int
	pgrep = func(pattern string) ([]int, error) {
		if pattern == "broken" {
			return nil, errors.New("pgrep failed")
		}
		return byPattern[pattern], nil
	}
	commandLine = func(pid int) (string, error) {
		if cmd, ok := cmds[pid]; ok {
			return cmd, nil
		}
		return "", errors.New("gone")
	}
	terminate = func(pid int) error {
		if failKill[pid] {
			return errors.New("operation not permitted")
		}
		signalled = append(signalled, pid)
		return nil
	}
	return &signalled
}

func TestParsePIDs(t *testing.T) {
	assert.Equal(t, []int{12, 345}, parsePIDs("12\n345\n"))
	assert.Empty(t, parsePIDs(""))
	assert.Equal(t, []int{7}, parsePIDs("x\n7\n"))
}

func TestFindOrphans_Dedupes(t *testing.T) {
	stubProcesses(t,
		map[string][]int{
			"/srv/a.py": {100, 101},
			"/srv/b.py": {101, os.Getpid()},
		},
		map[int]string{100: "python /srv/a.py"},
		nil,
	)

	procs := FindOrphans([]string{"/srv/a.py", "broken", "/srv/b.py"})
	assert.Equal(t, []Process{
		{PID: 100, Command: "python /srv/a.py"},
		{PID: 101, Command: "/srv/a.py"},
	}, procs)
}

func TestKillOrphans_None(t *testing.T) {
	stubProcesses(t, nil, nil, nil)

	n, lines := KillOrphans([]string{"/srv/a.py"})
	assert.Equal(t, 0, n)
	assert.Equal(t, []string{"No orphan MCP processes found."}, lines)
}

func TestKillOrphans_Reports(t *testing.T) {
	signalled := stubProcesses(t,
		map[string][]int{"/srv/gmail_mcp_server.py": {200, 201}},
		map[int]string{
			200: "/venv/bin/python /srv/gmail_mcp_server.py",
			201: "/venv/bin/python /srv/gmail_mcp_server.py",
		},
		map[int]bool{201: true},
	)

	n, lines := KillOrphans([]string{"/srv/gmail_mcp_server.py"})
	assert.Equal(t, 1, n)
	assert.Equal(t, []int{200}, *signalled)
	assert.Equal(t, []string{
		"Killed 1 orphan MCP process(es):",
		"  Killed: gmail_mcp_server.py (PID 200)",
		"  Failed to kill PID 201: operation not permitted",
	}, lines)
}
