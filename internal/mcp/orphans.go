package mcp

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// Process is a running server process matched by its script path
type Process struct {
	PID     int
	Command string
}

// These hooks are replaced in tests.
var (
	pgrep       = runPgrep
	commandLine = runPs
	terminate   = sigterm
)

func runPgrep(pattern string) ([]int, error) {
	out, err := exec.Command("pgrep", "-f", pattern).Output()
	if err != nil {
		// pgrep exits 1 when nothing matches
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return nil, nil
		}
		return nil, err
	}
	return parsePIDs(string(out)), nil
}

func parsePIDs(out string) []int {
	var pids []int
	for _, field := range strings.Fields(out) {
		pid, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		pids = append(pids, pid)
	}
	return pids
}

func runPs(pid int) (string, error) {
	out, err := exec.Command("ps", "-p", strconv.Itoa(pid), "-o", "command=").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func sigterm(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Signal(syscall.SIGTERM)
}

// FindOrphans returns processes whose command line contains one of the
// given script paths, de-duplicated by PID. Lookup failures for a single
// path are logged and skipped.
func FindOrphans(scriptPaths []string) []Process {
	self := os.Getpid()
	seen := make(map[int]bool)
	var procs []Process

	for _, path := range scriptPaths {
		pids, err := pgrep(path)
		if err != nil {
			log.Printf("pgrep %s: %v", path, err)
			continue
		}
		for _, pid := range pids {
			if pid == self || seen[pid] {
				continue
			}
			seen[pid] = true

			cmd, err := commandLine(pid)
			if err != nil || cmd == "" {
				cmd = path
			}
			procs = append(procs, Process{PID: pid, Command: cmd})
		}
	}
	return procs
}

// KillOrphans sends SIGTERM to every orphaned server process. It returns
// how many were signalled and one status line per process.
func KillOrphans(scriptPaths []string) (int, []string) {
	procs := FindOrphans(scriptPaths)
	if len(procs) == 0 {
		return 0, []string{"No orphan MCP processes found."}
	}

	killed := 0
	var lines []string
	for _, p := range procs {
		if err := terminate(p.PID); err != nil {
			lines = append(lines, fmt.Sprintf("  Failed to kill PID %d: %v", p.PID, err))
			continue
		}
		killed++
		lines = append(lines, fmt.Sprintf("  Killed: %s (PID %d)", scriptName(p), p.PID))
	}

	header := fmt.Sprintf("Killed %d orphan MCP process(es):", killed)
	return killed, append([]string{header}, lines...)
}

// scriptName is the base name of the last word of the command line.
func scriptName(p Process) string {
	fields := strings.Fields(p.Command)
	if len(fields) == 0 {
		return fmt.Sprintf("PID %d", p.PID)
	}
	return filepath.Base(fields[len(fields)-1])
}
