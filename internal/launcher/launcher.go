package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/igoryan-dao/sal/internal/claudecfg"
	"github.com/igoryan-dao/sal/internal/config"
	"github.com/igoryan-dao/sal/internal/history"
	"github.com/igoryan-dao/sal/internal/mcp"
	"github.com/igoryan-dao/sal/internal/paths"
	"github.com/igoryan-dao/sal/internal/shortcuts"
)

const skipPermissionsFlag = "--dangerously-skip-permissions"

// ErrBinaryNotFound means the claude binary is not on PATH.
var ErrBinaryNotFound = errors.New("'claude' command not found. Is Claude Code installed?")

// UnknownServersError lists requested servers that have no definition.
type UnknownServersError struct {
	Names []string
}

func (e *UnknownServersError) Error() string {
	return "Unknown MCP servers: " + strings.Join(e.Names, ", ")
}

// Options describe one launch
type Options struct {
	MCPArg string // comma-separated shortcuts, profiles or server names
	Resume bool
	Local  bool // stay in the current directory
	Safe   bool // never pass --dangerously-skip-permissions
	Prompt string
}

// Result is the captured outcome of a one-shot run
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Launcher wires settings, name tables and server definitions into a
// claude invocation.
type Launcher struct {
	Bin      string
	Settings *config.Store
	Tables   *shortcuts.Tables
	Servers  *mcp.Manager
	Claude   *claudecfg.File
	History  *history.Log // optional

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Replaced in tests.
var (
	lookPath = exec.LookPath
	execve   = syscall.Exec
	chdir    = os.Chdir
	getwd    = os.Getwd
)

// BuildCommand returns the argv for claude and the servers to enable.
func (l *Launcher) BuildCommand(opts Options) ([]string, []string, error) {
	argv := []string{l.Bin}
	enabled := []string{}

	if opts.Resume {
		argv = append(argv, "--resume")
	}

	if opts.MCPArg != "" {
		requested := l.Tables.ParseMCPArg(opts.MCPArg)
		valid, invalid, err := l.Servers.Validate(requested)
		if err != nil {
			return nil, nil, err
		}
		if len(invalid) > 0 {
			return nil, nil, &UnknownServersError{Names: invalid}
		}
		enabled = append(enabled, valid...)
	}

	if !opts.Safe {
		settings, err := l.Settings.Settings()
		if err != nil {
			return nil, nil, err
		}
		if settings.SkipPermissions {
			argv = append(argv, skipPermissionsFlag)
		}
	}

	if opts.Prompt != "" {
		argv = append(argv, "--print", "-p", opts.Prompt)
	}

	return argv, enabled, nil
}

// WorkDir is the current directory in local mode, otherwise the
// configured claude_dir (created on demand).
func (l *Launcher) WorkDir(local bool) (string, error) {
	if local {
		return getwd()
	}
	dir, err := l.Settings.ClaudeDir()
	if err != nil {
		return "", err
	}
	if err := paths.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return dir, nil
}

// prepare resolves the command and points claude's project entry for dir
// at the enabled servers.
func (l *Launcher) prepare(opts Options) (argv []string, dir string, enabled []string, err error) {
	dir, err = l.WorkDir(opts.Local)
	if err != nil {
		return nil, "", nil, err
	}

	argv, enabled, err = l.BuildCommand(opts)
	if err != nil {
		return nil, "", nil, err
	}

	all, err := l.Servers.ListServers()
	if err != nil {
		return nil, "", nil, err
	}
	if err := l.Claude.SetProjectServers(dir, all, enabled); err != nil {
		return nil, "", nil, err
	}
	log.Printf("Enabled servers for %s: %v", dir, enabled)
	return argv, dir, enabled, nil
}

// Launch starts claude. With a prompt it runs claude as a child and
// returns its exit code; otherwise it replaces the current process and
// only returns on failure.
func (l *Launcher) Launch(ctx context.Context, opts Options) (int, error) {
	argv, dir, enabled, err := l.prepare(opts)
	if err != nil {
		return 1, err
	}

	bin, err := lookPath(argv[0])
	if err != nil {
		return 1, ErrBinaryNotFound
	}

	mode := history.ModeInteractive
	if opts.Prompt != "" {
		mode = history.ModePrompt
	}
	l.record(mode, dir, enabled, opts.Resume)

	if !opts.Local {
		if err := chdir(dir); err != nil {
			return 1, fmt.Errorf("failed to change to %s: %w", dir, err)
		}
	}

	if opts.Prompt != "" {
		return l.runChild(ctx, bin, argv, dir)
	}

	log.Printf("exec %s %v", bin, argv[1:])
	err = execve(bin, argv, os.Environ())
	return 1, fmt.Errorf("failed to exec %s: %w", bin, err)
}

// runChild runs claude with inherited stdio. Interrupts go to the child;
// sal waits for it and reports 130 like a shell would.
func (l *Launcher) runChild(ctx context.Context, bin string, argv []string, dir string) (int, error) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	cmd := exec.CommandContext(ctx, bin, argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	err := cmd.Run()
	select {
	case <-sigCh:
		return 130, nil
	default:
	}
	return exitCode(err)
}

// RunOneShot runs a prompt in claude_dir with the given servers enabled and
// captures the output. A non-zero exit is reported in Result, not as error.
func (l *Launcher) RunOneShot(ctx context.Context, prompt string, mcps []string, safe bool) (*Result, error) {
	argv, dir, enabled, err := l.prepare(Options{
		MCPArg: strings.Join(mcps, ","),
		Safe:   safe,
		Prompt: prompt,
	})
	if err != nil {
		return nil, err
	}
	l.record(history.ModeOneShot, dir, enabled, false)

	bin, err := lookPath(argv[0])
	if err != nil {
		return nil, ErrBinaryNotFound
	}

	var stdout, stderr strings.Builder
	cmd := exec.CommandContext(ctx, bin, argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	code, err := exitCode(cmd.Run())
	if err != nil {
		return nil, err
	}
	return &Result{ExitCode: code, Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// Update upgrades the claude npm package.
func (l *Launcher) Update(ctx context.Context) (int, error) {
	fmt.Fprintln(l.Stdout, "Updating Claude Code...")

	npm, err := lookPath("npm")
	if err != nil {
		return 1, errors.New("'npm' not found. Is Node.js installed?")
	}

	cmd := exec.CommandContext(ctx, npm, "update", "-g", "@anthropic-ai/claude-code")
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	code, err := exitCode(cmd.Run())
	if err != nil {
		return 1, err
	}
	if code == 0 {
		fmt.Fprintln(l.Stdout, "Claude Code updated successfully.")
	}
	return code, nil
}

// Version returns `claude --version`, or "" when claude is unavailable.
func (l *Launcher) Version(ctx context.Context) string {
	bin, err := lookPath(l.Bin)
	if err != nil {
		return ""
	}
	out, err := exec.CommandContext(ctx, bin, "--version").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func (l *Launcher) record(mode history.Mode, dir string, servers []string, resume bool) {
	if l.History == nil {
		return
	}
	if _, err := l.History.Append(history.Entry{Mode: mode, Dir: dir, Servers: servers, Resume: resume}); err != nil {
		log.Printf("Warning: failed to record history: %v", err)
	}
}

// exitCode maps a Run error to a process exit status. Only failures to
// start the process are returned as errors.
func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return 128 + int(status.Signal()), nil
		}
		return exitErr.ExitCode(), nil
	}
	return 1, err
}
