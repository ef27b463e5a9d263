package launcher

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/igoryan-dao/sal/internal/claudecfg"
	"github.com/igoryan-dao/sal/internal/config"
	"github.com/igoryan-dao/sal/internal/history"
	"github.com/igoryan-dao/sal/internal/mcp"
	"github.com/igoryan-dao/sal/internal/shortcuts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeClaude = `#!/bin/sh
echo "args:$*"
echo "cwd:$(pwd -P)"
echo "oops" >&2
exit ${FAKE_EXIT:-0}
`

type fixture struct {
	l       *Launcher
	home    string
	workDir string
	stdout  *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	home := t.TempDir()
	workDir := filepath.Join(home, "desktop")

	settings, err := config.NewStore(filepath.Join(home, "config.json"))
	require.NoError(t, err)
	require.NoError(t, settings.Set(config.KeyClaudeDir, workDir))

	tables, err := shortcuts.Load(home)
	require.NoError(t, err)

	servers := mcp.NewManager(filepath.Join(home, "mcp.json"))
	require.NoError(t, servers.SaveSettings(&mcp.Settings{McpServers: map[string]mcp.ServerConfig{
		"gmail":           {Command: "python", Args: []string{"/srv/gmail.py"}},
		"google-calendar": {Command: "python", Args: []string{"/srv/cal.py"}},
		"airtable":        {Command: "python", Args: []string{"/srv/at.py"}},
	}}))

	stdout := &bytes.Buffer{}
	return &fixture{
		l: &Launcher{
			Bin:      "claude",
			Settings: settings,
			Tables:   tables,
			Servers:  servers,
			Claude:   claudecfg.New(filepath.Join(home, ".claude.json")),
			History:  history.New(filepath.Join(home, "history.jsonl")),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
		},
		home:    home,
		workDir: workDir,
		stdout:  stdout,
	}
}

func (f *fixture) useFakeBinary(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}
	bin := filepath.Join(f.home, "fake-claude")
	require.NoError(t, os.WriteFile(bin, []byte(fakeClaude), 0755))
	f.l.Bin = bin
}

func stubProcessHooks(t *testing.T) (execArgs *[]string, chdirs *[]string) {
	t.Helper()
	origExec, origChdir := execve, chdir
	t.Cleanup(func() { execve, chdir = origExec, origChdir })

	var gotExec, gotChdir []string
	execve = func(argv0 string, argv []string, envv []string) error {
		gotExec = append([]string{argv0}, argv...)
		return errors.New("exec stubbed")
	}
	chdir = func(dir string) error {
		gotChdir = append(gotChdir, dir)
		return nil
	}
	return &gotExec, &gotChdir
}

func TestBuildCommand(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name        string
		opts        Options
		wantArgv    []string
		wantEnabled []string
	}{
		{
			name:        "plain",
			opts:        Options{},
			wantArgv:    []string{"claude", "--dangerously-skip-permissions"},
			wantEnabled: []string{},
		},
		{
			name:        "resume with servers",
			opts:        Options{Resume: true, MCPArg: "gm,cal"},
			wantArgv:    []string{"claude", "--resume", "--dangerously-skip-permissions"},
			wantEnabled: []string{"gmail", "google-calendar"},
		},
		{
			name:        "safe mode",
			opts:        Options{Safe: true, MCPArg: "gmail"},
			wantArgv:    []string{"claude"},
			wantEnabled: []string{"gmail"},
		},
		{
			name:        "prompt",
			opts:        Options{Prompt: "hello there"},
			wantArgv:    []string{"claude", "--dangerously-skip-permissions", "--print", "-p", "hello there"},
			wantEnabled: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			argv, enabled, err := f.l.BuildCommand(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantArgv, argv)
			assert.Equal(t, tt.wantEnabled, enabled)
		})
	}
}

func TestBuildCommand_SkipPermissionsDisabled(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.l.Settings.Set(config.KeySkipPermissions, false))

	argv, _, err := f.l.BuildCommand(Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"claude"}, argv)
}

func TestBuildCommand_UnknownServers(t *testing.T) {
	f := newFixture(t)

	// "start" includes airtable, gmail and google-calendar; "jf" has no definition here
	_, _, err := f.l.BuildCommand(Options{MCPArg: "start,jf,mystery"})
	var unknown *UnknownServersError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"jotform", "mystery"}, unknown.Names)
	assert.Equal(t, "Unknown MCP servers: jotform, mystery", err.Error())
}

func TestLaunch_InteractiveExecs(t *testing.T) {
	f := newFixture(t)
	f.useFakeBinary(t)
	execArgs, chdirs := stubProcessHooks(t)

	_, err := f.l.Launch(context.Background(), Options{MCPArg: "gm", Resume: true})
	require.ErrorContains(t, err, "exec stubbed")

	assert.Equal(t, []string{f.l.Bin, f.l.Bin, "--resume", "--dangerously-skip-permissions"}, *execArgs)
	assert.Equal(t, []string{f.workDir}, *chdirs)

	info, err := os.Stat(f.workDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	disabled, err := f.l.Claude.DisabledServers(f.workDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"airtable", "google-calendar"}, disabled)

	entries, err := f.l.History.Recent(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, history.ModeInteractive, entries[0].Mode)
	assert.Equal(t, []string{"gmail"}, entries[0].Servers)
	assert.True(t, entries[0].Resume)
}

func TestLaunch_LocalModeStaysPut(t *testing.T) {
	f := newFixture(t)
	f.useFakeBinary(t)
	_, chdirs := stubProcessHooks(t)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	_, err = f.l.Launch(context.Background(), Options{Local: true})
	require.Error(t, err)
	assert.Empty(t, *chdirs)

	servers, err := f.l.Claude.ProjectServers(cwd)
	require.NoError(t, err)
	assert.Len(t, servers, 3)
}

func TestLaunch_PromptReturnsExitCode(t *testing.T) {
	f := newFixture(t)
	f.useFakeBinary(t)
	stubProcessHooks(t)
	t.Setenv("FAKE_EXIT", "3")

	code, err := f.l.Launch(context.Background(), Options{Prompt: "summarize", Safe: true})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Contains(t, f.stdout.String(), "args:--print -p summarize")
}

func TestLaunch_BinaryNotFound(t *testing.T) {
	f := newFixture(t)
	f.l.Bin = "definitely-not-a-real-claude-binary"
	stubProcessHooks(t)

	code, err := f.l.Launch(context.Background(), Options{})
	assert.Equal(t, 1, code)
	assert.ErrorIs(t, err, ErrBinaryNotFound)
}

func TestRunOneShot_Captures(t *testing.T) {
	f := newFixture(t)
	f.useFakeBinary(t)

	res, err := f.l.RunOneShot(context.Background(), "report", []string{"gm", "cal"}, false)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "args:--dangerously-skip-permissions --print -p report")
	assert.Equal(t, "oops\n", res.Stderr)

	wantDir, err := filepath.EvalSymlinks(f.workDir)
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, "cwd:"+wantDir)

	disabled, err := f.l.Claude.DisabledServers(f.workDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"airtable"}, disabled)
}

func TestRunOneShot_UnknownServer(t *testing.T) {
	f := newFixture(t)
	_, err := f.l.RunOneShot(context.Background(), "x", []string{"nope"}, false)
	var unknown *UnknownServersError
	assert.ErrorAs(t, err, &unknown)
}

func TestVersion(t *testing.T) {
	f := newFixture(t)
	f.useFakeBinary(t)
	assert.True(t, strings.HasPrefix(f.l.Version(context.Background()), "args:--version"))

	f.l.Bin = "definitely-not-a-real-claude-binary"
	assert.Empty(t, f.l.Version(context.Background()))
}

func TestExitCode(t *testing.T) {
	code, err := exitCode(nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, code)

	code, err = exitCode(errors.New("exec: not started"))
	assert.Error(t, err)
	assert.Equal(t, 1, code)
}
