package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	configFileName  = "config.json"
	mcpFileName     = "mcp.json"
	historyFileName = "history.jsonl"
)

// GetGlobalDir returns the sal state directory ($SAL_HOME or ~/.sal)
func GetGlobalDir() string {
	if dir := os.Getenv("SAL_HOME"); dir != "" {
		return ExpandHome(dir)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".sal")
}

// ConfigFile returns the path of the main settings file
func ConfigFile() string {
	return filepath.Join(GetGlobalDir(), configFileName)
}

// MCPFile returns the path of the master server definition file
func MCPFile() string {
	return filepath.Join(GetGlobalDir(), mcpFileName)
}

// HistoryFile returns the path of the launch history log
func HistoryFile() string {
	return filepath.Join(GetGlobalDir(), historyFileName)
}

// FlagDir is where the start-of-day routine drops its marker files.
func FlagDir() string {
	return GetGlobalDir()
}

// ClaudeConfigFile returns the claude configuration document ($SAL_CLAUDE_CONFIG or ~/.claude.json)
func ClaudeConfigFile() string {
	if p := os.Getenv("SAL_CLAUDE_CONFIG"); p != "" {
		return ExpandHome(p)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude.json")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}

// ProjectKey returns the absolute, symlink-resolved form of dir.
// Claude keys its per-project settings by this string.
func ProjectKey(dir string) string {
	abs, err := filepath.Abs(ExpandHome(dir))
	if err != nil {
		abs = dir
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// EnsureDir creates the directory and all parents if they don't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
