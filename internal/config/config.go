package config

import (
	"os"
	"strings"

	"github.com/igoryan-dao/sal/internal/paths"
)

const defaultClaudeBin = "claude"

// Env holds the environment overrides sal honours
type Env struct {
	Home         string // SAL_HOME: state directory
	ClaudeConfig string // SAL_CLAUDE_CONFIG: claude's JSON document
	ClaudeBin    string // SAL_CLAUDE_BIN: binary to launch
	Debug        bool   // SAL_DEBUG: diagnostic logging
}

// LoadEnv reads configuration overrides from environment variables
func LoadEnv() Env {
	env := Env{
		Home:         paths.GetGlobalDir(),
		ClaudeConfig: paths.ClaudeConfigFile(),
		ClaudeBin:    defaultClaudeBin,
	}

	if bin := strings.TrimSpace(os.Getenv("SAL_CLAUDE_BIN")); bin != "" {
		env.ClaudeBin = bin
	}

	switch strings.ToLower(strings.TrimSpace(os.Getenv("SAL_DEBUG"))) {
	case "", "0", "false", "no":
	default:
		env.Debug = true
	}

	return env
}
