package mcp

import (
	"fmt"
	"log"
	"os"
	"sort"
	"sync"

	"github.com/igoryan-dao/sal/internal/fsutil"
)

// Manager handles reading and writing the master server definition file.
type Manager struct {
	configPath string
	mu         sync.RWMutex
}

// NewManager creates a new MCP Manager for the given mcp.json path.
func NewManager(configPath string) *Manager {
	return &Manager{configPath: configPath}
}

// Path returns the backing file.
func (m *Manager) Path() string {
	return m.configPath
}

// Init writes the built-in definitions if the file does not exist yet.
func (m *Manager) Init() error {
	if _, err := os.Stat(m.configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	log.Printf("Creating %s with built-in server definitions", m.configPath)
	return m.SaveSettings(&Settings{McpServers: GetBuiltInServers()})
}

// LoadSettings reads the definitions, initialising the file on first use.
func (m *Manager) LoadSettings() (*Settings, error) {
	if err := m.Init(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var settings Settings
	if _, err := fsutil.ReadJSON(m.configPath, &settings); err != nil {
		return nil, err
	}
	if settings.McpServers == nil {
		settings.McpServers = make(map[string]ServerConfig)
	}
	return &settings, nil
}

// SaveSettings writes the definitions to disk.
func (m *Manager) SaveSettings(settings *Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	unlock, err := fsutil.Lock(m.configPath)
	if err != nil {
		return err
	}
	defer unlock()

	if err := fsutil.WriteJSON(m.configPath, settings); err != nil {
		return fmt.Errorf("failed to write mcp.json: %w", err)
	}
	return nil
}

// ListServers returns a map of all configured servers.
func (m *Manager) ListServers() (map[string]ServerConfig, error) {
	settings, err := m.LoadSettings()
	if err != nil {
		return nil, err
	}
	return settings.McpServers, nil
}

// Names returns the configured server names sorted.
func (m *Manager) Names() ([]string, error) {
	servers, err := m.ListServers()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Validate splits names into configured and unknown, preserving order.
func (m *Manager) Validate(names []string) (valid, invalid []string, err error) {
	servers, err := m.ListServers()
	if err != nil {
		return nil, nil, err
	}
	for _, name := range names {
		if _, ok := servers[name]; ok {
			valid = append(valid, name)
		} else {
			invalid = append(invalid, name)
		}
	}
	return valid, invalid, nil
}

// ScriptPaths returns the first argument of every server that has one;
// for script-based servers that is the script being run.
func (m *Manager) ScriptPaths() ([]string, error) {
	servers, err := m.ListServers()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		if args := servers[name].Args; len(args) > 0 {
			out = append(out, args[0])
		}
	}
	return out, nil
}
