// Package claudecfg edits claude's own JSON configuration (~/.claude.json).
//
// The document belongs to claude, so it is handled as a generic JSON
// object: sal only rewrites mcpServers and disabledMcpServers inside a
// single project entry and leaves every other key alone.
package claudecfg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/igoryan-dao/sal/internal/fsutil"
	"github.com/igoryan-dao/sal/internal/mcp"
	"github.com/igoryan-dao/sal/internal/paths"
)

const (
	keyProjects        = "projects"
	keyMcpServers      = "mcpServers"
	keyDisabledServers = "disabledMcpServers"
)

// Document is the decoded claude configuration.
type Document map[string]any

// File is claude's configuration document on disk
type File struct {
	Path string
}

func New(path string) *File {
	return &File{Path: path}
}

// Load reads the document. A missing file yields an empty document; a
// file that is not valid JSON is an error so it never gets overwritten.
// Numbers are kept as json.Number so large integers survive a rewrite.
func (f *File) Load() (Document, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}

	var doc Document
	if len(bytes.TrimSpace(data)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.Path, err)
		}
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// newProject is the entry claude itself creates for a fresh directory.
func newProject() map[string]any {
	return map[string]any{
		"allowedTools":           []any{},
		"mcpContextUris":         []any{},
		keyMcpServers:            map[string]any{},
		"enabledMcpjsonServers":  []any{},
		"disabledMcpjsonServers": []any{},
		"hasTrustDialogAccepted": true,
		"ignorePatterns":         []any{},
	}
}

// SetProjectServers makes every server in all available to the project at
// projectDir and lets only the enabled ones auto-start.
//
// All definitions go into the project's mcpServers. disabledMcpServers
// keeps entries sal does not own (plugin servers and the like) and lists
// every sal server that is not enabled.
func (f *File) SetProjectServers(projectDir string, all map[string]mcp.ServerConfig, enabled []string) error {
	unlock, err := fsutil.Lock(f.Path)
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := f.Load()
	if err != nil {
		return err
	}

	projects, ok := doc[keyProjects].(map[string]any)
	if !ok {
		projects = map[string]any{}
		doc[keyProjects] = projects
	}

	key := paths.ProjectKey(projectDir)
	project, ok := projects[key].(map[string]any)
	if !ok {
		log.Printf("Creating project entry for %s", key)
		project = newProject()
		projects[key] = project
	}

	servers, err := toGeneric(all)
	if err != nil {
		return err
	}
	project[keyMcpServers] = servers
	project[keyDisabledServers] = disabledList(project[keyDisabledServers], all, enabled)

	if err := writeDocument(f.Path, doc); err != nil {
		return fmt.Errorf("failed to update %s: %w", f.Path, err)
	}
	return nil
}

// disabledList computes the new disabledMcpServers value.
func disabledList(existing any, all map[string]mcp.ServerConfig, enabled []string) []string {
	enabledSet := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		enabledSet[name] = true
	}

	disabled := make(map[string]bool)
	if list, ok := existing.([]any); ok {
		for _, item := range list {
			name, ok := item.(string)
			if !ok {
				continue
			}
			if _, owned := all[name]; !owned {
				disabled[name] = true
			}
		}
	}
	for name := range all {
		if !enabledSet[name] {
			disabled[name] = true
		}
	}

	out := make([]string, 0, len(disabled))
	for name := range disabled {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ProjectServers returns the mcpServers currently set for projectDir.
func (f *File) ProjectServers(projectDir string) (map[string]mcp.ServerConfig, error) {
	doc, err := f.Load()
	if err != nil {
		return nil, err
	}
	out := map[string]mcp.ServerConfig{}

	projects, _ := doc[keyProjects].(map[string]any)
	project, _ := projects[paths.ProjectKey(projectDir)].(map[string]any)
	raw, ok := project[keyMcpServers]
	if !ok {
		return out, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unexpected mcpServers shape in %s: %w", f.Path, err)
	}
	return out, nil
}

// DisabledServers returns the disabledMcpServers list for projectDir.
func (f *File) DisabledServers(projectDir string) ([]string, error) {
	doc, err := f.Load()
	if err != nil {
		return nil, err
	}
	projects, _ := doc[keyProjects].(map[string]any)
	project, _ := projects[paths.ProjectKey(projectDir)].(map[string]any)
	list, _ := project[keyDisabledServers].([]any)

	out := make([]string, 0, len(list))
	for _, item := range list {
		if name, ok := item.(string); ok {
			out = append(out, name)
		}
	}
	return out, nil
}

// EnabledServers returns the project's servers that are not disabled,
// sorted. It is empty when claude has no entry for projectDir.
func (f *File) EnabledServers(projectDir string) ([]string, error) {
	servers, err := f.ProjectServers(projectDir)
	if err != nil {
		return nil, err
	}
	disabled, err := f.DisabledServers(projectDir)
	if err != nil {
		return nil, err
	}
	skip := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		skip[name] = true
	}

	out := make([]string, 0, len(servers))
	for name := range servers {
		if !skip[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func toGeneric(servers map[string]mcp.ServerConfig) (map[string]any, error) {
	data, err := json.Marshal(servers)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func writeDocument(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, append(data, '\n'))
}
