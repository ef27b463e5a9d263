package shortcuts

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/igoryan-dao/sal/internal/fsutil"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownProfile = errors.New("unknown profile")
	ErrBuiltin        = errors.New("built-in entries cannot be removed")
	ErrNotFound       = errors.New("no user entry")
)

// Tables is the effective shortcut and profile lookup: user overrides
// layered on top of the built-in tables.
type Tables struct {
	dir       string
	Shortcuts map[string]string
	Profiles  map[string][]string
}

// Load reads the user override files in dir and merges them over the
// built-ins. A user entry replaces the built-in entry with the same name.
func Load(dir string) (*Tables, error) {
	t := &Tables{
		dir:       dir,
		Shortcuts: DefaultShortcuts(),
		Profiles:  DefaultProfiles(),
	}

	userShortcuts := map[string]string{}
	if err := readOverrides(dir, "shortcuts", &userShortcuts); err != nil {
		return nil, err
	}
	for alias, server := range userShortcuts {
		t.Shortcuts[alias] = server
	}

	userProfiles := map[string][]string{}
	if err := readOverrides(dir, "profiles", &userProfiles); err != nil {
		return nil, err
	}
	for name, members := range userProfiles {
		t.Profiles[name] = members
	}

	return t, nil
}

// readOverrides loads <base>.json, falling back to <base>.yaml / <base>.yml.
func readOverrides(dir, base string, v any) error {
	found, err := fsutil.ReadJSON(filepath.Join(dir, base+".json"), v)
	if err != nil || found {
		return err
	}

	for _, ext := range []string{"yaml", "yml"} {
		path := filepath.Join(dir, base+"."+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		log.Printf("Loaded %s overrides from %s", base, path)
		return nil
	}
	return nil
}

// Aliases and profile names are matched case-insensitively; an exact
// match wins over a lower-cased one.

func (t *Tables) shortcut(name string) (string, bool) {
	if server, ok := t.Shortcuts[name]; ok {
		return server, true
	}
	server, ok := t.Shortcuts[strings.ToLower(name)]
	return server, ok
}

// CanonicalProfile returns the stored name of the profile matching name.
func (t *Tables) CanonicalProfile(name string) (string, bool) {
	if _, ok := t.Profiles[name]; ok {
		return name, true
	}
	lower := strings.ToLower(name)
	if _, ok := t.Profiles[lower]; ok {
		return lower, true
	}
	return "", false
}

// ResolveShortcut maps an alias to its server name. Anything that is not
// an alias is assumed to already be a server name.
func (t *Tables) ResolveShortcut(name string) string {
	if server, ok := t.shortcut(name); ok {
		return server
	}
	return name
}

// ResolveProfile expands a profile to server names in profile order.
func (t *Tables) ResolveProfile(name string) ([]string, error) {
	key, ok := t.CanonicalProfile(name)
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownProfile, name)
	}
	members := t.Profiles[key]
	servers := make([]string, 0, len(members))
	for _, m := range members {
		servers = append(servers, t.ResolveShortcut(m))
	}
	return servers, nil
}

// ParseMCPArg turns a -m argument ("gm,at", "google", "gmail") into a
// de-duplicated list of server names, keeping first-seen order.
func (t *Tables) ParseMCPArg(arg string) []string {
	var servers []string
	for _, item := range strings.Split(arg, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if expanded, err := t.ResolveProfile(item); err == nil {
			servers = append(servers, expanded...)
			continue
		}
		servers = append(servers, t.ResolveShortcut(item))
	}
	return dedupe(servers)
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// IsKnown reports whether name is a shortcut or a profile.
func (t *Tables) IsKnown(name string) bool {
	if _, ok := t.shortcut(name); ok {
		return true
	}
	return t.HasProfile(name)
}

// HasProfile reports whether a profile with this name exists.
func (t *Tables) HasProfile(name string) bool {
	_, ok := t.CanonicalProfile(name)
	return ok
}

// ProfileNames returns all profile names sorted.
func (t *Tables) ProfileNames() []string {
	names := make([]string, 0, len(t.Profiles))
	for name := range t.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReverseShortcuts maps server name -> alias. When several aliases point
// at one server the alphabetically first wins.
func (t *Tables) ReverseShortcuts() map[string]string {
	rev := make(map[string]string, len(t.Shortcuts))
	for alias, server := range t.Shortcuts {
		if cur, ok := rev[server]; !ok || alias < cur {
			rev[server] = alias
		}
	}
	return rev
}
