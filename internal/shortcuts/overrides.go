package shortcuts

import (
	"fmt"
	"path/filepath"

	"github.com/igoryan-dao/sal/internal/fsutil"
)

// User overrides are always written as JSON, even when they were loaded
// from YAML; the JSON file takes precedence from then on.

func (t *Tables) shortcutsPath() string { return filepath.Join(t.dir, "shortcuts.json") }
func (t *Tables) profilesPath() string  { return filepath.Join(t.dir, "profiles.json") }

// AddShortcut stores alias -> server in the user override file.
func (t *Tables) AddShortcut(alias, server string) error {
	if alias == "" || server == "" {
		return fmt.Errorf("alias and server must not be empty")
	}
	err := t.updateUserShortcuts(func(m map[string]string) error {
		m[alias] = server
		return nil
	})
	if err != nil {
		return err
	}
	t.Shortcuts[alias] = server
	return nil
}

// RemoveShortcut deletes a user alias. A user alias that shadowed a
// built-in falls back to the built-in target.
func (t *Tables) RemoveShortcut(alias string) error {
	err := t.updateUserShortcuts(func(m map[string]string) error {
		if _, ok := m[alias]; !ok {
			if _, builtin := DefaultShortcuts()[alias]; builtin {
				return fmt.Errorf("shortcut '%s': %w", alias, ErrBuiltin)
			}
			return fmt.Errorf("shortcut '%s': %w", alias, ErrNotFound)
		}
		delete(m, alias)
		return nil
	})
	if err != nil {
		return err
	}

	if server, ok := DefaultShortcuts()[alias]; ok {
		t.Shortcuts[alias] = server
	} else {
		delete(t.Shortcuts, alias)
	}
	return nil
}

// AddProfile stores a user profile. Members may be aliases or server names.
func (t *Tables) AddProfile(name string, members []string) error {
	members = dedupe(members)
	if name == "" || len(members) == 0 {
		return fmt.Errorf("profile needs a name and at least one member")
	}
	err := t.updateUserProfiles(func(m map[string][]string) error {
		m[name] = members
		return nil
	})
	if err != nil {
		return err
	}
	t.Profiles[name] = members
	return nil
}

// RemoveProfile deletes a user profile.
func (t *Tables) RemoveProfile(name string) error {
	err := t.updateUserProfiles(func(m map[string][]string) error {
		if _, ok := m[name]; !ok {
			if _, builtin := builtinProfiles[name]; builtin {
				return fmt.Errorf("profile '%s': %w", name, ErrBuiltin)
			}
			return fmt.Errorf("profile '%s': %w", name, ErrNotFound)
		}
		delete(m, name)
		return nil
	})
	if err != nil {
		return err
	}

	if members, ok := DefaultProfiles()[name]; ok {
		t.Profiles[name] = members
	} else {
		delete(t.Profiles, name)
	}
	return nil
}

func (t *Tables) updateUserShortcuts(fn func(map[string]string) error) error {
	path := t.shortcutsPath()
	return fsutil.UpdateJSON(path, func(m *map[string]string) error {
		if *m == nil {
			*m = map[string]string{}
			if err := readOverrides(t.dir, "shortcuts", m); err != nil {
				return err
			}
		}
		return fn(*m)
	})
}

func (t *Tables) updateUserProfiles(fn func(map[string][]string) error) error {
	path := t.profilesPath()
	return fsutil.UpdateJSON(path, func(m *map[string][]string) error {
		if *m == nil {
			*m = map[string][]string{}
			if err := readOverrides(t.dir, "profiles", m); err != nil {
				return err
			}
		}
		return fn(*m)
	})
}
