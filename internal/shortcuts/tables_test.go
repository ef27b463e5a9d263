package shortcuts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTables(t *testing.T, files map[string]string) *Tables {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	tables, err := Load(dir)
	require.NoError(t, err)
	return tables
}

func TestParseMCPArg(t *testing.T) {
	tables := loadTables(t, nil)

	tests := []struct {
		name string
		arg  string
		want []string
	}{
		{"single shortcut", "gm", []string{"gmail"}},
		{"multiple shortcuts", "gm,at", []string{"gmail", "airtable"}},
		{"profile", "start", []string{"airtable", "gmail", "google-calendar"}},
		{"full name passes through", "gmail", []string{"gmail"}},
		{"unknown passes through", "custom-server", []string{"custom-server"}},
		{"whitespace and empties", " gm , ,cal,", []string{"gmail", "google-calendar"}},
		{"duplicates removed keeping order", "cal,start,gm", []string{"google-calendar", "airtable", "gmail"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tables.ParseMCPArg(tt.arg))
		})
	}
}

func TestResolveProfile(t *testing.T) {
	tables := loadTables(t, nil)

	got, err := tables.ResolveProfile("dev")
	require.NoError(t, err)
	assert.Equal(t, []string{"n8n", "airtable", "jotform"}, got)

	_, err = tables.ResolveProfile("nope")
	assert.True(t, errors.Is(err, ErrUnknownProfile))
}

func TestLookups_IgnoreCase(t *testing.T) {
	tables := loadTables(t, map[string]string{
		"profiles.json": `{"work": ["gm", "cal"]}`,
	})

	assert.Equal(t, []string{"gmail", "google-calendar"}, tables.ParseMCPArg("Work"))
	assert.Equal(t, []string{"gmail", "airtable"}, tables.ParseMCPArg("GM,At"))
	assert.True(t, tables.IsKnown("GM"))
	assert.True(t, tables.HasProfile("WORK"))

	name, ok := tables.CanonicalProfile("Work")
	require.True(t, ok)
	assert.Equal(t, "work", name)

	_, ok = tables.CanonicalProfile("weekend")
	assert.False(t, ok)

	// Unknown names keep their spelling so the launcher can report them.
	assert.Equal(t, []string{"My-Server"}, tables.ParseMCPArg("My-Server"))
}

func TestLoad_JSONOverrides(t *testing.T) {
	tables := loadTables(t, map[string]string{
		"shortcuts.json": `{"gm": "gmail-work", "gh": "github"}`,
		"profiles.json":  `{"code": ["gh", "n8n"], "start": ["gm"]}`,
	})

	assert.Equal(t, "gmail-work", tables.ResolveShortcut("gm"))
	assert.Equal(t, "github", tables.ResolveShortcut("gh"))
	assert.Equal(t, "google-calendar", tables.ResolveShortcut("cal"))

	assert.Equal(t, []string{"github", "n8n"}, tables.ParseMCPArg("code"))
	assert.Equal(t, []string{"gmail-work"}, tables.ParseMCPArg("start"))
	assert.True(t, tables.IsKnown("gh"))
	assert.True(t, tables.IsKnown("code"))
	assert.False(t, tables.IsKnown("zzz"))
}

func TestLoad_YAMLOverrides(t *testing.T) {
	tables := loadTables(t, map[string]string{
		"shortcuts.yaml": "gh: github\n",
		"profiles.yml":   "code:\n  - gh\n  - at\n",
	})

	assert.Equal(t, []string{"github", "airtable"}, tables.ParseMCPArg("code"))
}

func TestLoad_JSONWinsOverYAML(t *testing.T) {
	tables := loadTables(t, map[string]string{
		"shortcuts.json": `{"gh": "github-json"}`,
		"shortcuts.yaml": "gh: github-yaml\n",
	})
	assert.Equal(t, "github-json", tables.ResolveShortcut("gh"))
}

func TestLoad_InvalidOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profiles.json"), []byte(`[1,2`), 0644))
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestReverseShortcuts(t *testing.T) {
	tables := loadTables(t, map[string]string{
		"shortcuts.json": `{"mail": "gmail"}`,
	})
	rev := tables.ReverseShortcuts()
	assert.Equal(t, "gm", rev["gmail"])
	assert.Equal(t, "jf", rev["jotform"])
}

func TestAddRemoveShortcut(t *testing.T) {
	tables := loadTables(t, nil)

	require.NoError(t, tables.AddShortcut("gh", "github"))
	require.NoError(t, tables.AddShortcut("gm", "gmail-work"))
	assert.Equal(t, "github", tables.ResolveShortcut("gh"))

	reloaded, err := Load(tables.dir)
	require.NoError(t, err)
	assert.Equal(t, "github", reloaded.ResolveShortcut("gh"))
	assert.Equal(t, "gmail-work", reloaded.ResolveShortcut("gm"))

	require.NoError(t, reloaded.RemoveShortcut("gm"))
	assert.Equal(t, "gmail", reloaded.ResolveShortcut("gm"), "built-in target restored")

	err = reloaded.RemoveShortcut("gm")
	assert.True(t, errors.Is(err, ErrBuiltin))

	err = reloaded.RemoveShortcut("missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, reloaded.RemoveShortcut("gh"))
	assert.False(t, reloaded.IsKnown("gh"))
}

func TestAddShortcut_SeedsFromYAML(t *testing.T) {
	tables := loadTables(t, map[string]string{
		"shortcuts.yaml": "gh: github\n",
	})
	require.NoError(t, tables.AddShortcut("sl", "slack"))

	reloaded, err := Load(tables.dir)
	require.NoError(t, err)
	assert.Equal(t, "github", reloaded.ResolveShortcut("gh"))
	assert.Equal(t, "slack", reloaded.ResolveShortcut("sl"))
}

func TestAddRemoveProfile(t *testing.T) {
	tables := loadTables(t, nil)

	require.NoError(t, tables.AddProfile("mail", []string{"gm", "gm", "cal"}))
	assert.Equal(t, []string{"gm", "cal"}, tables.Profiles["mail"])
	assert.Contains(t, tables.ProfileNames(), "mail")

	assert.Error(t, tables.AddProfile("empty", nil))

	err := tables.RemoveProfile("google")
	assert.True(t, errors.Is(err, ErrBuiltin))

	require.NoError(t, tables.RemoveProfile("mail"))
	assert.False(t, tables.HasProfile("mail"))
}
