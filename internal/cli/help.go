package cli

import (
	"sort"
	"strings"

	"github.com/igoryan-dao/sal/internal/format"
	"github.com/igoryan-dao/sal/internal/shortcuts"
)

const helpKeyWidth = 25

const usageText = `USAGE:
  sal                       Launch Claude (no MCPs unless default_profile is set)
  sal -m <mcp>              Launch with specific MCP(s)
  sal -m gm,at              Launch with multiple MCPs
  sal <shortcut|profile>    Same as sal -m <name>
  sal -r, --resume          Resume last session
  sal -l, --local           Stay in current directory (don't cd to claude_dir)
  sal --safe                Launch without --dangerously-skip-permissions

COMMANDS:
  sal update                Update Claude Code to latest version
  sal version, -v           Show version information
  sal profiles              List available MCP profiles
  sal mcp list              List all available MCPs
  sal mcp set <profile>     Set MCP profile permanently (none to clear)
  sal mcp kill              Kill orphan MCP server processes
  sal mcp tools <name>      Start an MCP server and list its tools
  sal -p "<text>"           One-shot prompt execution
  sal prompt "<text>"       One-shot prompt execution (alt)
  sal config                Show all configuration
  sal config <key>          Get configuration value
  sal config <key> <value>  Set configuration value
  sal start-of-day          Run morning routine (once per day)
  sal start-of-day force    Run even if already ran today
  sal start-of-day status   Check if routine ran today
  sal shortcut add <a> <s>  Add a user shortcut
  sal shortcut remove <a>   Remove a user shortcut
  sal profile add <n> <a,b> Add a user profile
  sal profile remove <n>    Remove a user profile
  sal history [-n N]        Show recent launches
  sal help, -h              Show this help

CONFIGURATION:
  report_email              Email address for morning reports
  default_profile           Default MCP profile to use
  claude_dir                Working directory for Claude
  skip_permissions          Use --dangerously-skip-permissions (default: true)
`

func (a *App) printHelp() {
	a.out.Printf("%s\n", usageText)

	tables, err := a.Tables()
	if err != nil {
		// Broken override files should not hide the help text.
		tables = &shortcuts.Tables{
			Shortcuts: shortcuts.DefaultShortcuts(),
			Profiles:  shortcuts.DefaultProfiles(),
		}
	}
	a.out.Println(a.out.Section("MCP SHORTCUTS:", shortcutEntries(tables), helpKeyWidth))
	a.out.Println()
	a.out.Println(a.out.Section("MCP PROFILES:", profileEntries(tables), helpKeyWidth))
}

// shortcutEntries lists built-in aliases in their shipped order, then
// user-only aliases sorted.
func shortcutEntries(t *shortcuts.Tables) []format.Entry {
	var entries []format.Entry
	seen := map[string]bool{}
	for _, s := range shortcuts.BuiltinShortcuts() {
		entries = append(entries, format.Entry{Key: s.Alias, Value: t.ResolveShortcut(s.Alias)})
		seen[s.Alias] = true
	}

	var extra []string
	for alias := range t.Shortcuts {
		if !seen[alias] {
			extra = append(extra, alias)
		}
	}
	sort.Strings(extra)
	for _, alias := range extra {
		entries = append(entries, format.Entry{Key: alias, Value: t.Shortcuts[alias]})
	}
	return entries
}

func profileEntries(t *shortcuts.Tables) []format.Entry {
	entries := make([]format.Entry, 0, len(t.Profiles))
	for _, name := range t.ProfileNames() {
		entries = append(entries, format.Entry{Key: name, Value: strings.Join(t.Profiles[name], ", ")})
	}
	return entries
}
