package cli

import (
	"fmt"
	"strings"

	"github.com/igoryan-dao/sal/internal/claudecfg"
	"github.com/igoryan-dao/sal/internal/format"
	"github.com/igoryan-dao/sal/internal/mcp"
	"github.com/spf13/cobra"
)

func (a *App) newMCPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "List, select, inspect and clean up MCP servers",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				a.out.Error(fmt.Sprintf("Unknown mcp subcommand '%s'", strings.ToLower(args[0])))
				return &ExitError{Code: 1}
			}
			return a.runMCPList()
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all available MCPs",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runMCPList()
			},
		},
		&cobra.Command{
			Use:   "set <profile|none>",
			Short: "Set MCP profile permanently",
			RunE: func(cmd *cobra.Command, args []string) error {
				if len(args) == 0 {
					return fmt.Errorf("'mcp set' requires a profile name")
				}
				return a.runMCPSet(args[0])
			},
		},
		&cobra.Command{
			Use:   "kill",
			Short: "Kill orphan MCP server processes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				servers, err := a.Servers()
				if err != nil {
					return err
				}
				scripts, err := servers.ScriptPaths()
				if err != nil {
					return err
				}
				_, messages := mcp.KillOrphans(scripts)
				for _, msg := range messages {
					a.out.Println(msg)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "tools <name>",
			Short: "Start an MCP server and list its tools",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runMCPTools(cmd, args[0])
			},
		},
	)
	return cmd
}

func (a *App) runMCPList() error {
	servers, err := a.Servers()
	if err != nil {
		return err
	}
	tables, err := a.Tables()
	if err != nil {
		return err
	}
	names, err := servers.Names()
	if err != nil {
		return err
	}
	a.out.Println(a.out.ServerList(names, tables.ReverseShortcuts()))
	return a.printProjectServers()
}

// printProjectServers shows what the last launch left enabled in claude_dir.
func (a *App) printProjectServers() error {
	settings, err := a.Settings()
	if err != nil {
		return err
	}
	dir, err := settings.ClaudeDir()
	if err != nil {
		return err
	}
	claude := claudecfg.New(a.env.ClaudeConfig)
	defined, err := claude.ProjectServers(dir)
	if err != nil {
		return err
	}
	if len(defined) == 0 {
		return nil
	}
	enabled, err := claude.EnabledServers(dir)
	if err != nil {
		return err
	}
	list := "none"
	if len(enabled) > 0 {
		list = strings.Join(enabled, ", ")
	}
	a.out.Println()
	a.out.Printf("Enabled in %s: %s\n", dir, list)
	return nil
}

func (a *App) runMCPSet(profile string) error {
	settings, err := a.Settings()
	if err != nil {
		return err
	}

	if strings.EqualFold(profile, "none") {
		if err := settings.SetDefaultProfile(""); err != nil {
			return err
		}
		a.out.Success("Default profile cleared. SAL will launch with no MCPs.")
		return nil
	}

	tables, err := a.Tables()
	if err != nil {
		return err
	}
	name, ok := tables.CanonicalProfile(profile)
	if !ok {
		a.out.Error(fmt.Sprintf("Unknown profile '%s'", profile))
		a.out.Printf("Available profiles: %s, none\n", strings.Join(tables.ProfileNames(), ", "))
		return &ExitError{Code: 1}
	}
	profile = name

	if err := settings.SetDefaultProfile(profile); err != nil {
		return err
	}
	a.out.Success("Default profile set to '%s'.", profile)
	return nil
}

// runMCPTools accepts a shortcut or a server name.
func (a *App) runMCPTools(cmd *cobra.Command, name string) error {
	servers, err := a.Servers()
	if err != nil {
		return err
	}
	tables, err := a.Tables()
	if err != nil {
		return err
	}
	all, err := servers.ListServers()
	if err != nil {
		return err
	}

	server := tables.ResolveShortcut(name)
	cfg, ok := all[server]
	if !ok {
		return fmt.Errorf("unknown MCP server '%s'", name)
	}

	a.out.Printf("Starting %s...\n", server)
	info, err := mcp.Inspect(cmd.Context(), server, cfg)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s %s (%d tools):", info.ServerName, info.ServerVersion, len(info.Tools))
	entries := make([]format.Entry, 0, len(info.Tools))
	width := 0
	for _, tool := range info.Tools {
		entries = append(entries, format.Entry{Key: tool.Name, Value: firstLine(tool.Description)})
		if len(tool.Name) > width {
			width = len(tool.Name)
		}
	}
	a.out.Println(a.out.Section(title, entries, width))
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
