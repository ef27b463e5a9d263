package cli

import (
	"log"
	"strings"

	"github.com/spf13/cobra"
)

func (a *App) newShortcutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shortcut",
		Short: "Manage user shortcuts",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <alias> <server>",
			Short: "Map alias to a server name",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				tables, err := a.Tables()
				if err != nil {
					return err
				}
				alias, server := strings.ToLower(args[0]), args[1]
				if err := tables.AddShortcut(alias, server); err != nil {
					return err
				}
				a.warnUndefined(server)
				a.out.Success("Shortcut '%s' -> %s saved.", alias, server)
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <alias>",
			Short: "Remove a user shortcut",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				tables, err := a.Tables()
				if err != nil {
					return err
				}
				alias := strings.ToLower(args[0])
				if err := tables.RemoveShortcut(alias); err != nil {
					return err
				}
				a.out.Success("Shortcut '%s' removed.", alias)
				return nil
			},
		},
	)
	return cmd
}

func (a *App) newProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage user profiles",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name> <a,b,...>",
			Short: "Define a profile from shortcuts or server names",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				tables, err := a.Tables()
				if err != nil {
					return err
				}
				name := strings.ToLower(args[0])
				var members []string
				for _, m := range strings.Split(args[1], ",") {
					if m = strings.TrimSpace(m); m != "" {
						members = append(members, m)
					}
				}
				if err := tables.AddProfile(name, members); err != nil {
					return err
				}
				for _, m := range members {
					a.warnUndefined(tables.ResolveShortcut(m))
				}
				a.out.Success("Profile '%s' saved: %s", name, strings.Join(tables.Profiles[name], ", "))
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Remove a user profile",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				tables, err := a.Tables()
				if err != nil {
					return err
				}
				name := strings.ToLower(args[0])
				if err := tables.RemoveProfile(name); err != nil {
					return err
				}
				a.out.Success("Profile '%s' removed.", name)
				return nil
			},
		},
	)
	return cmd
}

// warnUndefined points out servers that mcp.json does not define yet. The
// entry is still saved; launches will reject it until it is defined.
func (a *App) warnUndefined(server string) {
	servers, err := a.Servers()
	if err != nil {
		log.Printf("Warning: cannot read server definitions: %v", err)
		return
	}
	_, invalid, err := servers.Validate([]string{server})
	if err != nil {
		log.Printf("Warning: cannot read server definitions: %v", err)
		return
	}
	if len(invalid) > 0 {
		a.out.Warn("Warning: '%s' is not defined in %s", server, servers.Path())
	}
}
