package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/igoryan-dao/sal/internal/config"
	"github.com/igoryan-dao/sal/internal/format"
	"github.com/igoryan-dao/sal/internal/history"
	"github.com/igoryan-dao/sal/internal/launcher"
	"github.com/igoryan-dao/sal/internal/paths"
	"github.com/igoryan-dao/sal/internal/routine"
	"github.com/spf13/cobra"
)

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVersion(cmd.Context())
		},
	}
}

func (a *App) runVersion(ctx context.Context) error {
	a.out.Printf("SAL version: %s\n", Version)

	l := &launcher.Launcher{Bin: a.env.ClaudeBin}
	if v := l.Version(ctx); v != "" {
		a.out.Printf("Claude Code: %s\n", v)
	} else {
		a.out.Println("Claude Code: not found")
	}
	return nil
}

func (a *App) newUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update Claude Code to latest version",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := &launcher.Launcher{Stdout: a.stdout, Stderr: a.stderr}
			code, err := l.Update(cmd.Context())
			if err != nil {
				return err
			}
			if code != 0 {
				return &ExitError{Code: code}
			}
			return nil
		},
	}
}

func (a *App) newProfilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List available MCP profiles",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := a.Tables()
			if err != nil {
				return err
			}
			a.out.Printf("%s", a.out.ProfileList(tables.Profiles))
			return nil
		},
	}
}

func (a *App) newPromptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prompt <text...>",
		Short: "One-shot prompt execution",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("'prompt' requires text argument")
			}
			return a.runPrompt(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func (a *App) runPrompt(ctx context.Context, text string) error {
	return a.launch(ctx, launcher.Options{Prompt: text, Safe: a.flags.safe})
}

func (a *App) newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config [key [value]]",
		Short: "Show, get or set configuration values",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := a.Settings()
			if err != nil {
				return err
			}

			switch len(args) {
			case 0:
				for _, key := range settings.Keys() {
					v, _ := settings.Get(key)
					a.out.Printf("%s: %s\n", key, config.FormatValue(v))
				}
			case 1:
				v, ok := settings.Get(args[0])
				if !ok || v == nil {
					a.out.Println("(not set)")
					return nil
				}
				a.out.Println(config.FormatValue(v))
			default:
				key, value := args[0], config.ParseValue(args[1])
				if err := settings.Set(key, value); err != nil {
					return err
				}
				a.out.Printf("Set %s = %s\n", key, config.FormatValue(value))
			}
			return nil
		},
	}
}

func (a *App) newStartOfDayCommand() *cobra.Command {
	var force, status bool

	cmd := &cobra.Command{
		Use:   "start-of-day [force|status]",
		Short: "Run the morning routine once per day",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				switch strings.ToLower(arg) {
				case "force":
					force = true
				case "status":
					status = true
				}
			}

			settings, err := a.Settings()
			if err != nil {
				return err
			}
			typed, err := settings.Settings()
			if err != nil {
				return err
			}
			if typed.ReportEmail == "" {
				a.out.Error("No report_email configured.")
				a.out.Println("Run: sal config report_email your@email.com")
				return &ExitError{Code: 1}
			}

			r := &routine.Routine{
				ReportEmail: typed.ReportEmail,
				FlagDir:     paths.FlagDir(),
				Out:         a.stdout,
				Render:      a.out.Markdown,
			}
			if status {
				r.Status()
				return nil
			}

			l, err := a.Launcher()
			if err != nil {
				return err
			}
			r.Runner = l
			return r.Run(cmd.Context(), force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Run even if already ran today")
	cmd.Flags().BoolVar(&status, "status", false, "Check if routine ran today")
	return cmd
}

func (a *App) newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent launches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := history.New(paths.HistoryFile()).Recent(limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				a.out.Println("No launches recorded yet.")
				return nil
			}
			now := time.Now()
			for _, e := range entries {
				servers := "-"
				if len(e.Servers) > 0 {
					servers = strings.Join(e.Servers, ",")
				}
				resume := ""
				if e.Resume {
					resume = " (resume)"
				}
				a.out.Printf("%-16s  %-11s  %s  %s%s\n",
					format.TimeAgo(e.Time, now), e.Mode, e.Dir, servers, resume)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of entries to show (0 for all)")
	return cmd
}
