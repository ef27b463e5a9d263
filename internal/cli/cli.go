// Package cli wires sal's packages into the cobra command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/igoryan-dao/sal/internal/claudecfg"
	"github.com/igoryan-dao/sal/internal/config"
	"github.com/igoryan-dao/sal/internal/format"
	"github.com/igoryan-dao/sal/internal/history"
	"github.com/igoryan-dao/sal/internal/launcher"
	"github.com/igoryan-dao/sal/internal/mcp"
	"github.com/igoryan-dao/sal/internal/paths"
	"github.com/igoryan-dao/sal/internal/shortcuts"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

// ExitError carries an exit status that has already been reported to the
// user.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// App holds the state shared by all commands of one invocation. Files are
// loaded on first use so that `sal help` never touches the state directory.
type App struct {
	env    config.Env
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	out    *format.Printer
	errOut *format.Printer

	flags rootFlags

	settings *config.Store
	tables   *shortcuts.Tables
	servers  *mcp.Manager
}

type rootFlags struct {
	mcp     string
	resume  bool
	local   bool
	safe    bool
	prompt  string
	version bool
	verbose bool
}

// NewApp creates an App that talks to the given streams.
func NewApp(env config.Env, stdin io.Reader, stdout, stderr io.Writer) *App {
	return &App{
		env:    env,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		out:    format.NewPrinter(stdout),
		errOut: format.NewPrinter(stderr),
	}
}

// Execute runs sal with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	env := config.LoadEnv()
	setupLogging(stderr, env.Debug)
	mcp.Version = Version

	app := NewApp(env, stdin, stdout, stderr)
	root := NewRootCommand(app)
	if args == nil {
		// cobra falls back to os.Args for nil
		args = []string{}
	}
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	return app.exitCode(err)
}

func setupLogging(stderr io.Writer, enabled bool) {
	log.SetPrefix("[sal] ")
	log.SetFlags(log.Ltime)
	if enabled {
		log.SetOutput(stderr)
	} else {
		log.SetOutput(io.Discard)
	}
}

func (a *App) exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	a.errOut.Error(capitalize(err.Error()))
	return 1
}

// capitalize upper-cases the first letter of cobra's and our own lower-case
// error strings so every message reads "Error: Something ...".
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// NewRootCommand builds the full command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	cobra.EnableCaseInsensitive = true

	root := &cobra.Command{
		Use:           "sal",
		Short:         "Claude Code launcher with per-project MCP server selection",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if app.flags.verbose {
				setupLogging(app.stderr, true)
			}
		},
		RunE: app.runRoot,
	}
	root.SetIn(app.stdin)
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.Flags()
	flags.StringVarP(&app.flags.mcp, "mcp", "m", "", "Launch with specific MCP(s), comma-separated")
	flags.BoolVarP(&app.flags.resume, "resume", "r", false, "Resume last session")
	flags.BoolVarP(&app.flags.local, "local", "l", false, "Stay in current directory")
	flags.StringVarP(&app.flags.prompt, "prompt", "p", "", "One-shot prompt execution")
	flags.BoolVarP(&app.flags.version, "version", "v", false, "Show version information")

	persistent := root.PersistentFlags()
	persistent.BoolVar(&app.flags.safe, "safe", false, "Launch without --dangerously-skip-permissions")
	persistent.BoolVar(&app.flags.verbose, "verbose", false, "Log diagnostics to stderr")

	defaultHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == root {
			app.printHelp()
			return
		}
		defaultHelp(cmd, args)
	})

	root.AddCommand(
		app.newVersionCommand(),
		app.newUpdateCommand(),
		app.newProfilesCommand(),
		app.newMCPCommand(),
		app.newPromptCommand(),
		app.newConfigCommand(),
		app.newStartOfDayCommand(),
		app.newShortcutCommand(),
		app.newProfileCommand(),
		app.newHistoryCommand(),
	)
	return root
}

// runRoot handles `sal` with flags only, and `sal <shortcut|profile>`.
func (a *App) runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if a.flags.version {
		return a.runVersion(ctx)
	}
	if a.flags.prompt != "" {
		return a.runPrompt(ctx, a.flags.prompt)
	}

	if len(args) > 0 {
		name := strings.ToLower(args[0])
		tables, err := a.Tables()
		if err != nil {
			return err
		}
		if !tables.IsKnown(name) {
			a.out.Error(fmt.Sprintf("Unknown command '%s'", name))
			a.out.Println("Run 'sal help' for usage information.")
			return &ExitError{Code: 1}
		}
		return a.launch(ctx, launcher.Options{
			MCPArg: name,
			Resume: a.flags.resume,
			Local:  a.flags.local,
			Safe:   a.flags.safe,
		})
	}

	mcpArg := a.flags.mcp
	if !cmd.Flags().Changed("mcp") {
		settings, err := a.Settings()
		if err != nil {
			return err
		}
		typed, err := settings.Settings()
		if err != nil {
			return err
		}
		if typed.DefaultProfile != "" {
			log.Printf("Using default profile %q", typed.DefaultProfile)
			mcpArg = typed.DefaultProfile
		}
	}

	return a.launch(ctx, launcher.Options{
		MCPArg: mcpArg,
		Resume: a.flags.resume,
		Local:  a.flags.local,
		Safe:   a.flags.safe,
	})
}

func (a *App) launch(ctx context.Context, opts launcher.Options) error {
	l, err := a.Launcher()
	if err != nil {
		return err
	}
	code, err := l.Launch(ctx, opts)
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// Settings returns the config.json store.
func (a *App) Settings() (*config.Store, error) {
	if a.settings == nil {
		s, err := config.NewStore(paths.ConfigFile())
		if err != nil {
			return nil, err
		}
		a.settings = s
	}
	return a.settings, nil
}

// Tables returns the merged shortcut and profile tables.
func (a *App) Tables() (*shortcuts.Tables, error) {
	if a.tables == nil {
		t, err := shortcuts.Load(a.env.Home)
		if err != nil {
			return nil, err
		}
		a.tables = t
	}
	return a.tables, nil
}

// Servers returns the mcp.json manager, creating the file on first use.
func (a *App) Servers() (*mcp.Manager, error) {
	if a.servers == nil {
		m := mcp.NewManager(paths.MCPFile())
		if err := m.Init(); err != nil {
			return nil, err
		}
		a.servers = m
	}
	return a.servers, nil
}

// Launcher assembles a launcher from the loaded state.
func (a *App) Launcher() (*launcher.Launcher, error) {
	settings, err := a.Settings()
	if err != nil {
		return nil, err
	}
	tables, err := a.Tables()
	if err != nil {
		return nil, err
	}
	servers, err := a.Servers()
	if err != nil {
		return nil, err
	}
	return &launcher.Launcher{
		Bin:      a.env.ClaudeBin,
		Settings: settings,
		Tables:   tables,
		Servers:  servers,
		Claude:   claudecfg.New(a.env.ClaudeConfig),
		History:  history.New(paths.HistoryFile()),
		Stdin:    a.stdin,
		Stdout:   a.stdout,
		Stderr:   a.stderr,
	}, nil
}
