// Package routine implements the once-a-day morning routine: a one-shot
// claude run that builds a report, followed by a second run that mails it.
package routine

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/igoryan-dao/sal/internal/config"
	"github.com/igoryan-dao/sal/internal/launcher"
)

const (
	flagPrefix = ".start-of-day-ran-"
	flagLayout = "20060102"
	keepFlags  = 7 * 24 * time.Hour
)

var (
	reportServers = []string{"gm", "cal"}
	mailServers   = []string{"gm"}
)

// OneShotRunner runs a captured claude prompt with servers enabled.
type OneShotRunner interface {
	RunOneShot(ctx context.Context, prompt string, mcps []string, safe bool) (*launcher.Result, error)
}

type Routine struct {
	Runner      OneShotRunner
	ReportEmail string
	FlagDir     string
	Out         io.Writer
	Now         func() time.Time

	// Render formats the finished report for Out; nil prints it as is.
	Render func(report string) string
}

func (r *Routine) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Routine) flagPath(day time.Time) string {
	return filepath.Join(r.FlagDir, flagPrefix+day.Format(flagLayout))
}

// RanToday reports whether today's flag file exists.
func (r *Routine) RanToday() bool {
	_, err := os.Stat(r.flagPath(r.now()))
	return err == nil
}

// Status prints whether the routine already ran today.
func (r *Routine) Status() {
	today := r.now().Format(flagLayout)
	if r.RanToday() {
		fmt.Fprintf(r.Out, "Start-of-day routine already ran today (%s).\n", today)
		return
	}
	fmt.Fprintf(r.Out, "Start-of-day routine has not run today (%s).\n", today)
}

// Run executes the routine unless it already ran today and force is false.
func (r *Routine) Run(ctx context.Context, force bool) error {
	if r.ReportEmail == "" {
		return config.ErrNoReportEmail
	}
	if err := os.MkdirAll(r.FlagDir, 0755); err != nil {
		return err
	}

	if r.RanToday() && !force {
		fmt.Fprintln(r.Out, "Start-of-day routine already ran today. Use --force to run again.")
		return nil
	}

	fmt.Fprintln(r.Out, "Running start-of-day routine...")
	today := r.now()

	res, err := r.Runner.RunOneShot(ctx, reportPrompt(today), reportServers, false)
	if err != nil {
		return fmt.Errorf("morning routine failed: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("morning routine failed: %s", strings.TrimSpace(res.Stderr))
	}
	report := res.Stdout

	fmt.Fprintln(r.Out, "Sending email report...")
	mail, err := r.Runner.RunOneShot(ctx, mailPrompt(today, r.ReportEmail, report), mailServers, false)
	switch {
	case err != nil:
		fmt.Fprintf(r.Out, "Warning: Failed to send email report: %v\n", err)
	case mail.ExitCode != 0:
		fmt.Fprintln(r.Out, "Warning: Failed to send email report")
		fmt.Fprintln(r.Out, strings.TrimSpace(mail.Stderr))
	}

	if err := os.WriteFile(r.flagPath(today), nil, 0644); err != nil {
		return fmt.Errorf("failed to write flag file: %w", err)
	}
	r.pruneFlags(today)

	fmt.Fprintln(r.Out, "\nMorning routine completed!")
	if r.Render != nil {
		fmt.Fprintln(r.Out, r.Render(report))
	} else {
		fmt.Fprintln(r.Out, report)
	}
	return nil
}

// pruneFlags removes flag files older than a week. Names that don't parse
// are left alone.
func (r *Routine) pruneFlags(today time.Time) {
	matches, err := filepath.Glob(filepath.Join(r.FlagDir, flagPrefix+"*"))
	if err != nil {
		return
	}
	y, m, d := today.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(-keepFlags)

	for _, path := range matches {
		day, err := time.Parse(flagLayout, strings.TrimPrefix(filepath.Base(path), flagPrefix))
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			if err := os.Remove(path); err != nil {
				log.Printf("Failed to remove %s: %v", path, err)
			}
		}
	}
}

func reportPrompt(day time.Time) string {
	return fmt.Sprintf(`Run the complete start-of-day routine. Today's date is %s.

1. Move any previous morning-report_*.md files from desktop/ to desktop/archive/
2. Clean up completed tasks from active.md (move to archive/completed.md)
3. Clean up ## Done column in taskell.md (move to archive/completed.md, then clear)
4. Sync active.md and taskell.md - ensure both have same pending tasks
5. Update active.md date header
6. Check calendar for today and next 2 days
7. Review emails from last day, add follow-ups to BOTH files
8. Generate and save morning report to desktop/morning-report_%s.md
9. Return the report text`, day.Format("January 02, 2006"), day.Format(flagLayout))
}

func mailPrompt(day time.Time, to, report string) string {
	return fmt.Sprintf(`Send an email using the Gmail MCP with:
- To: %s
- Subject: "Morning Report - %s"
- Body: The following morning report (format as HTML):

%s`, to, day.Format("January 02, 2006"), report)
}
