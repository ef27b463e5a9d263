// Package format renders sal's listings for the terminal. Output is
// colored only when writing to a TTY.
package format

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const defaultWidth = 80

// Printer writes styled text to w
type Printer struct {
	w      io.Writer
	styled bool
	width  int
	st     styles
}

// NewPrinter inspects w: a terminal gets colors and its real width, any
// other writer gets plain text and a width of 80 columns.
func NewPrinter(w io.Writer) *Printer {
	p := &Printer{w: w, width: defaultWidth}

	renderer := lipgloss.NewRenderer(w)
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		p.styled = os.Getenv("NO_COLOR") == ""
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			p.width = width
		}
	}
	if !p.styled {
		renderer.SetColorProfile(termenv.Ascii)
	}
	p.st = newStyles(renderer)
	return p
}

func (p *Printer) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// Println writes a plain line.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Printf writes formatted plain text.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Success writes a line in the success color.
func (p *Printer) Success(format string, a ...any) {
	fmt.Fprintln(p.w, p.render(p.st.success, fmt.Sprintf(format, a...)))
}

// Warn writes a line in the warning color.
func (p *Printer) Warn(format string, a ...any) {
	fmt.Fprintln(p.w, p.render(p.st.warning, fmt.Sprintf(format, a...)))
}

// Error writes "Error: <msg>".
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.w, p.render(p.st.err, "Error:")+" "+msg)
}

// ServerList renders every configured server, sorted, with its alias.
func (p *Printer) ServerList(names []string, aliases map[string]string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString(p.render(p.st.title, "Available MCP Servers:"))
	b.WriteString("\n\n")
	for _, name := range sorted {
		alias := fmt.Sprintf("%-8s", aliases[name])
		fmt.Fprintf(&b, "  %s %s\n", p.render(p.st.alias, alias), p.render(p.st.name, name))
	}
	return strings.TrimRight(b.String(), "\n")
}

// ProfileList renders every profile, sorted, with its members.
func (p *Printer) ProfileList(profiles map[string][]string) string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(p.render(p.st.title, "MCP Profiles:"))
	b.WriteString("\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %s\n", p.render(p.st.alias, name))
		fmt.Fprintf(&b, "    %s\n\n", p.render(p.st.muted, strings.Join(profiles[name], ", ")))
	}
	return b.String()
}

// Entry is one row of a two-column listing.
type Entry struct {
	Key   string
	Value string
}

// Section renders a titled two-column block; values are cut to fit the
// terminal width.
func (p *Printer) Section(title string, entries []Entry, keyWidth int) string {
	var b strings.Builder
	b.WriteString(p.render(p.st.title, title))
	b.WriteString("\n")
	for _, e := range entries {
		value := truncate(e.Value, p.width-keyWidth-4)
		key := fmt.Sprintf("%-*s", keyWidth, e.Key)
		fmt.Fprintf(&b, "  %s %s\n", p.render(p.st.alias, key), value)
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
