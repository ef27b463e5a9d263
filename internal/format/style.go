package format

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	BurntOrange = lipgloss.Color("#DA702C")
	MutedGray   = lipgloss.Color("245")
	Cyan        = lipgloss.Color("86")
	Red         = lipgloss.Color("196")
	Green       = lipgloss.Color("#2E8B57")
	Yellow      = lipgloss.Color("#F1C40F")
)

// styles are built per renderer so color output follows the target writer.
type styles struct {
	title   lipgloss.Style
	alias   lipgloss.Style
	name    lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Foreground(BurntOrange).Bold(true),
		alias:   r.NewStyle().Foreground(Cyan),
		name:    r.NewStyle(),
		muted:   r.NewStyle().Foreground(MutedGray),
		success: r.NewStyle().Foreground(Green),
		warning: r.NewStyle().Foreground(Yellow).Bold(true),
		err:     r.NewStyle().Foreground(Red).Bold(true),
	}
}
