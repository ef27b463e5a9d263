package format

import (
	"log"
	"strings"

	"github.com/charmbracelet/glamour"
)

const maxMarkdownWidth = 100

// Markdown renders text for the terminal. Non-TTY output gets the text
// unchanged so reports can be piped or redirected as plain markdown.
func (p *Printer) Markdown(text string) string {
	if !p.styled {
		return text
	}

	width := p.width
	if width > maxMarkdownWidth {
		width = maxMarkdownWidth
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Printf("Markdown renderer unavailable: %v", err)
		return text
	}

	out, err := renderer.Render(text)
	if err != nil {
		log.Printf("Failed to render markdown: %v", err)
		return text
	}
	return strings.TrimRight(out, "\n")
}
