package output

import (
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer turns markdown documents into display text.
type MarkdownRenderer interface {
	Render(content string) string
}

// PlainMarkdown returns markdown unchanged, for pipes and NO_COLOR.
type PlainMarkdown struct{}

// Render returns the content unchanged
func (PlainMarkdown) Render(content string) string {
	return content
}

// GlamourMarkdown renders markdown for the terminal with glamour.
type GlamourMarkdown struct {
	Style string // "auto", "dark", "light", "notty" or a style file path
	Width int    // word wrap column, 0 keeps glamour's default
}

// Render converts markdown to terminal output, falling back to the raw
// content if glamour fails.
func (r GlamourMarkdown) Render(content string) string {
	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// Markdown returns the markdown renderer matching the resolved format.
func (r *Renderer) Markdown() MarkdownRenderer {
	if r.format == FormatTerminal {
		return GlamourMarkdown{Style: "auto", Width: 80}
	}
	return PlainMarkdown{}
}
