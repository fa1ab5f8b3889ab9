// Package output formats what qcd prints: entry listings, the session
// stack, and error messages for the shell wrapper to echo.
//
// Renderers return strings rather than writing, since the caller decides
// between stdout and the exit code the wrapper acts on.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/qcd/pkg/errors"
	"github.com/arthur-debert/qcd/pkg/logging"
	"github.com/arthur-debert/qcd/pkg/output/styles"
	"github.com/arthur-debert/qcd/pkg/types"
)

// ErrorPrefix starts every error line on stdout.
const ErrorPrefix = "ERROR: "

// Renderer turns qcd results into display text.
type Renderer struct {
	format Format
	lr     *lipgloss.Renderer
	sheet  *styles.Sheet
}

// NewRenderer creates a renderer for output that will be written to w.
// FormatAuto is resolved against w.
func NewRenderer(w io.Writer, format Format) *Renderer {
	log := logging.GetLogger("output")

	if format == FormatAuto {
		format = DetectFormat(w)
	}

	lr := lipgloss.NewRenderer(w)
	if format == FormatText {
		lr.SetColorProfile(termenv.Ascii)
	}

	log.Debug().
		Str("format", format.String()).
		Str("colorProfile", fmt.Sprintf("%v", lr.ColorProfile())).
		Msg("Renderer created")

	return &Renderer{format: format, lr: lr, sheet: styles.Default(lr)}
}

// LoadStyles replaces the embedded style sheet with the one at path.
func (r *Renderer) LoadStyles(path string) error {
	sheet, err := styles.LoadFile(path, r.lr)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "could not load styles")
	}
	r.sheet = sheet
	return nil
}

// Format returns the resolved output format.
func (r *Renderer) Format() Format {
	return r.format
}

func (r *Renderer) style(name, text string) string {
	if r.format == FormatText || text == "" {
		return text
	}
	return r.sheet.Render(name, text)
}

// Entries renders the registry listing, one entry per line:
// right aligned index, alias padded to the longest alias, path.
func (r *Renderer) Entries(entries []types.Entry) string {
	if len(entries) == 0 {
		return r.style("Muted", "no entries")
	}

	width := 0
	for _, e := range entries {
		if w := lipgloss.Width(e.Alias); w > width {
			width = w
		}
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, r.entryLine(e, width))
	}
	return strings.Join(lines, "\n")
}

// Entry renders a single entry in the listing layout.
func (r *Renderer) Entry(e types.Entry) string {
	return r.entryLine(e, lipgloss.Width(e.Alias))
}

func (r *Renderer) entryLine(e types.Entry, aliasWidth int) string {
	var b strings.Builder
	b.WriteString(r.style("Index", fmt.Sprintf("%4d", e.Index)))
	b.WriteString(" ")
	if aliasWidth > 0 {
		b.WriteString(r.style("Alias", e.Alias))
		b.WriteString(strings.Repeat(" ", aliasWidth-lipgloss.Width(e.Alias)))
		b.WriteString(" ")
	}
	b.WriteString(r.style("Path", e.Path))
	return b.String()
}

// Stack renders a session stack, top first, with the age of each entry.
func (r *Renderer) Stack(entries []types.StackEntry, now time.Time) string {
	if len(entries) == 0 {
		return r.style("Muted", "stack is empty")
	}

	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			r.style("Position", fmt.Sprintf("%4d", i)),
			r.style("Path", e.Path),
			r.style("Age", "("+Age(now.Sub(e.Timestamp))+")")))
	}
	return strings.Join(lines, "\n")
}

// Error renders err for the wrapper to echo. Ambiguous references list the
// matching aliases below the message.
func (r *Renderer) Error(err error) string {
	if err == nil {
		return ""
	}

	msg := errors.Message(err)

	var b strings.Builder
	b.WriteString(r.style("Error", strings.TrimSpace(ErrorPrefix)))
	b.WriteString(" ")
	b.WriteString(msg)
	for _, c := range errors.Candidates(err) {
		b.WriteString("\n  ")
		b.WriteString(r.style("Candidate", c))
	}
	return b.String()
}

// Message renders text with the named style.
func (r *Renderer) Message(style, text string) string {
	return r.style(style, text)
}

// Age formats d coarsely: seconds are never shown past the first minute.
func Age(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}
