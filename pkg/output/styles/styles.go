// Package styles defines the visual styling of qcd's listings.
//
// Styles use semantic names and adaptive colors that follow light and dark
// terminal themes. The default sheet is embedded from styles.yaml; a user
// sheet with the same layout can replace it.
package styles

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var defaultStyles []byte

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold         bool   `yaml:"bold,omitempty"`
	Italic       bool   `yaml:"italic,omitempty"`
	Underline    bool   `yaml:"underline,omitempty"`
	Foreground   string `yaml:"foreground,omitempty"`
	Background   string `yaml:"background,omitempty"`
	PaddingLeft  int    `yaml:"paddingLeft,omitempty"`
	PaddingRight int    `yaml:"paddingRight,omitempty"`
}

// Config represents the complete styles configuration
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Sheet maps semantic names to lipgloss styles bound to one renderer.
type Sheet struct {
	styles map[string]lipgloss.Style
}

// Default parses the embedded style sheet for r.
func Default(r *lipgloss.Renderer) *Sheet {
	sheet, err := Parse(defaultStyles, r)
	if err != nil {
		panic(fmt.Sprintf("embedded styles.yaml is invalid: %v", err))
	}
	return sheet
}

// LoadFile reads a style sheet from path.
func LoadFile(path string, r *lipgloss.Renderer) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read styles file %s: %w", path, err)
	}
	return Parse(data, r)
}

// Parse builds a sheet from YAML data. Unknown color names in a style are
// ignored.
func Parse(data []byte, r *lipgloss.Renderer) (*Sheet, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse styles: %w", err)
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(config.Colors))
	for name, def := range config.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	sheet := &Sheet{styles: make(map[string]lipgloss.Style, len(config.Styles))}
	for name, def := range config.Styles {
		sheet.styles[name] = buildStyle(r.NewStyle(), def, colors)
	}
	return sheet, nil
}

// buildStyle constructs a lipgloss style from a style definition
func buildStyle(style lipgloss.Style, def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}

	if color, ok := colors[def.Foreground]; ok {
		style = style.Foreground(color)
	}
	if color, ok := colors[def.Background]; ok {
		style = style.Background(color)
	}

	if def.PaddingLeft > 0 || def.PaddingRight > 0 {
		style = style.Padding(0, def.PaddingRight, 0, def.PaddingLeft)
	}
	return style
}

// Get returns the named style, or a plain style if there is none.
func (s *Sheet) Get(name string) lipgloss.Style {
	if style, ok := s.styles[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// Has reports whether the sheet defines name.
func (s *Sheet) Has(name string) bool {
	_, ok := s.styles[name]
	return ok
}

// Render applies the named style to text.
func (s *Sheet) Render(name, text string) string {
	return s.Get(name).Render(text)
}
