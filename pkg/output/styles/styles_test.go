package styles

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.Ascii)
	return r
}

func TestDefaultSheet(t *testing.T) {
	sheet := Default(plainRenderer())

	for _, name := range []string{"Index", "Alias", "Path", "Position", "Age", "Error", "Success", "Muted", "Candidate"} {
		assert.True(t, sheet.Has(name), "style %s should exist", name)
	}
	assert.False(t, sheet.Has("NonExistentStyle"))
}

func TestGet_UnknownIsPlain(t *testing.T) {
	sheet := Default(plainRenderer())
	assert.Equal(t, "text", sheet.Get("NonExistentStyle").Render("text"))
}

func TestParse(t *testing.T) {
	sheet, err := Parse([]byte(`
colors:
  red:
    light: "#FF0000"
    dark: "#FF0000"
styles:
  Loud:
    bold: true
    foreground: red
  Ghost:
    foreground: nocolor
`), plainRenderer())
	require.NoError(t, err)

	assert.True(t, sheet.Get("Loud").GetBold())
	assert.True(t, sheet.Has("Ghost"))

	_, err = Parse([]byte("styles: [unterminated"), plainRenderer())
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("styles:\n  Path:\n    italic: true\n"), 0644))

	sheet, err := LoadFile(path, plainRenderer())
	require.NoError(t, err)
	assert.True(t, sheet.Get("Path").GetItalic())
	assert.False(t, sheet.Has("Alias"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), plainRenderer())
	assert.Error(t, err)
}
