// Package shell renders the wrapper function that makes qcd change the
// directory of the calling shell.
//
// The binary only prints. The wrapper runs it, changes into the printed
// directory when the exit code is 0 and echoes the output otherwise. It
// also seeds QCD_RS_SESSIONID once per shell from `qcd --pid`.
package shell

import (
	"bytes"
	"embed"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/arthur-debert/qcd/pkg/errors"
)

//go:embed scripts/*.tmpl
var scriptsFS embed.FS

var templates = template.Must(template.ParseFS(scriptsFS, "scripts/*.tmpl"))

// scripts maps shell names to their template.
var scripts = map[string]string{
	"bash": "qcd.sh.tmpl",
	"zsh":  "qcd.sh.tmpl",
	"fish": "qcd.fish.tmpl",
}

// Options customizes the generated wrapper.
type Options struct {
	// Binary is the command the wrapper runs. Defaults to "qcd".
	Binary string
	// Function is the name of the shell function. Defaults to "qcd".
	Function string
}

// Supported lists the shells Script accepts, sorted.
func Supported() []string {
	names := make([]string, 0, len(scripts))
	for name := range scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Script returns the wrapper for shell.
func Script(shell string, opts Options) (string, error) {
	name, ok := scripts[shell]
	if !ok {
		return "", errors.Newf(errors.ErrInvalidInput, "unsupported shell %q, use one of %v", shell, Supported()).
			WithDetail("shell", shell)
	}

	if opts.Binary == "" {
		opts.Binary = "qcd"
	}
	if opts.Function == "" {
		opts.Function = "qcd"
	}

	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, name, struct {
		Shell    string
		Binary   string
		Function string
	}{shell, opts.Binary, opts.Function})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render shell integration")
	}
	return buf.String(), nil
}

// Detect guesses the user's shell from $SHELL. It returns "" when the shell
// is unknown or unsupported.
func Detect() string {
	name := filepath.Base(os.Getenv("SHELL"))
	if _, ok := scripts[name]; ok {
		return name
	}
	return ""
}
