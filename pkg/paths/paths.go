// Package paths provides centralized path handling for qcd.
// It normalizes the directories users bookmark, locates the database and
// resolves XDG locations for the config file.
package paths

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/qcd/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigFile overrides the location of the config file
	EnvConfigFile = "QCD_RS_CONFIG"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// DefaultDatabaseName is the database file created in the home directory
	DefaultDatabaseName = ".qcd_rs.sqlite"

	// AppDirName is the directory name for qcd-specific files under XDG dirs
	AppDirName = "qcd"

	// ConfigFileName is the name of the optional user config file
	ConfigFileName = "config.toml"

	// maxPathLength is a common filesystem limit
	maxPathLength = 4096
)

// Normalize turns a user supplied directory into the canonical form stored
// in the database: home expanded, absolute and lexically cleaned. Symlinks
// are not resolved. Paths that are not valid UTF-8 are rejected.
func Normalize(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidPath, "path cannot be empty")
	}
	if !utf8.ValidString(path) {
		return "", errors.New(errors.ErrInvalidPath, "only UTF-8 paths are supported").
			WithDetail(errors.DetailPath, path)
	}

	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidPath, "could not get absolute path for %s", path)
	}

	if err := Validate(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// Validate checks that a path can be stored as is: non-empty, absolute,
// valid UTF-8, without null bytes and within the usual length limit.
func Validate(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidPath, "path cannot be empty")
	}
	if !utf8.ValidString(path) {
		return errors.New(errors.ErrInvalidPath, "only UTF-8 paths are supported").
			WithDetail(errors.DetailPath, path)
	}
	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidPath, "path contains null bytes")
	}
	if len(path) > maxPathLength {
		return errors.New(errors.ErrInvalidPath, "path exceeds maximum length")
	}
	if !filepath.IsAbs(path) {
		return errors.Newf(errors.ErrInvalidPath, "path is not absolute: %s", path).
			WithDetail(errors.DetailPath, path)
	}
	return nil
}

// CurrentDir returns the working directory, rejecting non UTF-8 names.
func CurrentDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidPath, "could not read current work directory")
	}
	if !utf8.ValidString(cwd) {
		return "", errors.New(errors.ErrInvalidPath, "current work directory is not a UTF-8 path")
	}
	return cwd, nil
}

// DatabasePath joins the configured directory and file name. An empty
// directory means the user's home directory, an empty name the default
// database file name.
func DatabasePath(dir, name string) string {
	if dir == "" {
		dir = HomeDir()
	}
	if name == "" {
		name = DefaultDatabaseName
	}
	return filepath.Join(ExpandHome(dir), name)
}

// ConfigFilePath returns the location of the optional user config file.
func ConfigFilePath() string {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return ExpandHome(p)
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppDirName, ConfigFileName)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName, ConfigFileName)
}

// HomeDir returns the home directory, preferring $HOME so tests and
// wrappers can redirect it.
func HomeDir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return xdg.Home
}

// ExpandHome expands a leading ~ to the home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir := HomeDir()
	if homeDir == "" {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}

	// Handle both ~/ and ~\ but leave ~user alone
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
